package http

import (
	"errors"
	"html/template"

	"kharcha/internal/api"
	"kharcha/internal/core"
	"kharcha/internal/viewmodel"
)

// dashboardView is the template payload for the dashboard partial.
type dashboardView struct {
	Title     string
	Year      int
	Month     int
	PrevYear  int
	PrevMonth int
	NextYear  int
	NextMonth int

	Phase   viewmodel.Phase
	Failed  bool
	ErrText string

	Income         string
	TotalSpent     string
	MonthlyBalance string
	SavingsBalance string
	Overspent      bool
	OverBy         string

	Alert    *alertView
	Statuses []statusView
	Chart    []chartView
	Expenses []expenseView
	Budgets  []budgetView
	Insights []insightView

	Categories []core.Category
}

type alertView struct {
	Severity string
	Message  string
}

type statusView struct {
	Label   string
	Limit   string
	Spent   string
	Percent int
	Status  string
}

type chartView struct {
	Label  string
	Amount string
	Width  int
}

type expenseView struct {
	ID        int64
	Day       int
	Label     string
	Note      string
	Amount    string
	AmountRaw string
	Recurring bool
}

type budgetView struct {
	ID        int64
	Label     string
	Amount    string
	AmountRaw string
}

type insightView struct {
	Severity string
	Message  string
}

func buildDashboardView(state viewmodel.State) dashboardView {
	p := state.Period
	prev := p.Advance(-1)
	next := p.Advance(1)

	v := dashboardView{
		Title:      p.Title(),
		Year:       p.Year,
		Month:      p.Month,
		PrevYear:   prev.Year,
		PrevMonth:  prev.Month,
		NextYear:   next.Year,
		NextMonth:  next.Month,
		Phase:      state.Phase,
		Failed:     state.Phase == viewmodel.PhaseFailed,
		Categories: core.Categories(),
	}
	if state.Err != nil {
		v.ErrText = userMessage(state.Err)
	}

	snap := state.Snapshot
	if snap == nil {
		return v
	}

	v.Income = formatRupees(snap.Summary.Income)
	v.TotalSpent = formatRupees(snap.Summary.TotalSpent)
	v.MonthlyBalance = formatRupees(snap.Summary.MonthlyBalance)
	v.SavingsBalance = formatRupees(snap.Summary.SavingsBalance)
	v.Overspent = snap.Overspent
	if snap.Overspent {
		v.OverBy = formatRupees(snap.OverBy)
	}

	if snap.Alert != nil {
		v.Alert = &alertView{
			Severity: string(snap.Alert.Severity),
			Message:  snap.Alert.Message,
		}
	}
	for _, st := range snap.Statuses {
		v.Statuses = append(v.Statuses, statusView{
			Label:   st.Category.Label(),
			Limit:   formatRupees(st.Limit),
			Spent:   formatRupees(st.Spent),
			Percent: st.Percent,
			Status:  string(st.Status),
		})
	}

	// Bar widths scale against the largest category.
	var maxPaise int64
	for _, row := range snap.Chart {
		if row.Amount.Paise > maxPaise {
			maxPaise = row.Amount.Paise
		}
	}
	for _, row := range snap.Chart {
		width := 0
		if maxPaise > 0 && row.Amount.Paise > 0 {
			width = int((row.Amount.Paise*100 + maxPaise/2) / maxPaise)
			if width < 2 {
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		v.Chart = append(v.Chart, chartView{
			Label:  row.Category.Label(),
			Amount: formatRupees(row.Amount),
			Width:  width,
		})
	}

	for _, e := range snap.Expenses {
		v.Expenses = append(v.Expenses, expenseView{
			ID:        e.ID,
			Day:       e.Date.Day(),
			Label:     e.Category.Label(),
			Note:      template.HTMLEscapeString(e.Note),
			Amount:    formatRupees(e.Amount),
			AmountRaw: e.Amount.Decimal(),
			Recurring: e.IsRecurring,
		})
	}
	for _, b := range snap.Budgets {
		v.Budgets = append(v.Budgets, budgetView{
			ID:        b.ID,
			Label:     b.Category.Label(),
			Amount:    formatRupees(b.Amount),
			AmountRaw: b.Amount.Decimal(),
		})
	}
	for _, ins := range snap.Insights {
		v.Insights = append(v.Insights, insightView{
			Severity: string(ins.Severity),
			Message:  ins.Message,
		})
	}
	return v
}

func formatRupees(m core.Money) string {
	if m.Paise < 0 {
		return "-₹" + core.Money{Paise: -m.Paise}.Decimal()
	}
	return "₹" + m.Decimal()
}

// userMessage maps client errors to text safe to show in the page.
func userMessage(err error) string {
	var ve *api.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	var ae *api.AuthError
	if errors.As(err, &ae) {
		return "Session expired, please sign in again"
	}
	var te *api.TransportError
	if errors.As(err, &te) {
		return "Budget service is unreachable"
	}
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "Amount must be a positive number"
	case errors.Is(err, core.ErrInvalidCategory):
		return "Unknown category"
	case errors.Is(err, core.ErrInvalidRecurrenceDay):
		return "Recurrence day must be between 1 and 28"
	case errors.Is(err, core.ErrNoteTooLong):
		return "Note is too long"
	}
	return "Something went wrong, please retry"
}

// statusFor picks the HTTP status that matches a failed operation.
func statusFor(err error) int {
	var ve *api.ValidationError
	var ae *api.AuthError
	var te *api.TransportError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidCategory),
		errors.Is(err, core.ErrInvalidRecurrenceDay),
		errors.Is(err, core.ErrNoteTooLong):
		return 422
	case errors.As(err, &ae):
		return 401
	case errors.As(err, &te):
		return 502
	default:
		return 500
	}
}
