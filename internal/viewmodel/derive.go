package viewmodel

import (
	"fmt"
	"sort"

	"kharcha/internal/core"
)

// BudgetStatus buckets a category's spend against its limit.
type BudgetStatus string

const (
	StatusOnTrack   BudgetStatus = "on-track"   // percent < 80
	StatusNearLimit BudgetStatus = "near-limit" // 80 <= percent < 100
	StatusOver      BudgetStatus = "over-budget"
)

const nearLimitThreshold = 80

// SpendPercent returns spend as a whole percentage of limit, rounded half up
// and capped at 100. A missing or zero limit yields 0.
func SpendPercent(spent, limit core.Money) int {
	if limit.Paise <= 0 {
		return 0
	}
	if spent.Paise <= 0 {
		return 0
	}
	percent := (spent.Paise*100 + limit.Paise/2) / limit.Paise
	if percent > 100 {
		return 100
	}
	return int(percent)
}

// StatusOf buckets a capped percentage. Exactly 100 reads as over budget
// since the cap only engages once spend reaches the limit.
func StatusOf(percent int) BudgetStatus {
	switch {
	case percent >= 100:
		return StatusOver
	case percent >= nearLimitThreshold:
		return StatusNearLimit
	default:
		return StatusOnTrack
	}
}

// CategoryStatus is the per-category budget gauge shown on the dashboard.
type CategoryStatus struct {
	Category core.Category
	Limit    core.Money
	Spent    core.Money
	Percent  int
	Status   BudgetStatus
}

// ChartRow is one bar of the category breakdown chart.
type ChartRow struct {
	Category core.Category
	Amount   core.Money
}

// Alert is a derived warning shown above the dashboard.
type Alert struct {
	Severity core.Severity
	Message  string
}

// categoryStatuses derives the gauge list from the server's per-category
// figures, in display order. Categories without a budget are omitted.
func categoryStatuses(budgets map[core.Category]core.CategoryBudget) []CategoryStatus {
	statuses := make([]CategoryStatus, 0, len(budgets))
	for _, cat := range core.Categories() {
		cb, ok := budgets[cat]
		if !ok {
			continue
		}
		percent := SpendPercent(cb.Spent, cb.Limit)
		statuses = append(statuses, CategoryStatus{
			Category: cat,
			Limit:    cb.Limit,
			Spent:    cb.Spent,
			Percent:  percent,
			Status:   StatusOf(percent),
		})
	}
	return statuses
}

// chartRows produces one row per category, largest spend first. Ties break on
// category name so the ordering is stable. Zero rows are kept: an empty bar
// still tells the reader the category exists.
func chartRows(breakdown map[core.Category]core.Money) []ChartRow {
	rows := make([]ChartRow, 0, len(core.Categories()))
	for _, cat := range core.Categories() {
		rows = append(rows, ChartRow{Category: cat, Amount: breakdown[cat]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Amount.Paise != rows[j].Amount.Paise {
			return rows[i].Amount.Paise > rows[j].Amount.Paise
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// budgetAlert derives the over-budgeted warning. Shown only when the backend
// flags the total budget as exceeding income; the severity escalates when the
// shortfall passes a fifth of income.
func budgetAlert(bs core.BudgetSummary) *Alert {
	if !bs.IsOverBudgeted {
		return nil
	}
	severity := core.SeverityWarning
	diff := bs.Difference.Paise
	if diff < 0 {
		diff = -diff
	}
	if diff*5 > bs.Income.Paise {
		severity = core.SeverityDanger
	}
	return &Alert{
		Severity: severity,
		Message: fmt.Sprintf("Budgets total %s but income is %s",
			rupees(bs.TotalBudget), rupees(bs.Income)),
	}
}

// overspent reports whether the month's spending exceeds its income.
func overspent(s core.DashboardSummary) bool {
	return s.TotalSpent.Paise > s.Income.Paise
}

// overspentBy returns the excess of spending over income, zero when spending
// is within income.
func overspentBy(s core.DashboardSummary) core.Money {
	if s.TotalSpent.Paise <= s.Income.Paise {
		return core.Money{}
	}
	return core.Money{Paise: s.TotalSpent.Paise - s.Income.Paise}
}

func rupees(m core.Money) string {
	return "₹" + m.Decimal()
}
