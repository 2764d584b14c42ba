package core

import (
	"errors"
	"strings"
	"time"
)

const (
	CategoryFood     Category = "food"
	CategoryTravel   Category = "travel"
	CategoryShopping Category = "shopping"
	CategoryRent     Category = "rent"
	CategoryOther    Category = "other"
)

const (
	SeverityDanger   Severity = "danger"
	SeverityWarning  Severity = "warning"
	SeverityPositive Severity = "positive"
)

type (
	// Category is the closed set of expense classifications. Unknown values
	// fall back to CategoryOther via ParseCategory.
	Category string

	// Severity classifies server-derived insights and client advisories.
	Severity string

	Date struct {
		time.Time
	}

	Money struct {
		Paise int64
	}

	Expense struct {
		ID            int64    `json:"id"`
		Amount        Money    `json:"amount"`
		Category      Category `json:"category"`
		Note          string   `json:"note"`
		Date          Date     `json:"date"`
		IsRecurring   bool     `json:"is_recurring"`
		RecurrenceDay int      `json:"recurrence_day"`
	}

	Budget struct {
		ID       int64    `json:"id"`
		Category Category `json:"category"`
		Amount   Money    `json:"amount"`
	}

	// CategoryBudget is the server-derived spend-vs-limit pair for one
	// category, as returned inside DashboardSummary.
	CategoryBudget struct {
		Limit      Money   `json:"budget"`
		Spent      Money   `json:"spent"`
		Percentage float64 `json:"percentage"`
	}

	BudgetSummary struct {
		TotalBudget    Money `json:"total_budget"`
		Income         Money `json:"income"`
		Difference     Money `json:"difference"`
		IsOverBudgeted bool  `json:"is_over_budgeted"`
	}

	// DashboardSummary is the per-period snapshot computed by the backend.
	// It is treated as immutable and refetched whole after any mutation or
	// period change.
	DashboardSummary struct {
		Income            Money                       `json:"income"`
		TotalSpent        Money                       `json:"total_spent"`
		MonthlyBalance    Money                       `json:"monthly_balance"`
		SavingsBalance    Money                       `json:"savings_balance"`
		CategoryBreakdown map[Category]Money          `json:"category_breakdown"`
		CategoryBudgets   map[Category]CategoryBudget `json:"category_budgets"`
		BudgetSummary     BudgetSummary               `json:"budget_summary"`
	}

	Insight struct {
		Severity Severity `json:"severity"`
		Message  string   `json:"message"`
	}
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidCategory      = errors.New("invalid category")
	ErrInvalidRecurrenceDay = errors.New("recurrence day must be between 1 and 28")
	ErrNoteTooLong          = errors.New("note too long (max 200 characters)")
)

// Categories returns the closed category set in display order.
func Categories() []Category {
	return []Category{CategoryFood, CategoryTravel, CategoryShopping, CategoryRent, CategoryOther}
}

// ParseCategory normalizes a raw category string. Unknown or empty input
// resolves to CategoryOther, the defined default.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c
	}
	return CategoryOther
}

func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryTravel, CategoryShopping, CategoryRent, CategoryOther:
		return true
	default:
		return false
	}
}

// Label returns the category name capitalized for display.
func (c Category) Label() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

func (s Severity) Valid() bool {
	switch s {
	case SeverityDanger, SeverityWarning, SeverityPositive:
		return true
	default:
		return false
	}
}

// NewDate creates a Date from year, month, day at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON renders the date in the backend's YYYY-MM-DD wire format.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (m Money) Validate() error {
	if m.Paise <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks a user-entered expense before it is sent to the backend.
// Server-assigned fields (ID, Date defaults) are not validated here.
func (e Expense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if len(e.Note) > 200 {
		return ErrNoteTooLong
	}
	if e.IsRecurring {
		if e.RecurrenceDay < 1 || e.RecurrenceDay > 28 {
			return ErrInvalidRecurrenceDay
		}
	}
	return nil
}

func (b Budget) Validate() error {
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if !b.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}
