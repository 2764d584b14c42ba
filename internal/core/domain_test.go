package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"food", CategoryFood},
		{"  Rent ", CategoryRent},
		{"SHOPPING", CategoryShopping},
		{"groceries", CategoryOther}, // unknown falls back
		{"", CategoryOther},
	}
	for _, tt := range tests {
		if got := ParseCategory(tt.in); got != tt.want {
			t.Errorf("ParseCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExpenseValidate(t *testing.T) {
	valid := Expense{
		Amount:   Money{Paise: 1500},
		Category: CategoryFood,
		Note:     "lunch",
		Date:     NewDate(2025, 7, 14),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid expense rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Expense)
		wantErr error
	}{
		{"zero amount", func(e *Expense) { e.Amount = Money{} }, ErrInvalidAmount},
		{"bad category", func(e *Expense) { e.Category = "fuel" }, ErrInvalidCategory},
		{"recurring without day", func(e *Expense) { e.IsRecurring = true }, ErrInvalidRecurrenceDay},
		{"recurring day too high", func(e *Expense) { e.IsRecurring = true; e.RecurrenceDay = 31 }, ErrInvalidRecurrenceDay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			if err := e.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	recurring := valid
	recurring.IsRecurring = true
	recurring.RecurrenceDay = 28
	if err := recurring.Validate(); err != nil {
		t.Errorf("recurring day 28 rejected: %v", err)
	}
}

func TestDashboardSummaryDecode(t *testing.T) {
	// Shape as served by the dashboard endpoint.
	payload := `{
		"income": "1000.00",
		"total_spent": 1500,
		"monthly_balance": "-500.00",
		"savings_balance": "250.00",
		"category_breakdown": {"food": "300.00", "rent": 1000, "travel": "50.00"},
		"category_budgets": {"food": {"budget": "400.00", "spent": "300.00", "percentage": 75.0}},
		"budget_summary": {"total_budget": "1300.00", "income": "1000.00", "difference": "-300.00", "is_over_budgeted": true}
	}`

	var s DashboardSummary
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Income.Paise != 100000 || s.TotalSpent.Paise != 150000 {
		t.Errorf("income/spent = %d/%d", s.Income.Paise, s.TotalSpent.Paise)
	}
	if s.MonthlyBalance.Paise != -50000 {
		t.Errorf("monthly_balance = %d, want -50000", s.MonthlyBalance.Paise)
	}
	if got := s.CategoryBreakdown[CategoryRent].Paise; got != 100000 {
		t.Errorf("rent breakdown = %d, want 100000", got)
	}
	cb, ok := s.CategoryBudgets[CategoryFood]
	if !ok || cb.Limit.Paise != 40000 || cb.Percentage != 75.0 {
		t.Errorf("food budget = %+v, ok=%v", cb, ok)
	}
	if !s.BudgetSummary.IsOverBudgeted || s.BudgetSummary.Difference.Paise != -30000 {
		t.Errorf("budget summary = %+v", s.BudgetSummary)
	}
}
