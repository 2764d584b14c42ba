// Package viewmodel holds the dashboard's client-side state: the selected
// period, the last good snapshot, and the refresh machinery. It computes
// nothing the backend already derives; it only fetches, joins, and buckets.
package viewmodel

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"kharcha/internal/core"
	"kharcha/internal/log"
)

// Phase is the dashboard's lifecycle state.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

// Backend is the slice of the API client the view model needs.
type Backend interface {
	DashboardSummary(ctx context.Context, p core.Period) (core.DashboardSummary, error)
	CurrentDashboardSummary(ctx context.Context) (core.DashboardSummary, error)
	Expenses(ctx context.Context, p core.Period) ([]core.Expense, error)
	Budgets(ctx context.Context, p core.Period) ([]core.Budget, error)
	Insights(ctx context.Context, p core.Period) ([]core.Insight, error)
	MaterializeRecurring(ctx context.Context) error

	CreateExpense(ctx context.Context, e core.Expense) error
	UpdateExpense(ctx context.Context, id int64, amount core.Money, note string) error
	DeleteExpense(ctx context.Context, id int64) error
	CreateBudget(ctx context.Context, category core.Category, amount core.Money) error
	UpdateBudget(ctx context.Context, id int64, amount core.Money) error
	DeleteBudget(ctx context.Context, id int64) error
	SetIncome(ctx context.Context, amount core.Money) error
}

// AdvisoryPublisher receives the advisories raised after an expense is
// created. Publishing is best effort.
type AdvisoryPublisher interface {
	Publish(ctx context.Context, a Advisory) error
}

// Advisory is a spending warning raised right after an expense is created.
type Advisory struct {
	Severity core.Severity `json:"severity"`
	Category core.Category `json:"category,omitempty"`
	Message  string        `json:"message"`
}

// Snapshot is everything the dashboard renders for one period. It is
// immutable once built.
type Snapshot struct {
	Period   core.Period
	Summary  core.DashboardSummary
	Expenses []core.Expense
	Budgets  []core.Budget
	Insights []core.Insight

	Statuses  []CategoryStatus
	Chart     []ChartRow
	Alert     *Alert
	Overspent bool
	OverBy    core.Money
}

// State is a copy of the model's observable state.
type State struct {
	Phase    Phase
	Period   core.Period
	Snapshot *Snapshot
	Err      error
}

// Model serializes all dashboard operations. Every mutation triggers a full
// refresh; a failed refresh keeps the previous snapshot so the page can keep
// rendering stale-but-consistent data alongside the error.
type Model struct {
	backend Backend
	clock   Clock
	logger  *log.Logger
	alerts  AdvisoryPublisher

	mu         sync.Mutex
	phase      Phase
	period     core.Period
	snapshot   *Snapshot
	err        error
	generation uint64
}

// Option configures optional model collaborators.
type Option func(*Model)

// WithAdvisoryPublisher wires a sink for post-create advisories.
func WithAdvisoryPublisher(p AdvisoryPublisher) Option {
	return func(m *Model) { m.alerts = p }
}

// WithClock overrides the wall clock.
func WithClock(c Clock) Option {
	return func(m *Model) { m.clock = c }
}

// NewModel creates a model pointed at the clock's current period, in the
// loading phase until the first Refresh.
func NewModel(backend Backend, logger *log.Logger, opts ...Option) *Model {
	m := &Model{
		backend: backend,
		clock:   SystemClock(),
		logger:  logger.WithComponent(log.ComponentViewModel),
		phase:   PhaseLoading,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.period = core.PeriodOf(m.clock.Now())
	return m
}

// State returns a copy of the current state.
func (m *Model) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{Phase: m.phase, Period: m.period, Snapshot: m.snapshot, Err: m.err}
}

// SelectPeriod switches the dashboard to p and refreshes.
func (m *Model) SelectPeriod(ctx context.Context, p core.Period) error {
	if !p.Valid() {
		return fmt.Errorf("invalid period %s", p)
	}
	m.mu.Lock()
	m.period = p
	m.mu.Unlock()
	return m.Refresh(ctx)
}

// NextMonth advances the selected period forward and refreshes.
func (m *Model) NextMonth(ctx context.Context) error {
	return m.shift(ctx, 1)
}

// PrevMonth moves the selected period back and refreshes.
func (m *Model) PrevMonth(ctx context.Context) error {
	return m.shift(ctx, -1)
}

func (m *Model) shift(ctx context.Context, direction int) error {
	m.mu.Lock()
	m.period = m.period.Advance(direction)
	m.mu.Unlock()
	return m.Refresh(ctx)
}

// Refresh rebuilds the snapshot for the selected period. The four reads run
// concurrently and succeed or fail as a unit. A refresh that finishes after a
// newer one started discards its result.
func (m *Model) Refresh(ctx context.Context) error {
	m.mu.Lock()
	m.generation++
	gen := m.generation
	p := m.period
	m.phase = PhaseLoading
	m.mu.Unlock()

	// Recurring expenses are instantiated only when looking at the live
	// month. Failure here never blocks the view.
	if p == core.PeriodOf(m.clock.Now()) {
		if err := m.backend.MaterializeRecurring(ctx); err != nil {
			m.logger.WarnContext(ctx, "recurring materialization failed",
				log.FieldOperation, log.OpMaterialize,
				log.FieldPeriod, p.String(),
				log.FieldError, err)
		}
	}

	var (
		summary  core.DashboardSummary
		expenses []core.Expense
		budgets  []core.Budget
		insights []core.Insight
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = m.backend.DashboardSummary(gctx, p)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = m.backend.Expenses(gctx, p)
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = m.backend.Budgets(gctx, p)
		return err
	})
	g.Go(func() error {
		var err error
		insights, err = m.backend.Insights(gctx, p)
		return err
	})
	err := g.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		m.logger.DebugContext(ctx, "discarding stale refresh",
			log.FieldGeneration, gen,
			log.FieldPeriod, p.String())
		return nil
	}
	if err != nil {
		m.phase = PhaseFailed
		m.err = err
		m.logger.ErrorContext(ctx, "dashboard refresh failed",
			log.FieldOperation, log.OpRefresh,
			log.FieldPeriod, p.String(),
			log.FieldError, err)
		return err
	}

	snap := buildSnapshot(p, summary, expenses, budgets, insights)
	m.snapshot = &snap
	m.phase = PhaseReady
	m.err = nil
	m.logger.InfoContext(ctx, "dashboard refreshed",
		log.FieldOperation, log.OpRefresh,
		log.FieldPeriod, p.String(),
		log.FieldGeneration, gen)
	return nil
}

func buildSnapshot(p core.Period, summary core.DashboardSummary, expenses []core.Expense, budgets []core.Budget, insights []core.Insight) Snapshot {
	return Snapshot{
		Period:    p,
		Summary:   summary,
		Expenses:  expenses,
		Budgets:   budgets,
		Insights:  insights,
		Statuses:  categoryStatuses(summary.CategoryBudgets),
		Chart:     chartRows(summary.CategoryBreakdown),
		Alert:     budgetAlert(summary.BudgetSummary),
		Overspent: overspent(summary),
		OverBy:    overspentBy(summary),
	}
}

// AddExpense validates and records an expense, returns the advisories the
// spend triggered, and refreshes. The advisory check reads the live month
// regardless of the selected period.
func (m *Model) AddExpense(ctx context.Context, e core.Expense) ([]Advisory, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := m.backend.CreateExpense(ctx, e); err != nil {
		return nil, err
	}

	advisories := m.advisoriesFor(ctx, e.Category)
	if err := m.Refresh(ctx); err != nil {
		return advisories, err
	}
	return advisories, nil
}

// EditExpense updates an expense's amount and note, then refreshes.
func (m *Model) EditExpense(ctx context.Context, id int64, amount core.Money, note string) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if err := m.backend.UpdateExpense(ctx, id, amount, note); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// RemoveExpense deletes an expense, then refreshes.
func (m *Model) RemoveExpense(ctx context.Context, id int64) error {
	if err := m.backend.DeleteExpense(ctx, id); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// AddBudget creates a category budget, then refreshes.
func (m *Model) AddBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := m.backend.CreateBudget(ctx, b.Category, b.Amount); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// EditBudget changes a budget's limit, then refreshes.
func (m *Model) EditBudget(ctx context.Context, id int64, amount core.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if err := m.backend.UpdateBudget(ctx, id, amount); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// RemoveBudget deletes a budget, then refreshes.
func (m *Model) RemoveBudget(ctx context.Context, id int64) error {
	if err := m.backend.DeleteBudget(ctx, id); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// UpdateIncome sets the monthly income, then refreshes.
func (m *Model) UpdateIncome(ctx context.Context, amount core.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if err := m.backend.SetIncome(ctx, amount); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// advisoriesFor fetches the live month's summary and derives warnings for the
// just-touched category plus the overall overspend check. Best effort: any
// failure yields no advisories.
func (m *Model) advisoriesFor(ctx context.Context, category core.Category) []Advisory {
	summary, err := m.backend.CurrentDashboardSummary(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "advisory check skipped",
			log.FieldCategory, string(category),
			log.FieldError, err)
		return nil
	}

	var advisories []Advisory
	if cb, ok := summary.CategoryBudgets[category]; ok {
		percent := SpendPercent(cb.Spent, cb.Limit)
		switch {
		case percent >= 100:
			advisories = append(advisories, Advisory{
				Severity: core.SeverityDanger,
				Category: category,
				Message: fmt.Sprintf("%s budget exceeded: spent %s of %s",
					category.Label(), rupees(cb.Spent), rupees(cb.Limit)),
			})
		case percent >= nearLimitThreshold:
			advisories = append(advisories, Advisory{
				Severity: core.SeverityWarning,
				Category: category,
				Message: fmt.Sprintf("%s budget at %d%%: spent %s of %s",
					category.Label(), percent, rupees(cb.Spent), rupees(cb.Limit)),
			})
		}
	}
	if overspent(summary) {
		advisories = append(advisories, Advisory{
			Severity: core.SeverityDanger,
			Message: fmt.Sprintf("Monthly spending %s exceeds income %s",
				rupees(summary.TotalSpent), rupees(summary.Income)),
		})
	}

	m.publish(ctx, advisories)
	return advisories
}

func (m *Model) publish(ctx context.Context, advisories []Advisory) {
	if m.alerts == nil {
		return
	}
	for _, a := range advisories {
		if err := m.alerts.Publish(ctx, a); err != nil {
			m.logger.WarnContext(ctx, "advisory publish failed",
				log.FieldOperation, log.OpPublish,
				log.FieldSeverity, string(a.Severity),
				log.FieldError, err)
		}
	}
}
