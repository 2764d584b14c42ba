package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"kharcha/internal/core"
	"kharcha/internal/log"
)

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	amount, err := core.ParseAmount(r.Form.Get("amount"))
	if err != nil {
		UnprocessableEntityError("Amount must be a positive number").Write(w)
		return
	}
	recurring, recurrenceDay := ParseRecurrence(r.Form)
	// The backend requires a date on every expense; the form has no date
	// input, so the expense lands on today.
	now := s.clock.Now()
	expense := core.Expense{
		Amount:        amount,
		Category:      core.ParseCategory(r.Form.Get("category")),
		Note:          SanitizeInput(r.Form.Get("note")),
		Date:          core.NewDate(now.Year(), int(now.Month()), now.Day()),
		IsRecurring:   recurring,
		RecurrenceDay: recurrenceDay,
	}

	advisories, err := s.dashboard.AddExpense(r.Context(), expense)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "expense creation failed",
			log.FieldOperation, log.OpCreate,
			log.FieldCategory, string(expense.Category),
			log.FieldAmount, expense.Amount.Paise,
			log.FieldError, err)
		ErrorResponse(statusFor(err), userMessage(err)).Write(w)
		return
	}

	state := s.dashboard.State()
	NewHTMXResponse().
		TriggerDashboardRefresh(state.Period).
		TriggerFormReset().
		TriggerSuccessNotification("Expense recorded").
		TriggerAdvisories(advisories).
		Write(w)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(chi.URLParam(r, "id"))
	if !ok {
		BadRequestError("Invalid expense id").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}
	amount, err := core.ParseAmount(r.Form.Get("amount"))
	if err != nil {
		UnprocessableEntityError("Amount must be a positive number").Write(w)
		return
	}
	note := SanitizeInput(r.Form.Get("note"))

	if err := s.dashboard.EditExpense(r.Context(), id, amount, note); err != nil {
		s.logger.ErrorContext(r.Context(), "expense update failed",
			log.FieldOperation, log.OpUpdate,
			log.FieldExpenseID, id,
			log.FieldError, err)
		ErrorResponse(statusFor(err), userMessage(err)).Write(w)
		return
	}

	NewHTMXResponse().
		TriggerDashboardRefresh(s.dashboard.State().Period).
		TriggerSuccessNotification("Expense updated").
		Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(chi.URLParam(r, "id"))
	if !ok {
		BadRequestError("Invalid expense id").Write(w)
		return
	}

	if err := s.dashboard.RemoveExpense(r.Context(), id); err != nil {
		s.logger.ErrorContext(r.Context(), "expense deletion failed",
			log.FieldOperation, log.OpDelete,
			log.FieldExpenseID, id,
			log.FieldError, err)
		ErrorResponse(statusFor(err), userMessage(err)).Write(w)
		return
	}

	NewHTMXResponse().
		TriggerDashboardRefresh(s.dashboard.State().Period).
		TriggerSuccessNotification("Expense deleted").
		Write(w)
}
