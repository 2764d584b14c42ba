package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"kharcha/internal/core"
	"kharcha/internal/log"
)

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}
	amount, err := core.ParseAmount(r.Form.Get("amount"))
	if err != nil {
		UnprocessableEntityError("Amount must be a positive number").Write(w)
		return
	}
	budget := core.Budget{
		Category: core.ParseCategory(r.Form.Get("category")),
		Amount:   amount,
	}

	if err := s.dashboard.AddBudget(r.Context(), budget); err != nil {
		s.logger.ErrorContext(r.Context(), "budget creation failed",
			log.FieldOperation, log.OpCreate,
			log.FieldCategory, string(budget.Category),
			log.FieldError, err)
		ErrorResponse(statusFor(err), userMessage(err)).Write(w)
		return
	}

	NewHTMXResponse().
		TriggerDashboardRefresh(s.dashboard.State().Period).
		TriggerFormReset().
		TriggerSuccessNotification("Budget saved").
		Write(w)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(chi.URLParam(r, "id"))
	if !ok {
		BadRequestError("Invalid budget id").Write(w)
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

	if err := s.dashboard.EditBudget(r.Context(), id, amount); err != nil {
		s.logger.ErrorContext(r.Context(), "budget update failed",
			log.FieldOperation, log.OpUpdate,
			log.FieldBudgetID, id,
			log.FieldError, err)
		ErrorResponse(statusFor(err), userMessage(err)).Write(w)
		return
	}

	NewHTMXResponse().
		TriggerDashboardRefresh(s.dashboard.State().Period).
		TriggerSuccessNotification("Budget updated").
		Write(w)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(chi.URLParam(r, "id"))
	if !ok {
		BadRequestError("Invalid budget id").Write(w)
		return
	}

	if err := s.dashboard.RemoveBudget(r.Context(), id); err != nil {
		s.logger.ErrorContext(r.Context(), "budget deletion failed",
			log.FieldOperation, log.OpDelete,
			log.FieldBudgetID, id,
			log.FieldError, err)
		ErrorResponse(statusFor(err), userMessage(err)).Write(w)
		return
	}

	NewHTMXResponse().
		TriggerDashboardRefresh(s.dashboard.State().Period).
		TriggerSuccessNotification("Budget removed").
		Write(w)
}
