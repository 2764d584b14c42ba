package http

import (
	"net/http"

	"kharcha/internal/core"
	"kharcha/internal/log"
)

func (s *Server) handleSetIncome(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}
	amount, err := core.ParseAmount(r.Form.Get("amount"))
	if err != nil {
		UnprocessableEntityError("Amount must be a positive number").Write(w)
		return
	}

	if err := s.dashboard.UpdateIncome(r.Context(), amount); err != nil {
		s.logger.ErrorContext(r.Context(), "income update failed",
			log.FieldOperation, log.OpUpdate,
			log.FieldAmount, amount.Paise,
			log.FieldError, err)
		ErrorResponse(statusFor(err), userMessage(err)).Write(w)
		return
	}

	NewHTMXResponse().
		TriggerDashboardRefresh(s.dashboard.State().Period).
		TriggerFormReset().
		TriggerSuccessNotification("Income updated").
		Write(w)
}
