// Package http serves the dashboard shell: full pages on navigation, HTMX
// partials for everything else. Handlers never compute financial figures,
// they render whatever snapshot the view model holds.
//
// This file implements a fluent builder for HTMX responses, covering
// HX-Trigger headers and consistent error bodies.
package http

import (
	"encoding/json"
	"html/template"
	"net/http"

	"kharcha/internal/core"
	"kharcha/internal/viewmodel"
)

// HTMXResponseBuilder accumulates triggers, headers and a body, then writes
// them in one shot.
type HTMXResponseBuilder struct {
	triggers   map[string]any
	statusCode int
	body       []byte
	headers    map[string]string
}

// NewHTMXResponse creates a response builder with default 200 status.
func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		triggers:   make(map[string]any),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code.
func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger adds a named trigger with optional data to the HX-Trigger header.
func (b *HTMXResponseBuilder) Trigger(name string, data any) *HTMXResponseBuilder {
	b.triggers[name] = data
	return b
}

// TriggerDashboardRefresh tells the page to reload the dashboard partial for
// the given period.
func (b *HTMXResponseBuilder) TriggerDashboardRefresh(p core.Period) *HTMXResponseBuilder {
	return b.Trigger("dashboard:refresh", map[string]int{"year": p.Year, "month": p.Month})
}

// TriggerFormReset clears the submitting form.
func (b *HTMXResponseBuilder) TriggerFormReset() *HTMXResponseBuilder {
	return b.Trigger("form:reset", struct{}{})
}

// NotificationType classifies toast notifications.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

// TriggerNotification adds a show-notification trigger.
func (b *HTMXResponseBuilder) TriggerNotification(notifType NotificationType, message string, durationMs int) *HTMXResponseBuilder {
	// Multiple notifications stack under one trigger name.
	existing, _ := b.triggers["show-notification"].([]map[string]any)
	b.triggers["show-notification"] = append(existing, map[string]any{
		"type":     string(notifType),
		"message":  message,
		"duration": durationMs,
	})
	return b
}

// TriggerSuccessNotification is a convenience method for success toasts.
func (b *HTMXResponseBuilder) TriggerSuccessNotification(message string) *HTMXResponseBuilder {
	return b.TriggerNotification(NotificationSuccess, message, 3000)
}

// TriggerErrorNotification is a convenience method for error toasts.
func (b *HTMXResponseBuilder) TriggerErrorNotification(message string) *HTMXResponseBuilder {
	return b.TriggerNotification(NotificationError, message, 5000)
}

// TriggerAdvisories surfaces post-create spending advisories as toasts.
func (b *HTMXResponseBuilder) TriggerAdvisories(advisories []viewmodel.Advisory) *HTMXResponseBuilder {
	for _, a := range advisories {
		b.TriggerNotification(notificationTypeFor(a.Severity), a.Message, 6000)
	}
	return b
}

func notificationTypeFor(s core.Severity) NotificationType {
	switch s {
	case core.SeverityDanger:
		return NotificationError
	case core.SeverityWarning:
		return NotificationWarning
	default:
		return NotificationInfo
	}
}

// Header adds a custom header.
func (b *HTMXResponseBuilder) Header(name, value string) *HTMXResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the response body as bytes.
func (b *HTMXResponseBuilder) Body(content []byte) *HTMXResponseBuilder {
	b.body = content
	return b
}

// BodyHTML sets an HTML response body.
func (b *HTMXResponseBuilder) BodyHTML(html string) *HTMXResponseBuilder {
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = []byte(html)
	return b
}

// Write sends the built response.
func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	if len(b.triggers) > 0 {
		if triggerJSON, err := json.Marshal(b.triggers); err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}

	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// ErrorResponse creates a standard error response. The message is escaped.
func ErrorResponse(statusCode int, message string) *HTMXResponseBuilder {
	escapedMsg := template.HTMLEscapeString(message)
	return NewHTMXResponse().
		Status(statusCode).
		BodyHTML(`<div class="error">` + escapedMsg + `</div>`)
}

// BadRequestError creates a 400 response.
func BadRequestError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// UnprocessableEntityError creates a 422 response.
func UnprocessableEntityError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

// BadGatewayError creates a 502 response, used when the budget backend is
// unreachable.
func BadGatewayError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusBadGateway, message)
}

// InternalServerError creates a 500 response.
func InternalServerError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}
