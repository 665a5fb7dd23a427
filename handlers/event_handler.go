package handlers

import (
	"net/http"

	"event-scheduler/models"
	"event-scheduler/services"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type EventHandler struct {
	app    *pocketbase.PocketBase
	events *services.EventService
}

func NewEventHandler(app *pocketbase.PocketBase, events *services.EventService) *EventHandler {
	return &EventHandler{
		app:    app,
		events: events,
	}
}

// GetEvent handles GET /api/v1/events/{shareToken}.
func (h *EventHandler) GetEvent(e *core.RequestEvent) error {
	shareToken := e.Request.PathValue("shareToken")

	event, err := h.events.ByShareToken(e.Request.Context(), shareToken)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, event)
}

// ListResponses handles GET /api/v1/events/{shareToken}/responses, the
// organizer view with voter identities.
func (h *EventHandler) ListResponses(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	shareToken := e.Request.PathValue("shareToken")

	event, responses, err := h.events.ListResponses(e.Request.Context(), shareToken, e.Auth.Id)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{
		"event":     event,
		"responses": responses,
	})
}

// SetStatus handles PATCH /api/v1/events/{shareToken}/status with
// {"action": "close"|"reopen"}.
func (h *EventHandler) SetStatus(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	shareToken := e.Request.PathValue("shareToken")

	var req struct {
		Action string `json:"action"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	var open bool
	switch req.Action {
	case "close":
		open = false
	case "reopen":
		open = true
	default:
		return apis.NewBadRequestError("Action must be \"close\" or \"reopen\"", nil)
	}

	event, err := h.events.SetOpenState(e.Request.Context(), shareToken, e.Auth.Id, open)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, event)
}

// Finalize handles POST /api/v1/events/{shareToken}/finalize. Business-rule
// violations come back as a 400 carrying the engine's structured result so
// the client can show the exact reason.
func (h *EventHandler) Finalize(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	shareToken := e.Request.PathValue("shareToken")

	var sel models.FinalizeSelections
	if err := e.BindBody(&sel); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	event, result, err := h.events.FinalizeEvent(e.Request.Context(), shareToken, e.Auth.Id, &sel)
	if err != nil {
		return apiError(err)
	}
	if !result.Success {
		return e.JSON(http.StatusBadRequest, result)
	}
	return e.JSON(http.StatusOK, map[string]any{
		"event":  event,
		"result": result,
	})
}

// RemoveOption handles DELETE /api/v1/events/{shareToken}/options. The body
// names either a category option or a list-field value.
func (h *EventHandler) RemoveOption(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	shareToken := e.Request.PathValue("shareToken")

	var req struct {
		Category   string `json:"category"`
		OptionName string `json:"optionName"`
		FieldID    string `json:"fieldId"`
		Value      string `json:"value"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	var event *models.Event
	var err error
	switch {
	case req.Category != "" && req.OptionName != "":
		event, err = h.events.RemoveCategoryOption(e.Request.Context(), shareToken, e.Auth.Id, req.Category, req.OptionName)
	case req.FieldID != "" && req.Value != "":
		event, err = h.events.RemoveListValue(e.Request.Context(), shareToken, e.Auth.Id, req.FieldID, req.Value)
	default:
		return apis.NewBadRequestError("Either category/optionName or fieldId/value is required", nil)
	}
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, event)
}
