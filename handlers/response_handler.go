package handlers

import (
	"fmt"
	"net/http"

	"event-scheduler/models"
	"event-scheduler/security"
	"event-scheduler/services"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type ResponseHandler struct {
	app       *pocketbase.PocketBase
	responses *services.ResponseService
	limiter   *security.RateLimiter
}

func NewResponseHandler(app *pocketbase.PocketBase, responses *services.ResponseService, limiter *security.RateLimiter) *ResponseHandler {
	return &ResponseHandler{
		app:       app,
		responses: responses,
		limiter:   limiter,
	}
}

// SubmitResponse handles POST /api/v1/events/{shareToken}/responses.
func (h *ResponseHandler) SubmitResponse(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	shareToken := e.Request.PathValue("shareToken")
	if shareToken == "" {
		return apis.NewBadRequestError("Missing share token", nil)
	}

	if !h.limiter.Allow(e.Request.Context(), fmt.Sprintf("respond:%s", e.Auth.Id)) {
		return apis.NewApiError(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
	}

	var sub models.ResponseSubmission
	if err := e.BindBody(&sub); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	event, response, err := h.responses.SubmitResponse(
		e.Request.Context(),
		shareToken,
		e.Auth.Id,
		e.Auth.Email(),
		&sub,
	)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"event":    event,
		"response": response,
	})
}
