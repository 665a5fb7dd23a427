package handlers

import (
	"errors"
	"net/http"

	"event-scheduler/internal/status"

	"github.com/pocketbase/pocketbase/apis"
)

// apiError maps the service sentinels onto HTTP errors. Not-found and
// permission failures stay generic; conflict-style failures carry the
// sentinel's message so clients can react (e.g. retry on stale state).
func apiError(err error) error {
	switch {
	case errors.Is(err, status.ErrEventNotFound),
		errors.Is(err, status.ErrUserNotFound),
		errors.Is(err, status.ErrResponseNotFound),
		errors.Is(err, status.ErrOptionNotFound):
		return apis.NewNotFoundError("Not found", err)

	case errors.Is(err, status.ErrNotOrganizer):
		return apis.NewForbiddenError("Access denied", err)

	case errors.Is(err, status.ErrEventClosed):
		return apis.NewApiError(http.StatusConflict, "Event is closed for responses", nil)

	case errors.Is(err, status.ErrEventFinalized):
		return apis.NewApiError(http.StatusConflict, "Event is already finalized", nil)

	case errors.Is(err, status.ErrStaleEvent):
		return apis.NewApiError(http.StatusConflict, "Event changed concurrently, please retry", nil)

	case errors.Is(err, status.ErrLastOption):
		return apis.NewBadRequestError("The last remaining option cannot be deleted", nil)
	}
	return apis.NewInternalServerError("Something went wrong", err)
}
