package status

import "errors"

var (
	ErrEventNotFound    = errors.New("event: event not found")
	ErrUserNotFound     = errors.New("user: user not found")
	ErrResponseNotFound = errors.New("response: response not found")

	// ErrEventClosed / ErrEventFinalized guard the response write path.
	ErrEventClosed    = errors.New("event: event is closed for responses")
	ErrEventFinalized = errors.New("event: event is finalized")

	// ErrStaleEvent is returned by the compare-and-swap save when the event
	// changed since it was loaded.
	ErrStaleEvent = errors.New("event: stale state, please retry")

	// ErrLastOption rejects deleting the only remaining option of a
	// category or list field.
	ErrLastOption = errors.New("option: the last remaining option cannot be deleted")

	ErrOptionNotFound = errors.New("option: option not found")

	// ErrNotOrganizer rejects organizer-only operations attempted by anyone
	// else.
	ErrNotOrganizer = errors.New("event: only the organizer may perform this action")
)
