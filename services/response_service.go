package services

import (
	"context"
	"database/sql"
	"errors"

	"event-scheduler/config"
	"event-scheduler/internal/status"
	"event-scheduler/models"
	"event-scheduler/monitoring"
	"event-scheduler/store"

	"github.com/pocketbase/pocketbase/core"
)

// ResponseService orchestrates response submissions: precondition checks,
// the merge itself, and the atomic persistence of event + response.
type ResponseService struct {
	app    core.App
	events *store.EventStore
	cfg    *config.Config
}

func NewResponseService(app core.App, events *store.EventStore, cfg *config.Config) *ResponseService {
	return &ResponseService{
		app:    app,
		events: events,
		cfg:    cfg,
	}
}

// SubmitResponse merges the submission into the event and upserts the
// participant's response record. Two concurrent submitters can both load the
// same event snapshot; the compare-and-swap save detects the loser, which
// re-derives its merge against the latest state. After the configured number
// of attempts the conflict is surfaced as ErrStaleEvent.
func (s *ResponseService) SubmitResponse(ctx context.Context, shareToken, userID, userEmail string, sub *models.ResponseSubmission) (*models.Event, *models.EventResponse, error) {
	if _, err := s.app.FindRecordById(store.CollectionUsers, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, status.ErrUserNotFound
		}
		return nil, nil, err
	}

	attempts := s.cfg.MaxMergeRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		event, err := s.events.ByShareToken(shareToken)
		if err != nil {
			return nil, nil, err
		}
		switch event.Status {
		case models.StatusClosed:
			return nil, nil, status.ErrEventClosed
		case models.StatusFinalized:
			return nil, nil, status.ErrEventFinalized
		}

		response := MergeResponse(event, userID, userEmail, sub)

		err = s.events.SaveWithResponse(event, response)
		if err == nil {
			monitoring.TrackResponseMerged(event.UUID)
			return event, response, nil
		}
		if !errors.Is(err, status.ErrStaleEvent) {
			return nil, nil, err
		}

		monitoring.TrackMergeConflict(event.UUID)
		s.app.Logger().Warn("response merge lost the save race, retrying",
			"event", event.UUID,
			"user", userID,
			"attempt", attempt+1,
		)
		lastErr = err
	}
	return nil, nil, lastErr
}
