package services

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"event-scheduler/internal/status"
	"event-scheduler/mailer"
	"event-scheduler/models"
	"event-scheduler/monitoring"
	"event-scheduler/store"

	"github.com/pocketbase/pocketbase/core"
	pbmailer "github.com/pocketbase/pocketbase/tools/mailer"
)

// EventService owns the organizer-side operations: lifecycle toggles,
// finalization, option removal and the responses overview.
type EventService struct {
	app       core.App
	events    *store.EventStore
	responses *store.ResponseStore
	mail      *mailer.Queue
}

func NewEventService(app core.App, events *store.EventStore, responses *store.ResponseStore, mail *mailer.Queue) *EventService {
	return &EventService{
		app:       app,
		events:    events,
		responses: responses,
		mail:      mail,
	}
}

// ByShareToken loads an event for the public read endpoint.
func (s *EventService) ByShareToken(ctx context.Context, shareToken string) (*models.Event, error) {
	return s.events.ByShareToken(shareToken)
}

// ListResponses returns the event plus every response record, with voter
// emails populated, for the organizer view.
func (s *EventService) ListResponses(ctx context.Context, shareToken, organizerID string) (*models.Event, []*models.EventResponse, error) {
	event, err := s.events.ByShareToken(shareToken)
	if err != nil {
		return nil, nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, nil, status.ErrNotOrganizer
	}

	responses, err := s.responses.ByEvent(event.ID)
	if err != nil {
		return nil, nil, err
	}
	return event, responses, nil
}

// SetOpenState toggles an event between open and closed. Finalized events
// reject both directions; finalization is terminal.
func (s *EventService) SetOpenState(ctx context.Context, shareToken, organizerID string, open bool) (*models.Event, error) {
	event, err := s.events.ByShareToken(shareToken)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, status.ErrNotOrganizer
	}
	if event.IsFinalized() {
		return nil, status.ErrEventFinalized
	}

	if open {
		event.Status = models.StatusOpen
	} else {
		event.Status = models.StatusClosed
	}
	if err := s.events.Save(event); err != nil {
		return nil, err
	}
	return event, nil
}

// FinalizeEvent runs the finalization engine and persists the locked event.
// The save is compare-and-swap guarded but deliberately not retried: a
// concurrent mutation invalidates the state the organizer based their
// selections on, so the conflict surfaces immediately instead.
func (s *EventService) FinalizeEvent(ctx context.Context, shareToken, organizerID string, sel *models.FinalizeSelections) (*models.Event, FinalizeResult, error) {
	event, err := s.events.ByShareToken(shareToken)
	if err != nil {
		return nil, FinalizeResult{}, err
	}
	if event.OrganizerID != organizerID {
		return nil, FinalizeResult{}, status.ErrNotOrganizer
	}
	if event.IsFinalized() {
		return nil, FinalizeResult{}, status.ErrEventFinalized
	}

	result := Finalize(event, sel, organizerID, time.Now())
	if !result.Success {
		monitoring.TrackFinalize("rejected")
		return event, result, nil
	}

	if err := s.events.Save(event); err != nil {
		monitoring.TrackFinalize("conflict")
		return nil, FinalizeResult{}, err
	}
	monitoring.TrackFinalize("finalized")

	s.notifyFinalized(event)
	return event, result, nil
}

// RemoveCategoryOption deletes a single option from a voting category. The
// last remaining option of a category cannot be deleted, so a category that
// exists never silently disappears.
func (s *EventService) RemoveCategoryOption(ctx context.Context, shareToken, organizerID, categoryName, optionName string) (*models.Event, error) {
	event, err := s.events.ByShareToken(shareToken)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, status.ErrNotOrganizer
	}
	if event.IsFinalized() {
		return nil, status.ErrEventFinalized
	}

	idx := event.Category(categoryName)
	if idx < 0 {
		return nil, status.ErrOptionNotFound
	}
	cat := &event.VotingCategories[idx]
	if !cat.HasOption(optionName) {
		return nil, status.ErrOptionNotFound
	}
	if len(cat.Options) <= 1 {
		return nil, status.ErrLastOption
	}

	kept := cat.Options[:0]
	for _, opt := range cat.Options {
		if opt.OptionName != optionName {
			kept = append(kept, opt)
		}
	}
	cat.Options = kept

	if err := s.events.Save(event); err != nil {
		return nil, err
	}
	return event, nil
}

// RemoveListValue deletes a single known value from a list field, with the
// same last-value rule as category options.
func (s *EventService) RemoveListValue(ctx context.Context, shareToken, organizerID, fieldID, value string) (*models.Event, error) {
	event, err := s.events.ByShareToken(shareToken)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, status.ErrNotOrganizer
	}
	if event.IsFinalized() {
		return nil, status.ErrEventFinalized
	}

	field, ok := event.CustomFields.Get(fieldID)
	if !ok || field.Type != models.FieldList || field.List == nil {
		return nil, status.ErrOptionNotFound
	}

	values := field.List.Values
	found := -1
	for i, v := range values {
		if v == value {
			found = i
			break
		}
	}
	if found < 0 {
		return nil, status.ErrOptionNotFound
	}
	if len(values) <= 1 {
		return nil, status.ErrLastOption
	}
	field.List.Values = append(values[:found], values[found+1:]...)

	if err := s.events.Save(event); err != nil {
		return nil, err
	}
	return event, nil
}

// notifyFinalized queues one summary mail per distinct respondent. Mail is
// best-effort; a full queue drops and logs.
func (s *EventService) notifyFinalized(event *models.Event) {
	if s.mail == nil {
		return
	}

	responses, err := s.responses.ByEvent(event.ID)
	if err != nil {
		s.app.Logger().Error("finalize notice: listing respondents failed",
			"event", event.UUID,
			"error", err,
		)
		return
	}

	meta := s.app.Settings().Meta
	seen := map[string]bool{}
	for _, response := range responses {
		if response.UserEmail == "" || seen[response.UserEmail] {
			continue
		}
		seen[response.UserEmail] = true

		s.mail.Enqueue(&pbmailer.Message{
			From:    mail.Address{Name: meta.SenderName, Address: meta.SenderAddress},
			To:      []mail.Address{{Address: response.UserEmail}},
			Subject: fmt.Sprintf("%s has been finalized", event.Name),
			Text:    finalizedNoticeBody(event),
		})
	}
}

func finalizedNoticeBody(event *models.Event) string {
	body := fmt.Sprintf("The event %q has been finalized.\n", event.Name)
	if event.Finalized == nil {
		return body
	}
	if event.Finalized.Date != "" {
		body += fmt.Sprintf("Date: %s\n", event.Finalized.Date)
	}
	if event.Finalized.Place != "" {
		body += fmt.Sprintf("Place: %s\n", event.Finalized.Place)
	}
	for _, selection := range event.Finalized.FieldSelections {
		body += fmt.Sprintf("%s: %v\n", selection.Title, selection.Value)
	}
	return body
}
