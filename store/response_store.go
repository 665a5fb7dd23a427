package store

import (
	"database/sql"
	"errors"

	"event-scheduler/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

// ResponseStore reads response records. Writes happen exclusively through
// the upsert invoked by EventStore.SaveWithResponse so that the "responses"
// collection's (event, user) unique index stays the single write path's
// backstop.
type ResponseStore struct {
	app core.App
}

func NewResponseStore(app core.App) *ResponseStore {
	return &ResponseStore{app: app}
}

// ByEvent returns all responses for an event, ordered by submission time,
// with each voter's email populated for the organizer view.
func (s *ResponseStore) ByEvent(eventID string) ([]*models.EventResponse, error) {
	records, err := s.app.FindRecordsByFilter(
		CollectionResponses,
		"event = {:event}",
		"created",
		-1,
		0,
		dbx.Params{"event": eventID},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.EventResponse, 0, len(records))
	for _, record := range records {
		response, err := s.responseFromRecord(record)
		if err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, nil
}

func (s *ResponseStore) responseFromRecord(record *core.Record) (*models.EventResponse, error) {
	response := &models.EventResponse{
		ID:          record.Id,
		EventID:     record.GetString("event"),
		UserID:      record.GetString("user"),
		SubmittedAt: record.GetDateTime("updated").Time(),
	}
	if err := unmarshalField(record, "field_responses", &response.FieldResponses); err != nil {
		return nil, err
	}

	if errs := s.app.ExpandRecord(record, []string{"user"}, nil); len(errs) == 0 {
		if user := record.ExpandedOne("user"); user != nil {
			response.UserEmail = user.GetString("email")
		}
	}
	return response, nil
}

// upsertResponseTx creates or updates the single response record for the
// (event, user) pair, replacing the prior field answers wholesale.
func upsertResponseTx(txApp core.App, response *models.EventResponse) error {
	record, err := txApp.FindFirstRecordByFilter(
		CollectionResponses,
		"event = {:event} && user = {:user}",
		dbx.Params{"event": response.EventID, "user": response.UserID},
	)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		collection, err := txApp.FindCollectionByNameOrId(CollectionResponses)
		if err != nil {
			return err
		}
		record = core.NewRecord(collection)
		record.Set("event", response.EventID)
		record.Set("user", response.UserID)
	}

	if err := setJSONField(record, "field_responses", response.FieldResponses); err != nil {
		return err
	}
	if err := txApp.Save(record); err != nil {
		return err
	}

	response.ID = record.Id
	response.SubmittedAt = record.GetDateTime("updated").Time()
	return nil
}
