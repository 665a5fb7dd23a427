package store

import (
	"database/sql"
	"encoding/json"
	"errors"

	"event-scheduler/internal/status"
	"event-scheduler/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
)

const (
	CollectionEvents    = "events"
	CollectionResponses = "responses"
	CollectionUsers     = "users"
)

// EventStore maps between event records and the domain model. All saves go
// through a revision compare-and-swap inside a store transaction, so a
// concurrent writer surfaces as ErrStaleEvent instead of silently losing.
type EventStore struct {
	app core.App
}

func NewEventStore(app core.App) *EventStore {
	return &EventStore{app: app}
}

// ByShareToken loads an event by its public share token.
func (s *EventStore) ByShareToken(token string) (*models.Event, error) {
	record, err := s.app.FindFirstRecordByFilter(
		CollectionEvents,
		"uuid = {:uuid}",
		dbx.Params{"uuid": token},
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, status.ErrEventNotFound
		}
		return nil, err
	}
	return eventFromRecord(record)
}

// Save persists the event with a compare-and-swap on its revision. The
// stored revision is re-read inside the transaction; a mismatch means the
// event changed since this copy was loaded and nothing is written.
func (s *EventStore) Save(event *models.Event) error {
	return s.app.RunInTransaction(func(txApp core.App) error {
		return saveEventTx(txApp, event)
	})
}

// SaveWithResponse persists the merged event and upserts the participant's
// response record as one atomic unit. A crash can no longer leave the vote
// state and the response record out of step.
func (s *EventStore) SaveWithResponse(event *models.Event, response *models.EventResponse) error {
	return s.app.RunInTransaction(func(txApp core.App) error {
		if err := saveEventTx(txApp, event); err != nil {
			return err
		}
		return upsertResponseTx(txApp, response)
	})
}

func saveEventTx(txApp core.App, event *models.Event) error {
	record, err := txApp.FindRecordById(CollectionEvents, event.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return status.ErrEventNotFound
		}
		return err
	}
	if record.GetInt("revision") != event.Revision {
		return status.ErrStaleEvent
	}

	event.Revision++
	if err := applyEvent(record, event); err != nil {
		return err
	}
	return txApp.Save(record)
}

func eventFromRecord(record *core.Record) (*models.Event, error) {
	event := &models.Event{
		ID:           record.Id,
		UUID:         record.GetString("uuid"),
		Name:         record.GetString("name"),
		Description:  record.GetString("description"),
		Status:       record.GetString("status"),
		OrganizerID:  record.GetString("organizer"),
		CustomFields: models.NewFieldMap(),
		Revision:     record.GetInt("revision"),
	}

	if err := unmarshalField(record, "date_config", &event.DateConfig); err != nil {
		return nil, err
	}
	if err := unmarshalField(record, "place_config", &event.PlaceConfig); err != nil {
		return nil, err
	}
	if err := unmarshalField(record, "custom_fields", &event.CustomFields); err != nil {
		return nil, err
	}
	if err := unmarshalField(record, "voting_categories", &event.VotingCategories); err != nil {
		return nil, err
	}

	if raw := record.GetString("finalized"); raw != "" && raw != "null" {
		event.Finalized = &models.FinalizedEvent{}
		if err := json.Unmarshal([]byte(raw), event.Finalized); err != nil {
			return nil, err
		}
	}
	return event, nil
}

func applyEvent(record *core.Record, event *models.Event) error {
	record.Set("uuid", event.UUID)
	record.Set("name", event.Name)
	record.Set("description", event.Description)
	record.Set("status", event.Status)
	record.Set("organizer", event.OrganizerID)
	record.Set("revision", event.Revision)

	if err := setJSONField(record, "date_config", event.DateConfig); err != nil {
		return err
	}
	if err := setJSONField(record, "place_config", event.PlaceConfig); err != nil {
		return err
	}
	if err := setJSONField(record, "custom_fields", event.CustomFields); err != nil {
		return err
	}
	if err := setJSONField(record, "voting_categories", event.VotingCategories); err != nil {
		return err
	}

	if event.Finalized != nil {
		if err := setJSONField(record, "finalized", event.Finalized); err != nil {
			return err
		}
	} else {
		record.Set("finalized", nil)
	}
	return nil
}

func unmarshalField(record *core.Record, key string, dst any) error {
	raw := record.GetString(key)
	if raw == "" || raw == "null" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}

func setJSONField(record *core.Record, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	record.Set(key, types.JSONRaw(raw))
	return nil
}
