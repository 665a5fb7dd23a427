package services

import (
	"testing"
	"time"

	"event-scheduler/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func finalizableEvent() *models.Event {
	fields := models.NewFieldMap()
	fields.Set("budget", &models.CustomField{
		Type:     models.FieldText,
		Title:    "Budget",
		Required: true,
	})
	fields.Set("gear", &models.CustomField{
		Type:  models.FieldList,
		Title: "Gear",
		List:  &models.ListFieldOptions{Values: []string{"Tent", "Stove"}},
	})
	fields.Set("snacks", &models.CustomField{
		Type:  models.FieldCheckbox,
		Title: "Snacks",
		Check: &models.ChoiceFieldOptions{},
	})

	return &models.Event{
		ID:           "evt1",
		UUID:         "share-token-1",
		Name:         "Team offsite",
		Status:       models.StatusOpen,
		OrganizerID:  "org1",
		CustomFields: fields,
		VotingCategories: []models.VotingCategory{
			{
				CategoryName: models.CategoryDate,
				Options:      []models.VotingOption{{OptionName: dateA}, {OptionName: dateB}},
			},
			{
				CategoryName: models.CategoryPlace,
				Options:      []models.VotingOption{{OptionName: "Office"}},
			},
			{
				CategoryName: "Snacks",
				Options:      []models.VotingOption{{OptionName: "Chips"}, {OptionName: "Cola"}},
			},
		},
	}
}

func validSelections() *models.FinalizeSelections {
	return &models.FinalizeSelections{
		Date:  strptr(dateA),
		Place: strptr("Office"),
		CustomFields: map[string]any{
			"budget": "500 EUR",
			"gear":   []any{"Tent"},
			"snacks": []any{"Chips"},
		},
	}
}

func TestValidateSelections_DateRequiredWhenOptionsExist(t *testing.T) {
	sel := validSelections()
	sel.Date = nil

	result := ValidateSelections(finalizableEvent(), sel)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "date")
	assert.Contains(t, result.Message, "required")
}

func TestValidateSelections_NoDateNeededWithoutOptions(t *testing.T) {
	event := finalizableEvent()
	idx := event.Category(models.CategoryDate)
	event.VotingCategories[idx].Options = nil
	sel := validSelections()
	sel.Date = nil

	result := ValidateSelections(event, sel)

	assert.True(t, result.Success)
}

func TestValidateSelections_UnknownDateRejected(t *testing.T) {
	sel := validSelections()
	sel.Date = strptr("2030-06-06T10:00:00Z")

	result := ValidateSelections(finalizableEvent(), sel)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "not available")
}

func TestValidateSelections_UnknownPlaceRejected(t *testing.T) {
	sel := validSelections()
	sel.Place = strptr("Moon")

	result := ValidateSelections(finalizableEvent(), sel)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "not available")
}

func TestValidateSelections_RequiredFieldMustBePicked(t *testing.T) {
	for name, value := range map[string]any{
		"missing":     nil,
		"empty":       "",
		"empty array": []any{},
	} {
		t.Run(name, func(t *testing.T) {
			sel := validSelections()
			if name == "missing" {
				delete(sel.CustomFields, "budget")
			} else {
				sel.CustomFields["budget"] = value
			}

			result := ValidateSelections(finalizableEvent(), sel)

			assert.False(t, result.Success)
			assert.Contains(t, result.Message, "Budget")
		})
	}
}

func TestValidateSelections_ChoiceMustBeSubsetOfCategory(t *testing.T) {
	sel := validSelections()
	sel.CustomFields["snacks"] = []any{"Chips", "Sushi"}

	result := ValidateSelections(finalizableEvent(), sel)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Sushi")
	assert.Contains(t, result.Message, "Snacks")
}

func TestValidateSelections_ListEntriesMustBeKnown(t *testing.T) {
	sel := validSelections()
	sel.CustomFields["gear"] = []any{"Tent", "Kayak"}

	result := ValidateSelections(finalizableEvent(), sel)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Kayak")
}

func TestValidateSelections_OptionalGapsWarnOnly(t *testing.T) {
	sel := validSelections()
	delete(sel.CustomFields, "snacks")

	result := ValidateSelections(finalizableEvent(), sel)

	require.True(t, result.Success)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Snacks")
}

func TestFinalize_Success(t *testing.T) {
	event := finalizableEvent()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	result := Finalize(event, validSelections(), "org1", now)

	require.True(t, result.Success)
	assert.Equal(t, models.StatusFinalized, event.Status)

	snap := event.Finalized
	require.NotNil(t, snap)
	assert.Equal(t, dateA, snap.Date)
	assert.Equal(t, "Office", snap.Place)
	assert.Equal(t, now, snap.FinalizedAt)
	assert.Equal(t, "org1", snap.FinalizedBy)

	require.Len(t, snap.FieldSelections, 3)
	assert.Equal(t, "budget", snap.FieldSelections[0].FieldID)
	assert.Equal(t, "Budget", snap.FieldSelections[0].Title)
	assert.Equal(t, "500 EUR", snap.FieldSelections[0].Value)
	assert.Equal(t, "gear", snap.FieldSelections[1].FieldID)
	assert.Equal(t, []any{"Tent"}, snap.FieldSelections[1].Value)
	assert.Equal(t, "snacks", snap.FieldSelections[2].FieldID)
	assert.Equal(t, []any{"Chips"}, snap.FieldSelections[2].Value)
}

func TestFinalize_RejectionLeavesEventUntouched(t *testing.T) {
	event := finalizableEvent()
	sel := validSelections()
	sel.Date = nil

	result := Finalize(event, sel, "org1", time.Now())

	assert.False(t, result.Success)
	assert.Equal(t, models.StatusOpen, event.Status)
	assert.Nil(t, event.Finalized)
}

func TestFinalize_TitleSnapshotSurvivesFieldEdits(t *testing.T) {
	event := finalizableEvent()

	result := Finalize(event, validSelections(), "org1", time.Now())
	require.True(t, result.Success)

	field, _ := event.CustomFields.Get("budget")
	field.Title = "Renamed later"

	assert.Equal(t, "Budget", event.Finalized.FieldSelections[0].Title)
}
