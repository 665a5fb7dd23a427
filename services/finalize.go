package services

import (
	"fmt"
	"time"

	"event-scheduler/models"
)

// FinalizeResult is the structured outcome of a finalize attempt. Business
// rule violations are reported here, not as errors, so the handler can relay
// a precise user-facing reason.
type FinalizeResult struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func failure(format string, args ...any) FinalizeResult {
	return FinalizeResult{Success: false, Message: fmt.Sprintf(format, args...)}
}

// Finalize validates the organizer's selections against the event's actual
// voting options and required-field rules and, on success, locks the event:
// the immutable snapshot is attached and the status flips to finalized.
// The transition is one-way; no code path reverts it. Callers must ensure
// the event is not already finalized before invoking this.
func Finalize(event *models.Event, sel *models.FinalizeSelections, organizerID string, now time.Time) FinalizeResult {
	result := ValidateSelections(event, sel)
	if !result.Success {
		return result
	}

	event.Finalized = buildSnapshot(event, sel, organizerID, now)
	event.Status = models.StatusFinalized
	return result
}

// ValidateSelections runs the validation sequence, short-circuiting on the
// first violation. A secondary pass collects non-blocking warnings for
// optional fields left empty.
func ValidateSelections(event *models.Event, sel *models.FinalizeSelections) FinalizeResult {
	// 1+2: a category with options demands a pick, and a supplied pick must
	// be one of the current options.
	if res := validateOptionListPick(event, models.CategoryDate, sel.Date); !res.Success {
		return res
	}
	if res := validateOptionListPick(event, models.CategoryPlace, sel.Place); !res.Success {
		return res
	}

	// 3-5: per-field rules, in definition order.
	for _, fieldID := range event.CustomFields.IDs() {
		field, _ := event.CustomFields.Get(fieldID)
		value, supplied := sel.CustomFields[fieldID]

		if field.Required && (!supplied || models.IsEmptyValue(value)) {
			return failure("a selection for %q is required", field.Title)
		}
		if !supplied || models.IsEmptyValue(value) {
			continue
		}

		switch field.Type {
		case models.FieldRadio, models.FieldCheckbox:
			if res := validateChoicePick(event, field, value); !res.Success {
				return res
			}
		case models.FieldList:
			if res := validateListPick(field, value); !res.Success {
				return res
			}
		}
	}

	result := FinalizeResult{Success: true}

	// 6: warn, never reject, on optional gaps.
	for _, fieldID := range event.CustomFields.IDs() {
		field, _ := event.CustomFields.Get(fieldID)
		if field.Required {
			continue
		}
		if value, supplied := sel.CustomFields[fieldID]; !supplied || models.IsEmptyValue(value) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("optional field %q was left empty", field.Title))
		}
	}
	return result
}

func validateOptionListPick(event *models.Event, categoryName string, pick *string) FinalizeResult {
	idx := event.Category(categoryName)
	hasOptions := idx >= 0 && len(event.VotingCategories[idx].Options) > 0

	if pick == nil || *pick == "" {
		if hasOptions {
			return failure("a %s selection is required", categoryName)
		}
		return FinalizeResult{Success: true}
	}
	if !hasOptions || !event.VotingCategories[idx].HasOption(*pick) {
		return failure("%s %q is not available", categoryName, *pick)
	}
	return FinalizeResult{Success: true}
}

// validateChoicePick checks radio/checkbox selections against the option
// names of the voting category matching the field's title.
func validateChoicePick(event *models.Event, field *models.CustomField, value any) FinalizeResult {
	picks, ok := models.StringSliceValue(value)
	if !ok {
		return failure("invalid selection for %q", field.Title)
	}

	idx := event.Category(field.Title)
	for _, pick := range picks {
		if idx < 0 || !event.VotingCategories[idx].HasOption(pick) {
			return failure("option %q is not available for %q", pick, field.Title)
		}
	}
	return FinalizeResult{Success: true}
}

func validateListPick(field *models.CustomField, value any) FinalizeResult {
	picks, ok := models.StringSliceValue(value)
	if !ok {
		return failure("invalid selection for %q", field.Title)
	}

	known := make(map[string]bool)
	for _, v := range field.ListValues() {
		known[v] = true
	}
	for _, pick := range picks {
		if !known[pick] {
			return failure("entry %q is not available for %q", pick, field.Title)
		}
	}
	return FinalizeResult{Success: true}
}

// buildSnapshot copies the chosen values verbatim and snapshots each field's
// title so later definition edits cannot retroactively alter history.
func buildSnapshot(event *models.Event, sel *models.FinalizeSelections, organizerID string, now time.Time) *models.FinalizedEvent {
	snapshot := &models.FinalizedEvent{
		FieldSelections: []models.FinalizedField{},
		FinalizedAt:     now.UTC(),
		FinalizedBy:     organizerID,
	}
	if sel.Date != nil {
		snapshot.Date = *sel.Date
	}
	if sel.Place != nil {
		snapshot.Place = *sel.Place
	}

	for _, fieldID := range event.CustomFields.IDs() {
		field, _ := event.CustomFields.Get(fieldID)
		value, supplied := sel.CustomFields[fieldID]
		if !supplied || models.IsEmptyValue(value) {
			continue
		}
		snapshot.FieldSelections = append(snapshot.FieldSelections, models.FinalizedField{
			FieldID: fieldID,
			Title:   field.Title,
			Value:   value,
		})
	}
	return snapshot
}
