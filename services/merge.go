package services

import (
	"time"

	"event-scheduler/models"
)

// MergeResponse reconciles one participant's submission into the event's
// shared voting state and builds the participant's response record. The
// event is mutated in place; nothing is persisted here. The caller owns the
// status precondition (only open events accept submissions) so the merge
// stays a pure state transition.
//
// Every category is handled with the same remove-then-add pattern: the user
// is retracted from every option's vote set before the new selection is
// applied. That single mechanism makes resubmission idempotent and changing
// one's mind a pure replace, never an accumulate.
func MergeResponse(event *models.Event, userID, userEmail string, sub *models.ResponseSubmission) *models.EventResponse {
	mergeOptionList(event, models.CategoryDate, sub.SelectedDates, sub.SuggestedDates, event.DateConfig.AllowUserAdd, userID)
	mergeOptionList(event, models.CategoryPlace, sub.SelectedPlaces, sub.SuggestedPlaces, event.PlaceConfig.AllowUserAdd, userID)

	for _, mirror := range sub.VotingCategories {
		if mirror.CategoryName == models.CategoryDate || mirror.CategoryName == models.CategoryPlace {
			continue
		}
		mergeMirrorCategory(event, mirror, userID)
	}

	return &models.EventResponse{
		EventID:        event.ID,
		UserID:         userID,
		UserEmail:      userEmail,
		FieldResponses: fieldResponses(event, sub.CustomFields),
		SubmittedAt:    time.Now().UTC(),
	}
}

// mergeOptionList applies a date/place submission to the named category.
// Caps (maxVotes, maxOptions) are a pre-validated input contract and are not
// re-checked here.
func mergeOptionList(event *models.Event, name string, selected, suggested []string, allowUserAdd bool, userID string) {
	idx := event.Category(name)
	if idx < 0 {
		// An event without this category acquires it only when the
		// submission actually carries values for it.
		if len(selected) == 0 && len(suggested) == 0 {
			return
		}
		idx = event.EnsureCategory(name)
	}
	cat := &event.VotingCategories[idx]

	cat.RetractVotes(userID)
	for _, optionName := range selected {
		if opt := cat.Option(optionName); opt != nil {
			opt.AddVote(userID)
		}
	}

	if !allowUserAdd {
		return
	}

	selectedSet := make(map[string]bool, len(selected))
	for _, optionName := range selected {
		selectedSet[optionName] = true
	}
	for _, suggestion := range suggested {
		if cat.HasOption(suggestion) {
			continue
		}
		opt := models.VotingOption{OptionName: suggestion, AddedBy: userID}
		if selectedSet[suggestion] {
			opt.Votes = []string{userID}
		}
		cat.Options = append(cat.Options, opt)
	}
}

// mergeMirrorCategory applies a submitted mirror of a radio/checkbox-backed
// category: unknown options are adopted with addedBy attribution, then the
// user's votes are replaced by the mirror's voted markers.
func mergeMirrorCategory(event *models.Event, mirror models.SubmittedCategory, userID string) {
	idx := event.EnsureCategory(mirror.CategoryName)
	cat := &event.VotingCategories[idx]

	for _, submitted := range mirror.Options {
		if !cat.HasOption(submitted.OptionName) {
			cat.Options = append(cat.Options, models.VotingOption{
				OptionName: submitted.OptionName,
				AddedBy:    userID,
			})
		}
	}

	cat.RetractVotes(userID)
	for _, submitted := range mirror.Options {
		if submitted.Voted {
			cat.Option(submitted.OptionName).AddVote(userID)
		}
	}
}

// fieldResponses derives the persisted non-voting answers by
// cross-referencing submitted values against the event's field definitions.
// Only text and list kinds are kept: an answered text field is kept as-is,
// a list answer only when non-empty. The result is ordered by the event's
// field-definition order. It replaces the user's prior answers wholesale.
func fieldResponses(event *models.Event, answers map[string]any) []models.FieldResponse {
	out := []models.FieldResponse{}
	for _, fieldID := range event.CustomFields.IDs() {
		value, answered := answers[fieldID]
		if !answered {
			continue
		}
		field, _ := event.CustomFields.Get(fieldID)

		switch field.Type {
		case models.FieldText:
			if text, ok := models.StringValue(value); ok {
				out = append(out, models.FieldResponse{
					FieldID:  fieldID,
					Type:     models.FieldText,
					Response: text,
				})
			}
		case models.FieldList:
			entries, ok := models.StringSliceValue(value)
			if ok && len(entries) > 0 {
				out = append(out, models.FieldResponse{
					FieldID:  fieldID,
					Type:     models.FieldList,
					Response: entries,
				})
			}
		}
	}
	return out
}
