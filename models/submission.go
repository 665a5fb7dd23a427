package models

// ResponseSubmission is the pre-validated body a participant's client sends
// when submitting or replacing a response.
type ResponseSubmission struct {
	SelectedDates   []string `json:"selectedDates"`
	SelectedPlaces  []string `json:"selectedPlaces"`
	SuggestedDates  []string `json:"suggestedDates"`
	SuggestedPlaces []string `json:"suggestedPlaces"`

	// CustomFields holds the participant's answer per field id. Values are
	// strings (text) or string arrays (list); answers for radio/checkbox
	// fields arrive through VotingCategories instead.
	CustomFields map[string]any `json:"customFields"`

	// VotingCategories mirrors the event's non-date/place categories as the
	// client sees them, including any options the participant added and a
	// voted marker per option.
	VotingCategories []SubmittedCategory `json:"votingCategories"`
}

type SubmittedCategory struct {
	CategoryName string            `json:"categoryName"`
	Options      []SubmittedOption `json:"options"`
}

type SubmittedOption struct {
	OptionName string `json:"optionName"`
	Voted      bool   `json:"voted"`
}

// FinalizeSelections is the organizer's pick of one outcome: a winning date
// and place (nil when the event has no options for that category) and one
// value per custom field (string or string array).
type FinalizeSelections struct {
	Date         *string        `json:"date"`
	Place        *string        `json:"place"`
	CustomFields map[string]any `json:"customFields"`
}

// StringValue extracts a plain string from a decoded JSON value.
func StringValue(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// StringSliceValue extracts a string slice from a decoded JSON value, which
// arrives as []any from encoding/json. A bare string is treated as a
// one-element slice.
func StringSliceValue(v any) ([]string, bool) {
	switch val := v.(type) {
	case []string:
		return val, true
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	case string:
		return []string{val}, true
	}
	return nil, false
}

// IsEmptyValue reports whether a submitted value counts as absent: nil,
// empty string, or an array with no elements.
func IsEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []string:
		return len(val) == 0
	case []any:
		return len(val) == 0
	}
	return false
}
