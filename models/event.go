package models

import (
	"time"
)

// Event status values. An event starts open, can be toggled between open and
// closed by its organizer, and ends finalized. Finalized is terminal.
const (
	StatusOpen      = "open"
	StatusClosed    = "closed"
	StatusFinalized = "finalized"
)

// Category names that are backed by the date/place option lists instead of a
// custom field.
const (
	CategoryDate  = "date"
	CategoryPlace = "place"
)

type Event struct {
	ID          string `json:"id"`
	UUID        string `json:"uuid"` // public share token
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	OrganizerID string `json:"organizer"`

	// DateConfig/PlaceConfig carry the caps and flags for the "date" and
	// "place" categories. The option strings themselves live only in
	// VotingCategories, which is the single source of truth.
	DateConfig  OptionListConfig `json:"dateConfig"`
	PlaceConfig OptionListConfig `json:"placeConfig"`

	CustomFields     FieldMap         `json:"customFields"`
	VotingCategories []VotingCategory `json:"votingCategories"`

	// Finalized is set exactly once, by the finalization engine.
	Finalized *FinalizedEvent `json:"finalized,omitempty"`

	// Revision is bumped on every save and backs the compare-and-swap in the
	// event store.
	Revision int `json:"revision"`
}

// OptionListConfig configures one option-list category. MaxOptions caps how
// many options the organizer pre-seeded (0 = unlimited), MaxVotes caps how
// many options a single participant may select, AllowUserAdd permits
// participants to contribute new candidates.
type OptionListConfig struct {
	MaxOptions   int  `json:"maxOptions"`
	MaxVotes     int  `json:"maxVotes"`
	AllowUserAdd bool `json:"allowUserAdd"`
}

type VotingCategory struct {
	CategoryName string         `json:"categoryName"`
	Options      []VotingOption `json:"options"`
}

// VotingOption is one candidate value within a category. Votes is a set: a
// user id appears at most once. AddedBy is empty for organizer-seeded
// options.
type VotingOption struct {
	OptionName string   `json:"optionName"`
	Votes      []string `json:"votes"`
	AddedBy    string   `json:"addedBy,omitempty"`
}

type FinalizedEvent struct {
	Date            string           `json:"date,omitempty"`
	Place           string           `json:"place,omitempty"`
	FieldSelections []FinalizedField `json:"fieldSelections"`
	FinalizedAt     time.Time        `json:"finalizedAt"`
	FinalizedBy     string           `json:"finalizedBy"`
}

// FinalizedField snapshots one custom-field selection. Title is copied from
// the field definition at finalize time so later edits cannot rewrite
// history.
type FinalizedField struct {
	FieldID string `json:"fieldId"`
	Title   string `json:"title"`
	Value   any    `json:"value"`
}

func (e *Event) IsFinalized() bool {
	return e.Status == StatusFinalized
}

// Category returns the index of the named category, or -1. Callers index
// into VotingCategories directly so appends elsewhere cannot invalidate a
// held pointer.
func (e *Event) Category(name string) int {
	for i := range e.VotingCategories {
		if e.VotingCategories[i].CategoryName == name {
			return i
		}
	}
	return -1
}

// EnsureCategory returns the index of the named category, creating an empty
// one at the end of the list if it does not exist yet.
func (e *Event) EnsureCategory(name string) int {
	if i := e.Category(name); i >= 0 {
		return i
	}
	e.VotingCategories = append(e.VotingCategories, VotingCategory{CategoryName: name})
	return len(e.VotingCategories) - 1
}

func (c *VotingCategory) Option(name string) *VotingOption {
	for i := range c.Options {
		if c.Options[i].OptionName == name {
			return &c.Options[i]
		}
	}
	return nil
}

func (c *VotingCategory) HasOption(name string) bool {
	return c.Option(name) != nil
}

// RetractVotes removes userID from every option's vote set in the category.
func (c *VotingCategory) RetractVotes(userID string) {
	for i := range c.Options {
		c.Options[i].RemoveVote(userID)
	}
}

func (o *VotingOption) IsOriginal() bool {
	return o.AddedBy == ""
}

func (o *VotingOption) HasVote(userID string) bool {
	for _, id := range o.Votes {
		if id == userID {
			return true
		}
	}
	return false
}

// AddVote records userID in the option's vote set. Adding an existing voter
// is a no-op.
func (o *VotingOption) AddVote(userID string) {
	if o.HasVote(userID) {
		return
	}
	o.Votes = append(o.Votes, userID)
}

func (o *VotingOption) RemoveVote(userID string) {
	for i, id := range o.Votes {
		if id == userID {
			o.Votes = append(o.Votes[:i], o.Votes[i+1:]...)
			return
		}
	}
}
