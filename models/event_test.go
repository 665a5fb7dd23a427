package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVotingOption_VoteSetSemantics(t *testing.T) {
	opt := VotingOption{OptionName: "A"}

	opt.AddVote("u1")
	opt.AddVote("u2")
	opt.AddVote("u1") // set semantics, no duplicate
	assert.Equal(t, []string{"u1", "u2"}, opt.Votes)
	assert.True(t, opt.HasVote("u1"))

	opt.RemoveVote("u1")
	assert.Equal(t, []string{"u2"}, opt.Votes)
	assert.False(t, opt.HasVote("u1"))

	opt.RemoveVote("ghost") // no-op
	assert.Equal(t, []string{"u2"}, opt.Votes)
}

func TestVotingOption_IsOriginal(t *testing.T) {
	assert.True(t, (&VotingOption{OptionName: "A"}).IsOriginal())
	assert.False(t, (&VotingOption{OptionName: "B", AddedBy: "u1"}).IsOriginal())
}

func TestVotingCategory_RetractVotes(t *testing.T) {
	cat := VotingCategory{
		CategoryName: "date",
		Options: []VotingOption{
			{OptionName: "A", Votes: []string{"u1", "u2"}},
			{OptionName: "B", Votes: []string{"u1"}},
		},
	}

	cat.RetractVotes("u1")

	assert.Equal(t, []string{"u2"}, cat.Options[0].Votes)
	assert.Empty(t, cat.Options[1].Votes)
}

func TestEvent_EnsureCategory(t *testing.T) {
	event := &Event{}

	idx := event.EnsureCategory("date")
	require.Equal(t, 0, idx)
	assert.Len(t, event.VotingCategories, 1)

	// Existing category is reused, an empty one still counts as existing.
	again := event.EnsureCategory("date")
	assert.Equal(t, idx, again)
	assert.Len(t, event.VotingCategories, 1)

	assert.Equal(t, -1, event.Category("place"))
}
