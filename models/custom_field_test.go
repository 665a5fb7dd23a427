package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldMap_PreservesInsertionOrder(t *testing.T) {
	m := NewFieldMap()
	m.Set("c", &CustomField{Type: FieldText, Title: "C"})
	m.Set("a", &CustomField{Type: FieldText, Title: "A"})
	m.Set("b", &CustomField{Type: FieldText, Title: "B"})

	assert.Equal(t, []string{"c", "a", "b"}, m.IDs())

	// Replacing keeps the position.
	m.Set("a", &CustomField{Type: FieldList, Title: "A2"})
	assert.Equal(t, []string{"c", "a", "b"}, m.IDs())
	f, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, FieldList, f.Type)
}

func TestFieldMap_JSONRoundTripKeepsOrder(t *testing.T) {
	m := NewFieldMap()
	m.Set("zz", &CustomField{Type: FieldText, Title: "Last first"})
	m.Set("aa", &CustomField{
		Type:  FieldList,
		Title: "Gear",
		List:  &ListFieldOptions{Values: []string{"Tent"}, MaxEntries: 5, AllowUserAdd: true},
	})
	m.Set("mm", &CustomField{
		Type:     FieldCheckbox,
		Title:    "Snacks",
		Required: true,
		Check:    &ChoiceFieldOptions{MaxOptions: 10, AllowUserAddOptions: true},
	})

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded FieldMap
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, []string{"zz", "aa", "mm"}, decoded.IDs())

	gear, ok := decoded.Get("aa")
	require.True(t, ok)
	require.NotNil(t, gear.List)
	assert.Equal(t, []string{"Tent"}, gear.List.Values)
	assert.True(t, gear.List.AllowUserAdd)

	snacks, ok := decoded.Get("mm")
	require.True(t, ok)
	assert.True(t, snacks.Required)
	require.NotNil(t, snacks.Check)
	assert.Equal(t, 10, snacks.Check.MaxOptions)
}

func TestFieldMap_UnmarshalNull(t *testing.T) {
	var m FieldMap
	require.NoError(t, json.Unmarshal([]byte("null"), &m))
	assert.Equal(t, 0, m.Len())
}

func TestFieldMap_Delete(t *testing.T) {
	m := NewFieldMap()
	m.Set("a", &CustomField{Type: FieldText})
	m.Set("b", &CustomField{Type: FieldText})

	m.Delete("a")
	assert.Equal(t, []string{"b"}, m.IDs())
	_, ok := m.Get("a")
	assert.False(t, ok)

	m.Delete("missing") // no-op
	assert.Equal(t, 1, m.Len())
}

func TestFieldMap_ByTitle(t *testing.T) {
	m := NewFieldMap()
	m.Set("f1", &CustomField{Type: FieldRadio, Title: "Drinks"})
	m.Set("f2", &CustomField{Type: FieldCheckbox, Title: "Snacks"})

	id, field, ok := m.ByTitle("Snacks")
	require.True(t, ok)
	assert.Equal(t, "f2", id)
	assert.Equal(t, FieldCheckbox, field.Type)

	_, _, ok = m.ByTitle("Nope")
	assert.False(t, ok)
}

func TestFieldType(t *testing.T) {
	assert.True(t, FieldRadio.IsVoting())
	assert.True(t, FieldCheckbox.IsVoting())
	assert.False(t, FieldText.IsVoting())
	assert.False(t, FieldList.IsVoting())

	assert.True(t, FieldList.Valid())
	assert.False(t, FieldType("dropdown").Valid())
}
