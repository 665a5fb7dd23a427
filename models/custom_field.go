package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FieldType discriminates the custom-field variants.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldList     FieldType = "list"
	FieldRadio    FieldType = "radio"
	FieldCheckbox FieldType = "checkbox"
)

func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldList, FieldRadio, FieldCheckbox:
		return true
	}
	return false
}

// IsVoting reports whether answers for this field kind live in the event's
// voting categories rather than in the participant's response record.
func (t FieldType) IsVoting() bool {
	return t == FieldRadio || t == FieldCheckbox
}

// CustomField is a tagged union with one variant per field kind. Exactly the
// variant matching Type is populated; the merge and finalization engines
// dispatch on Type instead of probing optional properties.
type CustomField struct {
	Type     FieldType `json:"type"`
	Title    string    `json:"title"`
	Required bool      `json:"required"`
	ReadOnly bool      `json:"readonly"`

	List  *ListFieldOptions   `json:"list,omitempty"`
	Radio *ChoiceFieldOptions `json:"radio,omitempty"`
	Check *ChoiceFieldOptions `json:"checkbox,omitempty"`
}

// ListFieldOptions constrains a free-entry list field. Values are the
// organizer-seeded entries participants pick from or extend.
type ListFieldOptions struct {
	Values       []string `json:"values"`
	MaxEntries   int      `json:"maxEntries"`
	AllowUserAdd bool     `json:"allowUserAdd"`
}

// ChoiceFieldOptions constrains a radio or checkbox field. The actual option
// strings and votes live in the voting category whose name matches the field
// title.
type ChoiceFieldOptions struct {
	MaxOptions          int  `json:"maxOptions"`
	AllowUserAddOptions bool `json:"allowUserAddOptions"`
}

// ChoiceOptions returns the constraint block for radio/checkbox fields, nil
// for the other kinds.
func (f *CustomField) ChoiceOptions() *ChoiceFieldOptions {
	switch f.Type {
	case FieldRadio:
		return f.Radio
	case FieldCheckbox:
		return f.Check
	}
	return nil
}

// ListValues returns the known values of a list field, nil otherwise.
func (f *CustomField) ListValues() []string {
	if f.Type == FieldList && f.List != nil {
		return f.List.Values
	}
	return nil
}

// FieldMap is an insertion-ordered field-id -> definition mapping. Display
// order matters, so the order of first insertion survives JSON round trips.
type FieldMap struct {
	ids    []string
	fields map[string]*CustomField
}

func NewFieldMap() FieldMap {
	return FieldMap{fields: map[string]*CustomField{}}
}

func (m *FieldMap) Len() int {
	return len(m.ids)
}

// IDs returns the field ids in insertion order. The returned slice is shared;
// callers must not mutate it.
func (m *FieldMap) IDs() []string {
	return m.ids
}

func (m *FieldMap) Get(id string) (*CustomField, bool) {
	f, ok := m.fields[id]
	return f, ok
}

// Set inserts or replaces a definition. A new id is appended to the order; a
// replaced one keeps its position.
func (m *FieldMap) Set(id string, f *CustomField) {
	if m.fields == nil {
		m.fields = map[string]*CustomField{}
	}
	if _, ok := m.fields[id]; !ok {
		m.ids = append(m.ids, id)
	}
	m.fields[id] = f
}

func (m *FieldMap) Delete(id string) {
	if _, ok := m.fields[id]; !ok {
		return
	}
	delete(m.fields, id)
	for i, existing := range m.ids {
		if existing == id {
			m.ids = append(m.ids[:i], m.ids[i+1:]...)
			break
		}
	}
}

// ByTitle finds the field whose title matches, in insertion order. Voting
// categories reference radio/checkbox fields by title.
func (m *FieldMap) ByTitle(title string) (string, *CustomField, bool) {
	for _, id := range m.ids {
		if f := m.fields[id]; f.Title == title {
			return id, f, true
		}
	}
	return "", nil, false
}

func (m FieldMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range m.ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.fields[id])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object while preserving its key order, which
// encoding/json's map decoding would lose.
func (m *FieldMap) UnmarshalJSON(data []byte) error {
	*m = NewFieldMap()

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil // JSON null -> empty map
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("custom fields: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		id, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("custom fields: non-string key %v", keyTok)
		}
		var f CustomField
		if err := dec.Decode(&f); err != nil {
			return fmt.Errorf("custom fields: field %q: %w", id, err)
		}
		m.Set(id, &f)
	}

	// consume closing '}'
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
