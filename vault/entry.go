package vault

import (
	"time"

	"github.com/google/uuid"
)

// TitleField is the conventional field holding an entry's display name. Path
// lookups resolve their final segment against it.
const TitleField = "Title"

// Field is one named value of an entry. Field order within an entry is
// preserved for round-trip fidelity; names are unique. Equality of entries
// does not depend on field order.
type Field struct {
	Name  string `json:"name"`
	Value Value  `json:"value"`
}

// Snapshot is a prior state of an entry, kept on the entry's history list
// when a merge overwrites it.
type Snapshot struct {
	Modified time.Time `json:"modified"`
	Fields   []Field   `json:"fields"`
}

// Entry is a leaf credential record: an identity, an ordered field map, a
// modification time and a history of superseded snapshots (oldest first).
//
// Invariant: Modified is never earlier than any snapshot on History.
type Entry struct {
	ID       uuid.UUID  `json:"id"`
	Fields   []Field    `json:"fields,omitempty"`
	Modified time.Time  `json:"modified"`
	History  []Snapshot `json:"history,omitempty"`
}

// NewEntry returns an empty entry with a fresh identity.
func NewEntry() *Entry {
	return &Entry{ID: uuid.New(), Modified: timeNow()}
}

func (e *Entry) UUID() uuid.UUID { return e.ID }

func (e *Entry) Kind() NodeKind { return KindEntry }

func (e *Entry) LastModified() time.Time { return e.Modified }

// Get returns the value of the named field.
func (e *Entry) Get(name string) (Value, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Set stores a field value, replacing an existing field in place or appending
// a new one, and advances the modification time.
func (e *Entry) Set(name string, v Value) {
	e.Modified = timeNow()
	for i, f := range e.Fields {
		if f.Name == name {
			e.Fields[i].Value = v
			return
		}
	}
	e.Fields = append(e.Fields, Field{Name: name, Value: v})
}

// Title returns the entry's display name, i.e. the Title field, or "".
func (e *Entry) Title() string {
	v, _ := e.Get(TitleField)
	return v.Text()
}

// snapshot captures the entry's current fields and timestamp.
func (e *Entry) snapshot() Snapshot {
	return Snapshot{Modified: e.Modified, Fields: cloneFields(e.Fields)}
}

func (e *Entry) clone() Node {
	c := &Entry{ID: e.ID, Modified: e.Modified, Fields: cloneFields(e.Fields)}
	if len(e.History) > 0 {
		c.History = make([]Snapshot, len(e.History))
		for i, s := range e.History {
			c.History[i] = Snapshot{Modified: s.Modified, Fields: cloneFields(s.Fields)}
		}
	}
	return c
}

func cloneFields(fields []Field) []Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]Field, len(fields))
	copy(out, fields)
	for i, f := range out {
		if f.Value.kind == ValueBytes {
			out[i].Value = Bytes(f.Value.data)
		}
	}
	return out
}

// fieldsEqual compares two field sets by name, ignoring field order.
func fieldsEqual(a, b []Field) bool {
	if len(a) != len(b) {
		return false
	}
	for _, fa := range a {
		found := false
		for _, fb := range b {
			if fb.Name == fa.Name {
				found = fa.Value.Equal(fb.Value)
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
