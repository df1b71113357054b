package vault

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JSON shapes used by the codec. Values carry a kind tag, group children are
// kind-tagged so the Node interface round-trips, and the tombstone ledger
// serializes as an ordered array.

type valueJSON struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
	Data []byte `json:"data,omitempty"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValuePlain, ValueProtected:
		return json.Marshal(valueJSON{Kind: v.kind.String(), Text: v.text})
	case ValueBytes:
		return json.Marshal(valueJSON{Kind: v.kind.String(), Data: v.data})
	default:
		return nil, fmt.Errorf("marshaling value of unknown kind %d", v.kind)
	}
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var raw valueJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case "plain":
		*v = Plain(raw.Text)
	case "protected":
		*v = Protected(raw.Text)
	case "bytes":
		*v = Bytes(raw.Data)
	default:
		return fmt.Errorf("unmarshaling value of unknown kind %q", raw.Kind)
	}
	return nil
}

type childJSON struct {
	Kind  string `json:"kind"`
	Group *Group `json:"group,omitempty"`
	Entry *Entry `json:"entry,omitempty"`
}

type groupJSON struct {
	ID       uuid.UUID   `json:"id"`
	Name     string      `json:"name"`
	Modified time.Time   `json:"modified"`
	Children []childJSON `json:"children,omitempty"`
}

func (g *Group) MarshalJSON() ([]byte, error) {
	raw := groupJSON{ID: g.ID, Name: g.Name, Modified: g.Modified}
	for _, child := range g.Children {
		switch c := child.(type) {
		case *Group:
			raw.Children = append(raw.Children, childJSON{Kind: "group", Group: c})
		case *Entry:
			raw.Children = append(raw.Children, childJSON{Kind: "entry", Entry: c})
		}
	}
	return json.Marshal(raw)
}

func (g *Group) UnmarshalJSON(b []byte) error {
	var raw groupJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*g = Group{ID: raw.ID, Name: raw.Name, Modified: raw.Modified}
	for _, child := range raw.Children {
		switch {
		case child.Kind == "group" && child.Group != nil:
			g.Children = append(g.Children, child.Group)
		case child.Kind == "entry" && child.Entry != nil:
			g.Children = append(g.Children, child.Entry)
		default:
			return fmt.Errorf("unmarshaling child node of unknown kind %q", child.Kind)
		}
	}
	return nil
}

func (l *TombstoneLedger) MarshalJSON() ([]byte, error) {
	stones := make([]Tombstone, 0, l.Len())
	for t := range l.All() {
		stones = append(stones, t)
	}
	return json.Marshal(stones)
}

func (l *TombstoneLedger) UnmarshalJSON(b []byte) error {
	var stones []Tombstone
	if err := json.Unmarshal(b, &stones); err != nil {
		return err
	}
	*l = *NewTombstoneLedger()
	for _, t := range stones {
		l.Record(t.ID, t.DeletedAt)
	}
	return nil
}
