package vault

import (
	"iter"
	"time"

	"github.com/google/uuid"
)

// Tombstone records a deletion: the identity of the removed node and when it
// was deleted. Tombstones outlive their nodes so that a deletion made in one
// replica cannot be undone by merging in a stale copy.
type Tombstone struct {
	ID        uuid.UUID `json:"id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// TombstoneLedger is the set of tombstones of a database, one per deleted
// identity, in first-recorded order. The ledger only ever grows: dropping a
// tombstone would risk resurrecting the deletion during a future merge.
type TombstoneLedger struct {
	order []uuid.UUID
	byID  map[uuid.UUID]time.Time
}

// NewTombstoneLedger returns an empty ledger.
func NewTombstoneLedger() *TombstoneLedger {
	return &TombstoneLedger{byID: make(map[uuid.UUID]time.Time)}
}

// Record inserts or updates the tombstone for id, keeping the later deletion
// time if one is already present. Idempotent.
func (l *TombstoneLedger) Record(id uuid.UUID, t time.Time) {
	if cur, ok := l.byID[id]; ok {
		if t.After(cur) {
			l.byID[id] = t
		}
		return
	}
	l.order = append(l.order, id)
	l.byID[id] = t
}

// Contains reports whether id has been tombstoned.
func (l *TombstoneLedger) Contains(id uuid.UUID) bool {
	_, ok := l.byID[id]
	return ok
}

// TimestampOf returns the deletion time recorded for id.
func (l *TombstoneLedger) TimestampOf(id uuid.UUID) (time.Time, bool) {
	t, ok := l.byID[id]
	return t, ok
}

// Len returns the number of tombstoned identities.
func (l *TombstoneLedger) Len() int { return len(l.order) }

// All yields the tombstones in first-recorded order.
func (l *TombstoneLedger) All() iter.Seq[Tombstone] {
	return func(yield func(Tombstone) bool) {
		for _, id := range l.order {
			if !yield(Tombstone{ID: id, DeletedAt: l.byID[id]}) {
				return
			}
		}
	}
}

func (l *TombstoneLedger) clone() *TombstoneLedger {
	c := NewTombstoneLedger()
	for t := range l.All() {
		c.Record(t.ID, t.DeletedAt)
	}
	return c
}
