package vault

import (
	"slices"

	"github.com/google/uuid"
)

// RootUUID is the fixed, well-known identity of every database's root group.
// The root is never a deletion target and never carries a tombstone; merges
// correlate two databases through it.
var RootUUID = uuid.MustParse("e2a7f0c4-5d14-4a6b-9c0d-74f5b1a8e903")

// Database is one logical credential store: the live tree plus the ledger of
// everything deleted from it.
type Database struct {
	Root       *Group           `json:"root"`
	Tombstones *TombstoneLedger `json:"tombstones"`
}

// New returns an empty database: a root group named "Root" with the
// well-known root identity and an empty tombstone ledger.
func New() *Database {
	return &Database{
		Root:       &Group{ID: RootUUID, Name: "Root", Modified: timeNow()},
		Tombstones: NewTombstoneLedger(),
	}
}

// DeleteByUUID removes the first node with the given identity from the tree
// and returns it together with its entire subtree. A deleted group carries
// all of its descendants with it; only the deleted identity itself is
// tombstoned, never the descendants individually (a merge treats an
// ancestor's tombstone as covering its subtree).
//
// When logDeletion is true the deletion is recorded on the ledger so it
// propagates to other replicas on merge; when false the node is discarded
// locally without a trace. The root group is never a valid target. Returns
// false if no node with the identity exists; the ledger is then untouched.
func (db *Database) DeleteByUUID(id uuid.UUID, logDeletion bool) (Node, bool) {
	if id == db.Root.ID {
		return nil, false
	}
	n, ok := detachNode(db.Root, id)
	if !ok {
		return nil, false
	}
	if logDeletion {
		db.Tombstones.Record(id, timeNow())
	}
	return n, true
}

// detachNode removes the first pre-order match below root from its parent,
// preserving sibling order, and returns it. No tombstone is written.
func detachNode(root *Group, id uuid.UUID) (Node, bool) {
	stack := []*Group{root}
	for len(stack) > 0 {
		g := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i, child := range g.Children {
			if child.UUID() == id {
				g.Children = slices.Delete(g.Children, i, i+1)
				return child, true
			}
		}
		for i := len(g.Children) - 1; i >= 0; i-- {
			if cg, ok := g.Children[i].(*Group); ok {
				stack = append(stack, cg)
			}
		}
	}
	return nil, false
}

// clone returns a deep copy of the database sharing no state with it.
func (db *Database) clone() *Database {
	return &Database{
		Root:       db.Root.clone().(*Group),
		Tombstones: db.Tombstones.clone(),
	}
}
