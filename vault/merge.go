package vault

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/vaultdb/logging"
)

// MergeOption configures a single Merge call.
type MergeOption func(*mergeConfig)

type mergeConfig struct {
	log logging.Logger
}

// WithLogger makes the merge report its decisions (adopted tombstones,
// inserted nodes, overwrites) to the given logger at debug level.
func WithLogger(l logging.Logger) MergeOption {
	return func(c *mergeConfig) { c.log = l }
}

// Merge reconciles incoming into db. The merge is convergent: merging two
// divergent replicas in either order yields the same set of live identities
// with the same content, though child ordering may differ (local order is
// preserved, new incoming nodes are appended).
//
// Conflict rules, in order of precedence:
//
//  1. Deletions win. Every incoming tombstone is adopted (keeping the later
//     of the two deletion times) and its node, if live locally, is removed —
//     even when the local edit is newer than the deletion. An identity
//     tombstoned locally is never re-added from the incoming tree.
//  2. Newer content wins. For an identity live on both sides with the same
//     kind, the strictly newer modification time decides the entry's fields
//     or the group's name; an exact tie keeps the local content. A local
//     entry overwritten by newer incoming content first pushes its old state
//     onto the entry's history.
//  3. New identities are inserted under the local counterpart of their
//     incoming parent group, parents before children.
//
// The same identity appearing as a group on one side and an entry on the
// other is an ErrKindConflict; mismatched root identities or duplicated
// identities are an ErrStructuralInconsistency. On any error db is left
// completely unchanged: the merge runs on a deep copy and commits only after
// validation. Merge does not retain any reference into incoming.
func (db *Database) Merge(incoming *Database, opts ...MergeOption) error {
	cfg := mergeConfig{log: logging.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if incoming.Root.ID != db.Root.ID {
		return fmt.Errorf("merge: root %s does not match incoming root %s: %w",
			db.Root.ID, incoming.Root.ID, ErrStructuralInconsistency)
	}

	work := db.clone()
	m := &merger{db: work, log: cfg.log, ctx: context.Background()}

	m.applyTombstones(incoming.Tombstones)
	if err := m.mergeGroup(work.Root, incoming.Root); err != nil {
		return err
	}
	if err := m.validate(); err != nil {
		return err
	}

	m.log.Debug(m.ctx, "merge committed",
		"tombstones_adopted", m.adopted, "inserted", m.inserted, "overwritten", m.overwritten)

	db.Root = work.Root
	db.Tombstones = work.Tombstones
	return nil
}

type merger struct {
	db  *Database
	log logging.Logger
	ctx context.Context

	adopted     int
	inserted    int
	overwritten int
}

// applyTombstones runs before the structural walk so that a deletion made in
// one replica cannot be re-added by an update processed later in the same
// pass. Adopting a tombstone removes the matching live node regardless of
// how recently it was edited: a deletion always wins over an unsynchronized
// later edit.
func (m *merger) applyTombstones(incoming *TombstoneLedger) {
	for t := range incoming.All() {
		if t.ID == m.db.Root.ID {
			m.log.Warn(m.ctx, "ignoring tombstone for root group", "uuid", t.ID)
			continue
		}
		if local, ok := m.db.Tombstones.TimestampOf(t.ID); ok && !t.DeletedAt.After(local) {
			continue
		}
		m.db.Tombstones.Record(t.ID, t.DeletedAt)
		if _, ok := detachNode(m.db.Root, t.ID); ok {
			m.adopted++
			m.log.Debug(m.ctx, "applied incoming deletion", "uuid", t.ID, "deleted_at", t.DeletedAt)
		}
	}
}

// mergeGroup reconciles one incoming group into its local counterpart and
// recurses over the incoming children. Group metadata follows the same
// newer-timestamp rule as entry content.
func (m *merger) mergeGroup(local *Group, incoming *Group) error {
	if incoming.Modified.After(local.Modified) {
		if local.Name != incoming.Name {
			m.overwritten++
			m.log.Debug(m.ctx, "renamed group", "uuid", local.ID, "from", local.Name, "to", incoming.Name)
		}
		local.Name = incoming.Name
		local.Modified = incoming.Modified
	}

	for _, child := range incoming.Children {
		id := child.UUID()

		// A locally tombstoned identity stays dead no matter how new the
		// incoming edit is; the descendants of a skipped group are covered
		// by their ancestor's tombstone.
		if m.db.Tombstones.Contains(id) {
			m.log.Debug(m.ctx, "skipped tombstoned node", "uuid", id)
			continue
		}

		counterpart, ok := m.db.Root.FindByUUID(id)
		if !ok {
			if err := m.insert(local, child); err != nil {
				return err
			}
			continue
		}

		switch lc := counterpart.(type) {
		case *Group:
			ig, ok := child.(*Group)
			if !ok {
				return kindConflict(id, KindGroup, KindEntry)
			}
			if err := m.mergeGroup(lc, ig); err != nil {
				return err
			}
		case *Entry:
			ie, ok := child.(*Entry)
			if !ok {
				return kindConflict(id, KindEntry, KindGroup)
			}
			m.mergeEntry(lc, ie)
		}
	}
	return nil
}

// insert adds a new incoming node under the local parent. Entries move with
// their whole content; groups are inserted empty and filled by recursion so
// that every descendant gets the same tombstone, duplicate and kind-conflict
// treatment.
func (m *merger) insert(parent *Group, child Node) error {
	m.inserted++
	switch c := child.(type) {
	case *Entry:
		parent.AddChild(c.clone())
		m.log.Debug(m.ctx, "inserted entry", "uuid", c.ID, "title", c.Title())
	case *Group:
		ng := &Group{ID: c.ID, Name: c.Name, Modified: c.Modified}
		parent.AddChild(ng)
		m.log.Debug(m.ctx, "inserted group", "uuid", c.ID, "name", c.Name)
		return m.mergeGroup(ng, c)
	}
	return nil
}

// mergeEntry applies the newer-content-wins rule to one entry pair. A lost
// local state that actually differed is preserved on the history list.
func (m *merger) mergeEntry(local *Entry, incoming *Entry) {
	if !incoming.Modified.After(local.Modified) {
		return
	}
	if !fieldsEqual(local.Fields, incoming.Fields) {
		local.History = append(local.History, local.snapshot())
		m.overwritten++
		m.log.Debug(m.ctx, "overwrote entry", "uuid", local.ID,
			"local_modified", local.Modified, "incoming_modified", incoming.Modified)
	}
	local.Fields = cloneFields(incoming.Fields)
	local.Modified = incoming.Modified
}

// validate checks the merged tree before commit: identities must be unique
// and no identity may be both live and tombstoned.
func (m *merger) validate() error {
	seen := make(map[uuid.UUID]struct{})
	for n := range m.db.Root.All() {
		id := n.UUID()
		if _, dup := seen[id]; dup {
			return fmt.Errorf("merge: identity %s occurs twice in merged tree: %w",
				id, ErrStructuralInconsistency)
		}
		seen[id] = struct{}{}
		if m.db.Tombstones.Contains(id) {
			return fmt.Errorf("merge: identity %s is both live and tombstoned: %w",
				id, ErrStructuralInconsistency)
		}
	}
	return nil
}

func kindConflict(id uuid.UUID, localKind, incomingKind NodeKind) error {
	return fmt.Errorf("merge: node %s is %s-kind locally but %s-kind in incoming: %w",
		id, localKind, incomingKind, ErrKindConflict)
}
