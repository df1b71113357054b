package vault

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNew_RootHasWellKnownIdentity(t *testing.T) {
	db := New()
	require.Equal(t, RootUUID, db.Root.ID)
	require.Equal(t, "Root", db.Root.Name)
	require.Equal(t, 0, db.Tombstones.Len())
}

func TestDeleteByUUID_NestedEntryWithLogging(t *testing.T) {
	db, g1, g2, _, e2, _ := buildTree(t)

	n, ok := db.DeleteByUUID(e2.ID, true)
	require.True(t, ok)
	deleted, isEntry := n.(*Entry)
	require.True(t, isEntry)
	require.Equal(t, e2.ID, deleted.ID)

	// gone from the tree
	_, found := db.Root.FindByUUID(e2.ID)
	require.False(t, found)
	require.Empty(t, g2.Children)
	require.Len(t, g1.Children, 2)

	// recorded on the ledger
	require.Equal(t, 1, db.Tombstones.Len())
	require.True(t, db.Tombstones.Contains(e2.ID))
}

func TestDeleteByUUID_GroupWithoutLogging(t *testing.T) {
	db, g1, _, _, e2, e3 := buildTree(t)
	_, ok := db.DeleteByUUID(e2.ID, true)
	require.True(t, ok)

	n, ok := db.DeleteByUUID(g1.ID, false)
	require.True(t, ok)
	deleted, isGroup := n.(*Group)
	require.True(t, isGroup)
	require.Equal(t, g1.ID, deleted.ID)

	// the whole subtree moved with the group
	require.Len(t, deleted.Children, 2)

	// only E3 remains under root
	require.Len(t, db.Root.Children, 1)
	remaining, isEntry := db.Root.Children[0].(*Entry)
	require.True(t, isEntry)
	require.Equal(t, e3.ID, remaining.ID)

	// unlogged deletion must not grow the ledger
	require.Equal(t, 1, db.Tombstones.Len())
	require.False(t, db.Tombstones.Contains(g1.ID))
}

func TestDeleteByUUID_GroupDescendantsNotTombstoned(t *testing.T) {
	db, g1, g2, e1, e2, _ := buildTree(t)

	_, ok := db.DeleteByUUID(g1.ID, true)
	require.True(t, ok)

	// only the deleted identity itself is tombstoned
	require.True(t, db.Tombstones.Contains(g1.ID))
	require.False(t, db.Tombstones.Contains(g2.ID))
	require.False(t, db.Tombstones.Contains(e1.ID))
	require.False(t, db.Tombstones.Contains(e2.ID))
}

func TestDeleteByUUID_NotFound(t *testing.T) {
	db, _, _, _, _, _ := buildTree(t)

	n, ok := db.DeleteByUUID(uuid.New(), true)
	require.False(t, ok)
	require.Nil(t, n)
	require.Equal(t, 0, db.Tombstones.Len())
}

func TestDeleteByUUID_RootNeverATarget(t *testing.T) {
	db, _, _, _, _, _ := buildTree(t)

	n, ok := db.DeleteByUUID(db.Root.ID, true)
	require.False(t, ok)
	require.Nil(t, n)
	require.Equal(t, 0, db.Tombstones.Len())
	require.NotEmpty(t, db.Root.Children)
}

func TestDeleteByUUID_PreservesSiblingOrder(t *testing.T) {
	db := New()
	var entries []*Entry
	for _, name := range []string{"a", "b", "c", "d"} {
		e := NewEntry()
		e.Set(TitleField, Plain(name))
		entries = append(entries, e)
		db.Root.AddChild(e)
	}

	_, ok := db.DeleteByUUID(entries[1].ID, false)
	require.True(t, ok)

	var got []string
	for _, n := range db.Root.Children {
		got = append(got, n.(*Entry).Title())
	}
	require.Equal(t, []string{"a", "c", "d"}, got)
}

func TestDeleteByUUID_TombstoneTimestampFromClock(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 42, 0, time.UTC)
	orig := timeNow
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = orig }()

	db, _, _, e1, _, _ := buildTree(t)
	_, ok := db.DeleteByUUID(e1.ID, true)
	require.True(t, ok)

	got, ok := db.Tombstones.TimestampOf(e1.ID)
	require.True(t, ok)
	require.Equal(t, fixed, got)
}

// Scenario from the reference behavior: Group "G1" holds Entry "E1"; a logged
// deletion of E1 returns the entry, leaves it unreachable and records exactly
// one tombstone.
func TestDeleteByUUID_ReferenceScenario(t *testing.T) {
	db := New()
	g1 := NewGroup("G1")
	e1 := NewEntry()
	e1.Set(TitleField, Plain("E1"))
	g1.AddChild(e1)
	db.Root.AddChild(g1)

	n, ok := db.DeleteByUUID(e1.ID, true)
	require.True(t, ok)
	require.Equal(t, e1.ID, n.UUID())

	_, found := db.Root.FindByUUID(e1.ID)
	require.False(t, found)

	require.Equal(t, 1, db.Tombstones.Len())
	require.True(t, db.Tombstones.Contains(e1.ID))
}
