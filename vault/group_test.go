package vault

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildTree returns a database shaped like the reference fixture:
//
//	Root
//	├── G1
//	│   ├── E1
//	│   └── G2
//	│       └── E2
//	└── E3
func buildTree(t *testing.T) (db *Database, g1, g2 *Group, e1, e2, e3 *Entry) {
	t.Helper()

	db = New()

	g1 = NewGroup("G1")
	e1 = NewEntry()
	e1.Set(TitleField, Plain("E1"))
	g1.AddChild(e1)

	g2 = NewGroup("G2")
	e2 = NewEntry()
	e2.Set(TitleField, Plain("E2"))
	g2.AddChild(e2)
	g1.AddChild(g2)

	db.Root.AddChild(g1)

	e3 = NewEntry()
	e3.Set(TitleField, Plain("E3"))
	db.Root.AddChild(e3)

	return db, g1, g2, e1, e2, e3
}

func TestGroup_All_PreOrder(t *testing.T) {
	db, _, _, _, _, _ := buildTree(t)

	var got []string
	for n := range db.Root.All() {
		switch n := n.(type) {
		case *Group:
			got = append(got, n.Name)
		case *Entry:
			got = append(got, n.Title())
		}
	}
	require.Equal(t, []string{"Root", "G1", "E1", "G2", "E2", "E3"}, got)

	// restartable: a second pass yields the same sequence
	var again []string
	for n := range db.Root.All() {
		if g, ok := n.(*Group); ok {
			again = append(again, g.Name)
		} else {
			again = append(again, n.(*Entry).Title())
		}
	}
	require.Equal(t, got, again)
}

func TestGroup_All_StopsEarly(t *testing.T) {
	db, _, _, _, _, _ := buildTree(t)

	count := 0
	for range db.Root.All() {
		count++
		if count == 2 {
			break
		}
	}
	require.Equal(t, 2, count)
}

func TestGroup_All_FilterByKind(t *testing.T) {
	db, _, _, _, _, _ := buildTree(t)

	groups, entries := 0, 0
	for n := range db.Root.All() {
		switch n.Kind() {
		case KindGroup:
			groups++
		case KindEntry:
			entries++
		}
	}
	require.Equal(t, 3, groups)
	require.Equal(t, 3, entries)
}

func TestGroup_FindByUUID(t *testing.T) {
	db, _, g2, _, e2, _ := buildTree(t)

	n, ok := db.Root.FindByUUID(e2.ID)
	require.True(t, ok)
	require.Same(t, Node(e2), n)

	n, ok = db.Root.FindByUUID(g2.ID)
	require.True(t, ok)
	require.Same(t, Node(g2), n)

	// the root finds itself
	n, ok = db.Root.FindByUUID(db.Root.ID)
	require.True(t, ok)
	require.Same(t, Node(db.Root), n)

	_, ok = db.Root.FindByUUID(NewEntry().ID)
	require.False(t, ok)
}

func TestGroup_Get_ByPath(t *testing.T) {
	db, g1, g2, e1, e2, _ := buildTree(t)

	tests := []struct {
		name string
		path []string
		want Node
		ok   bool
	}{
		{"empty path returns receiver", nil, db.Root, true},
		{"top-level group", []string{"G1"}, g1, true},
		{"nested group", []string{"G1", "G2"}, g2, true},
		{"entry by title", []string{"G1", "E1"}, e1, true},
		{"deep entry by title", []string{"G1", "G2", "E2"}, e2, true},
		{"missing segment", []string{"G1", "Nope"}, nil, false},
		{"entry in middle of path", []string{"G1", "E1", "deeper"}, nil, false},
		{"missing root segment", []string{"Nope", "E1"}, nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, ok := db.Root.Get(tc.path...)
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				require.Same(t, tc.want, n)
			}
		})
	}
}

func TestGroup_AddChild_PreservesOrder(t *testing.T) {
	g := NewGroup("parent")
	for _, name := range []string{"a", "b", "c"} {
		e := NewEntry()
		e.Set(TitleField, Plain(name))
		g.AddChild(e)
	}
	require.Len(t, g.Children, 3)
	require.Equal(t, "a", g.Children[0].(*Entry).Title())
	require.Equal(t, "b", g.Children[1].(*Entry).Title())
	require.Equal(t, "c", g.Children[2].(*Entry).Title())
}

func TestUniqueness_AfterCoreOperations(t *testing.T) {
	db, _, _, _, e2, _ := buildTree(t)
	db.DeleteByUUID(e2.ID, true)

	seen := make(map[string]bool)
	for n := range db.Root.All() {
		id := n.UUID().String()
		require.False(t, seen[id], "identity %s occurs twice", id)
		seen[id] = true
	}
}
