package vault

import (
	"iter"
	"time"

	"github.com/google/uuid"
)

// Group is an interior node of the tree: a named, ordered sequence of child
// groups and entries. The tree exclusively owns its children; a node is never
// reachable from two parents.
type Group struct {
	ID       uuid.UUID
	Name     string
	Children []Node
	Modified time.Time
}

// NewGroup returns an empty group with a fresh identity.
func NewGroup(name string) *Group {
	return &Group{ID: uuid.New(), Name: name, Modified: timeNow()}
}

func (g *Group) UUID() uuid.UUID { return g.ID }

func (g *Group) Kind() NodeKind { return KindGroup }

func (g *Group) LastModified() time.Time { return g.Modified }

// AddChild appends a node to the group's child sequence.
//
// Precondition: the node's identity must not already occur in the tree the
// group belongs to. The tree does not verify this; violating it makes
// deletion and merge results unspecified.
func (g *Group) AddChild(n Node) {
	g.Children = append(g.Children, n)
}

// All returns a pre-order, depth-first sequence over the group and every node
// beneath it. Each call yields a fresh, restartable sequence. The walk uses
// an explicit stack, so arbitrarily deep trees do not grow the call stack.
func (g *Group) All() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		stack := []Node{g}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n) {
				return
			}
			if gr, ok := n.(*Group); ok {
				for i := len(gr.Children) - 1; i >= 0; i-- {
					stack = append(stack, gr.Children[i])
				}
			}
		}
	}
}

// FindByUUID returns the first node in pre-order with the given identity,
// including the group itself. Identities are expected to be unique within a
// tree, so the first match is the only one.
func (g *Group) FindByUUID(id uuid.UUID) (Node, bool) {
	for n := range g.All() {
		if n.UUID() == id {
			return n, true
		}
	}
	return nil, false
}

// Get resolves a path of names starting at the group. Every segment except
// the last must name a child group; the last segment may name either a child
// group or an entry by its Title field. An empty path returns the group
// itself. Returns false on any segment miss.
func (g *Group) Get(path ...string) (Node, bool) {
	cur := g
	for i, seg := range path {
		last := i == len(path)-1
		var next *Group
		for _, child := range cur.Children {
			switch c := child.(type) {
			case *Group:
				if c.Name == seg {
					if last {
						return c, true
					}
					next = c
				}
			case *Entry:
				if last && c.Title() == seg {
					return c, true
				}
			}
			if next != nil {
				break
			}
		}
		if next == nil {
			return nil, false
		}
		cur = next
	}
	return g, true
}

func (g *Group) clone() Node {
	c := &Group{ID: g.ID, Name: g.Name, Modified: g.Modified}
	if len(g.Children) > 0 {
		c.Children = make([]Node, len(g.Children))
		for i, child := range g.Children {
			c.Children[i] = child.clone()
		}
	}
	return c
}
