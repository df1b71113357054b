package vault

import (
	"time"

	"github.com/google/uuid"
)

// timeNow is a test seam for the clock used when stamping tombstones and
// field updates. Always returns UTC.
var timeNow = func() time.Time { return time.Now().UTC() }

// NodeKind discriminates the two node types of the tree.
type NodeKind int

const (
	KindGroup NodeKind = iota
	KindEntry
)

func (k NodeKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindEntry:
		return "entry"
	default:
		return "unknown"
	}
}

// Node is a child of a Group: either a *Group or an *Entry. The interface is
// sealed; no other implementations exist. Consumers that iterate a tree can
// switch on Kind before asserting the concrete type.
type Node interface {
	// UUID returns the permanent identity of the node, assigned once at
	// creation and used for deletion and cross-replica correlation.
	UUID() uuid.UUID

	// Kind reports whether the node is a group or an entry.
	Kind() NodeKind

	// LastModified returns the node's last modification time.
	LastModified() time.Time

	// clone returns a deep copy sharing no mutable state with the receiver.
	clone() Node
}
