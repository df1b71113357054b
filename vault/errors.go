package vault

import "errors"

// Sentinel errors returned by Merge. Match with errors.Is; the wrapping
// message carries the identity involved.
var (
	// ErrKindConflict reports that the same identity is a group on one side
	// of a merge and an entry on the other. Never auto-resolved.
	ErrKindConflict = errors.New("node kind conflict")

	// ErrStructuralInconsistency reports a tree whose structure cannot be
	// reconciled, e.g. a duplicated identity or mismatched root groups.
	ErrStructuralInconsistency = errors.New("structural inconsistency")
)
