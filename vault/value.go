package vault

import "bytes"

// ValueKind classifies a field value.
type ValueKind int

const (
	// ValuePlain is ordinary text.
	ValuePlain ValueKind = iota
	// ValueProtected is text flagged for confidential treatment by the codec
	// and UI layers. The core model compares it like plain text.
	ValueProtected
	// ValueBytes is an opaque binary payload.
	ValueBytes
)

func (k ValueKind) String() string {
	switch k {
	case ValuePlain:
		return "plain"
	case ValueProtected:
		return "protected"
	case ValueBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// Value is a tagged field value: plain text, protected (secret) text, or raw
// bytes. Values are immutable; construct a new one to change content.
type Value struct {
	kind ValueKind
	text string
	data []byte
}

// Plain returns a plain-text value.
func Plain(s string) Value { return Value{kind: ValuePlain, text: s} }

// Protected returns a secret-text value. Protection is a confidentiality
// flag, not a different payload type: a protected value compares equal to a
// plain value carrying the same text.
func Protected(s string) Value { return Value{kind: ValueProtected, text: s} }

// Bytes returns a binary value. The slice is copied, and an empty slice is
// equivalent to nil, so values compare equal across a serialization round
// trip.
func Bytes(b []byte) Value {
	if len(b) == 0 {
		return Value{kind: ValueBytes}
	}
	return Value{kind: ValueBytes, data: bytes.Clone(b)}
}

// Kind returns the value's tag.
func (v Value) Kind() ValueKind { return v.kind }

// Text returns the textual payload, or "" for binary values.
func (v Value) Text() string { return v.text }

// Data returns a copy of the binary payload, or nil for text values.
func (v Value) Data() []byte { return bytes.Clone(v.data) }

// IsProtected reports whether the value is flagged as secret text.
func (v Value) IsProtected() bool { return v.kind == ValueProtected }

// Equal compares payloads. Plain and protected text with the same content
// compare equal; text never equals bytes.
func (v Value) Equal(o Value) bool {
	if v.kind == ValueBytes || o.kind == ValueBytes {
		return v.kind == o.kind && bytes.Equal(v.data, o.data)
	}
	return v.text == o.text
}
