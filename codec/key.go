package codec

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/term"
)

// ErrEmptyKey indicates that a DatabaseKey carries neither a password nor a
// key file.
var ErrEmptyKey = errors.New("database key is empty")

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// DatabaseKey assembles the secret material that locks a database: a
// password, a key file, or both. The zero value is empty; build keys with
// the With* methods, which return derived copies:
//
//	key := codec.NewKey().WithPassword("secret")
type DatabaseKey struct {
	password []byte
	keyFile  []byte
}

// NewKey returns an empty key.
func NewKey() DatabaseKey { return DatabaseKey{} }

// WithPassword returns a copy of the key with the given password element.
func (k DatabaseKey) WithPassword(password string) DatabaseKey {
	k.password = []byte(password)
	return k
}

// WithKeyFile returns a copy of the key with a key-file element read from r.
func (k DatabaseKey) WithKeyFile(r io.Reader) (DatabaseKey, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return DatabaseKey{}, fmt.Errorf("reading key file: %w", err)
	}
	k.keyFile = b
	return k, nil
}

// WithPromptedPassword prints a prompt to w, reads a password from the
// terminal on fd without echo, and returns a copy of the key carrying it.
// A newline is printed after the read to keep the output tidy.
func (k DatabaseKey) WithPromptedPassword(fd int, w io.Writer) (DatabaseKey, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return DatabaseKey{}, err
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return DatabaseKey{}, fmt.Errorf("reading password: %w", err)
	}
	k.password = pw
	return k, nil
}

// material composes the raw key material fed to the KDF: the concatenated
// digests of every element present, password first. Digesting the elements
// keeps the composition unambiguous regardless of their lengths.
func (k DatabaseKey) material() ([]byte, error) {
	if k.password == nil && k.keyFile == nil {
		return nil, ErrEmptyKey
	}
	var out []byte
	if k.password != nil {
		d := sha256.Sum256(k.password)
		out = append(out, d[:]...)
	}
	if k.keyFile != nil {
		d := sha256.Sum256(k.keyFile)
		out = append(out, d[:]...)
	}
	return out, nil
}
