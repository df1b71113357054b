// Package codec seals a vault.Database into an encrypted byte stream and
// opens such a stream back into a live database. The stream is a small
// versioned header (magic, format version, KDF salt, AEAD nonce) followed by
// the AES-GCM ciphertext of the JSON-serialized database. Round-trips are
// lossless: every field, history snapshot and tombstone survives
// encode/decode unchanged.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/vaultdb/internal/cryptox"
	"github.com/dmitrijs2005/vaultdb/vault"
)

// formatVersion is bumped on any incompatible change to the stream layout.
const formatVersion = 1

var magic = []byte("VDBX")

var (
	// ErrMalformed indicates that the stream is not a database of a
	// supported format version.
	ErrMalformed = errors.New("malformed database stream")

	// ErrInvalidKey indicates that the key does not open the stream: a wrong
	// password/key file, or a tampered payload.
	ErrInvalidKey = errors.New("invalid database key")
)

// Encode seals db with key and writes the result to w.
func Encode(w io.Writer, db *vault.Database, key DatabaseKey) error {
	material, err := key.material()
	if err != nil {
		return err
	}

	salt, err := cryptox.NewSalt()
	if err != nil {
		return err
	}
	masterKey := cryptox.DeriveMasterKey(material, salt)

	plaintext, err := json.Marshal(db)
	if err != nil {
		return fmt.Errorf("serializing database: %w", err)
	}

	ciphertext, nonce, err := cryptox.Seal(plaintext, masterKey)
	if err != nil {
		return fmt.Errorf("sealing database: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(magic)
	buf.WriteByte(formatVersion)
	buf.Write(salt)
	buf.Write(nonce)
	buf.Write(ciphertext)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing database: %w", err)
	}
	return nil
}

// Decode reads a sealed database from r and opens it with key. A stream that
// is not in the expected format yields ErrMalformed; a key that does not
// authenticate the payload yields ErrInvalidKey.
func Decode(r io.Reader, key DatabaseKey) (*vault.Database, error) {
	material, err := key.material()
	if err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading database: %w", err)
	}

	headerLen := len(magic) + 1 + cryptox.SaltSize + cryptox.NonceSize
	if len(raw) < headerLen {
		return nil, fmt.Errorf("stream truncated at %d bytes: %w", len(raw), ErrMalformed)
	}
	if !bytes.Equal(raw[:len(magic)], magic) {
		return nil, fmt.Errorf("bad magic: %w", ErrMalformed)
	}
	if v := raw[len(magic)]; v != formatVersion {
		return nil, fmt.Errorf("unsupported format version %d: %w", v, ErrMalformed)
	}

	salt := raw[len(magic)+1 : len(magic)+1+cryptox.SaltSize]
	nonce := raw[len(magic)+1+cryptox.SaltSize : headerLen]
	ciphertext := raw[headerLen:]

	masterKey := cryptox.DeriveMasterKey(material, salt)
	plaintext, err := cryptox.Open(ciphertext, nonce, masterKey)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", ErrInvalidKey)
	}

	var db vault.Database
	if err := json.Unmarshal(plaintext, &db); err != nil {
		return nil, fmt.Errorf("deserializing database: %w", ErrMalformed)
	}
	if db.Root == nil {
		return nil, fmt.Errorf("stream has no root group: %w", ErrMalformed)
	}
	if db.Tombstones == nil {
		db.Tombstones = vault.NewTombstoneLedger()
	}
	return &db, nil
}
