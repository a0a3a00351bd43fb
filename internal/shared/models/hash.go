package models

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
)

// Hash is a 20-byte SHA-1 digest: an info hash, a piece hash or a peer id.
type Hash [20]byte

var ErrInvalidHash = errors.New("invalid hash length")

func HashOf(data []byte) Hash {
	return sha1.Sum(data)
}

func HashFromBytes(b []byte) (Hash, error) {
	if len(b) != 20 {
		return Hash{}, ErrInvalidHash
	}
	return Hash(b), nil
}

// String returns the raw digest bytes, the form trackers expect in
// query parameters.
func (h Hash) String() string {
	return string(h[:])
}

func (h Hash) Hex() string {
	return hex.EncodeToString(h[:])
}
