package model

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/bsv-blockchain/go-blockreader/errors"
)

// NewHashFromBytes creates a hash from exactly 32 bytes in natural (little
// endian) order. Any other length is rejected with an invalid length error.
func NewHashFromBytes(b []byte) (*chainhash.Hash, error) {
	if len(b) != chainhash.HashSize {
		return nil, errors.NewInvalidLengthError("hash must be %d bytes, got %d", chainhash.HashSize, len(b))
	}

	hash, err := chainhash.NewHash(b)
	if err != nil {
		return nil, errors.NewInvalidLengthError("invalid hash bytes", err)
	}

	return hash, nil
}

// NewHashFromStr creates a hash from a display order (big endian) hex string.
// Shorter strings are zero padded, per chainhash semantics.
func NewHashFromStr(s string) (*chainhash.Hash, error) {
	hash, err := chainhash.NewHashFromStr(s)
	if err != nil {
		return nil, errors.NewInvalidLengthError("invalid hash string %q", s, err)
	}

	return hash, nil
}
