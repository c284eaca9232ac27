// Package model holds the value types the block reader hands out: headers,
// decoded blocks, transactions and their borrowed views, undo records and the
// status metadata the chain index keeps per block.
//
// The decode and encode paths are built on the btcd wire package, so every
// byte that goes in comes back out identically. Borrowed reference types
// (TransactionRef, TxOutRef and friends) keep a pointer to the structure they
// index into; ToOwned returns an independent deep copy.
package model

import (
	"bytes"
	"encoding/hex"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/bsv-blockchain/go-blockreader/errors"
)

// BlockHeaderSize is the length of a serialized block header.
const BlockHeaderSize = 80

type BlockHeader struct {
	// Version of the block.  This is not the same as the protocol version.
	Version int32

	// Hash of the previous block header in the blockchain.
	HashPrevBlock *chainhash.Hash

	// Merkle tree reference to hash of all transactions for the block.
	HashMerkleRoot *chainhash.Hash

	// Time the block was created in unix time.
	Timestamp uint32

	// Difficulty target for the block, compact representation.
	Bits uint32

	// Nonce used to generate the block.
	Nonce uint32
}

func NewBlockHeaderFromBytes(headerBytes []byte) (*BlockHeader, error) {
	if len(headerBytes) != BlockHeaderSize {
		return nil, errors.NewInvalidLengthError("block header should be %d bytes long, got %d", BlockHeaderSize, len(headerBytes))
	}

	var wbh wire.BlockHeader
	if err := wbh.Deserialize(bytes.NewReader(headerBytes)); err != nil {
		return nil, errors.NewProcessingError("error deserializing block header", err)
	}

	return NewBlockHeaderFromWire(&wbh), nil
}

func NewBlockHeaderFromString(headerHex string) (*BlockHeader, error) {
	headerBytes, err := hex.DecodeString(headerHex)
	if err != nil {
		return nil, errors.NewProcessingError("error decoding hex string to bytes", err)
	}

	return NewBlockHeaderFromBytes(headerBytes)
}

func NewBlockHeaderFromWire(wbh *wire.BlockHeader) *BlockHeader {
	prevBlock := wbh.PrevBlock
	merkleRoot := wbh.MerkleRoot

	return &BlockHeader{
		Version:        wbh.Version,
		HashPrevBlock:  &prevBlock,
		HashMerkleRoot: &merkleRoot,
		//nolint:gosec // G115: header timestamps fit in uint32 until 2106
		Timestamp: uint32(wbh.Timestamp.Unix()),
		Bits:      wbh.Bits,
		Nonce:     wbh.Nonce,
	}
}

// ToWire converts the header back to its btcd wire representation.
func (bh *BlockHeader) ToWire() *wire.BlockHeader {
	return &wire.BlockHeader{
		Version:    bh.Version,
		PrevBlock:  *bh.HashPrevBlock,
		MerkleRoot: *bh.HashMerkleRoot,
		Timestamp:  time.Unix(int64(bh.Timestamp), 0),
		Bits:       bh.Bits,
		Nonce:      bh.Nonce,
	}
}

// Hash returns the double SHA256 of the serialized header.
func (bh *BlockHeader) Hash() *chainhash.Hash {
	hash := bh.ToWire().BlockHash()
	return &hash
}

func (bh *BlockHeader) Bytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, BlockHeaderSize))

	// Serialize on a bytes.Buffer cannot fail
	_ = bh.ToWire().Serialize(buf)

	return buf.Bytes()
}

func (bh *BlockHeader) String() string {
	return hex.EncodeToString(bh.Bytes())
}
