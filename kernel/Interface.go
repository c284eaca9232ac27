// Package kernel defines the engine interface the reader consumes and ships
// the store backed implementation of it. The engine is the boundary to the
// validated node's data directory: everything above it (the reader, entries,
// iterators) only ever sees this interface.
package kernel

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/bsv-blockchain/go-blockreader/model"
)

// Engine is the opaque validated-chain engine. Implementations must be safe
// for concurrent use. Entry lookups return the header together with its index
// metadata; meta.MedianTime is populated, everything else in meta is exactly
// what the index holds.
type Engine interface {
	// Health reports aggregated engine health.
	Health(ctx context.Context, checkLiveness bool) (int, string, error)

	// BestValidatedEntry returns the tip of the active chain: the validated,
	// non failed block with the most cumulative work. ErrBlockNotFound when
	// nothing is validated yet.
	BestValidatedEntry(ctx context.Context) (*model.BlockHeader, *model.BlockIndexMeta, error)

	// EntryByHeight resolves a height on the active chain only.
	// ErrBlockNotFound above the validated tip or for heights the index does
	// not have.
	EntryByHeight(ctx context.Context, height uint32) (*model.BlockHeader, *model.BlockIndexMeta, error)

	// EntryByHash resolves a hash on any branch, active or not.
	EntryByHash(ctx context.Context, blockHash *chainhash.Hash) (*model.BlockHeader, *model.BlockIndexMeta, error)

	// PreviousEntry returns the parent of the given header, on any branch.
	// ErrBlockNotFound for the genesis block.
	PreviousEntry(ctx context.Context, header *model.BlockHeader) (*model.BlockHeader, *model.BlockIndexMeta, error)

	// ReadBlockData returns the raw consensus serialized block.
	// ErrBlockNotFound when the payload is not stored, ErrReadFailed when the
	// read itself fails.
	ReadBlockData(ctx context.Context, blockHash *chainhash.Hash) ([]byte, error)

	// ReadUndoData returns the serialized spent-coin undo data for a block.
	// Same error taxonomy as ReadBlockData.
	ReadUndoData(ctx context.Context, blockHash *chainhash.Hash) ([]byte, error)

	// HeaderHeight is the height of the most-work header the engine knows,
	// validated or not. ErrBlockNotFound when the index is empty.
	HeaderHeight(ctx context.Context) (uint32, error)

	// ValidatedHeight is the height of the active chain tip.
	// ErrBlockNotFound when nothing is validated yet.
	ValidatedHeight(ctx context.Context) (uint32, error)

	// MedianTimePast is the median timestamp of the block and its ancestors,
	// eleven blocks deep at most.
	MedianTimePast(ctx context.Context, blockHash *chainhash.Hash) (uint32, error)

	// IsOnActiveChain reports whether the block with the given index id is an
	// ancestor of (or is) the active chain tip.
	IsOnActiveChain(ctx context.Context, blockID uint32) (bool, error)

	// Refresh re-synchronizes the engine's view of the chain, dropping any
	// cached responses.
	Refresh(ctx context.Context) error

	// Close releases the engine's resources.
	Close(ctx context.Context) error
}
