// Package blockindex defines the chain-index store: per-block header and
// bookkeeping rows forming the block tree, with the active chain derived from
// cumulative chain work over validated blocks.
//
// The reader only ever queries. StoreBlockIndex and SetBlockStatus exist for
// the process that writes the data directory and for tests that seed chains.
package blockindex

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/bsv-blockchain/go-blockreader/model"
)

// Store is the chain-index contract. Lookups return the header together with
// its index metadata; absent rows are reported as ErrBlockNotFound.
type Store interface {
	// Health reports whether the underlying database is reachable.
	Health(ctx context.Context, checkLiveness bool) (int, string, error)

	// GetBestBlockIndex returns the validated block with the most cumulative
	// chain work, the tip of the active chain.
	GetBestBlockIndex(ctx context.Context) (*model.BlockHeader, *model.BlockIndexMeta, error)

	// GetBlockIndexByHeight resolves a height on the active chain. Heights
	// above the validated tip do not resolve.
	GetBlockIndexByHeight(ctx context.Context, height uint32) (*model.BlockHeader, *model.BlockIndexMeta, error)

	// GetBlockIndexByHash resolves a block on any branch.
	GetBlockIndexByHash(ctx context.Context, blockHash *chainhash.Hash) (*model.BlockHeader, *model.BlockIndexMeta, error)

	// GetHeaderHeight returns the height of the best header, validated or
	// not. ErrBlockNotFound when the index is empty.
	GetHeaderHeight(ctx context.Context) (uint32, error)

	// GetValidatedHeight returns the height of the active chain tip.
	// ErrBlockNotFound when nothing has been validated yet.
	GetValidatedHeight(ctx context.Context) (uint32, error)

	// GetAncestorBlockTimes returns up to count header timestamps walking
	// back from blockHash, the block's own timestamp first.
	GetAncestorBlockTimes(ctx context.Context, blockHash *chainhash.Hash, count int) ([]uint32, error)

	// CheckBlockIsInCurrentChain reports whether any of the given index IDs
	// lies on the active chain.
	CheckBlockIsInCurrentChain(ctx context.Context, blockIDs []uint32) (bool, error)

	// StoreBlockIndex inserts a block under its parent, deriving height and
	// cumulative chain work. meta supplies tx count, size and status; the
	// returned values are the assigned row ID and derived height.
	StoreBlockIndex(ctx context.Context, header *model.BlockHeader, meta *model.BlockIndexMeta) (uint32, uint32, error)

	// SetBlockStatus replaces the packed status of a stored block.
	SetBlockStatus(ctx context.Context, blockHash *chainhash.Hash, status model.BlockStatus) error

	// ResetResponseCache drops all cached query responses.
	ResetResponseCache()

	// Close releases the database pool.
	Close() error
}
