package kernel

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/bsv-blockchain/go-blockreader/errors"
	"github.com/bsv-blockchain/go-blockreader/model"
	"github.com/bsv-blockchain/go-blockreader/pkg/fileformat"
	"github.com/bsv-blockchain/go-blockreader/settings"
	"github.com/bsv-blockchain/go-blockreader/stores/blob"
	"github.com/bsv-blockchain/go-blockreader/stores/blockindex"
	blockindexsql "github.com/bsv-blockchain/go-blockreader/stores/blockindex/sql"
	"github.com/bsv-blockchain/go-blockreader/ulogger"
	"github.com/bsv-blockchain/go-blockreader/util"
	"github.com/bsv-blockchain/go-blockreader/util/health"
)

// medianTimeBlocks is how many blocks back the median time past looks,
// the block itself included.
const medianTimeBlocks = 11

// StoreEngine implements Engine over a block index store and two blob stores,
// one for raw block payloads and one for undo data. It is the engine used
// against a node's data directory; a custom Engine can replace it wholesale.
type StoreEngine struct {
	logger     ulogger.Logger
	settings   *settings.Settings
	indexStore blockindex.Store
	blockStore blob.Store
	undoStore  blob.Store
}

// NewStoreEngine wires an engine from already opened stores. The engine takes
// ownership: Close closes all three.
func NewStoreEngine(logger ulogger.Logger, tSettings *settings.Settings, indexStore blockindex.Store, blockStore, undoStore blob.Store) *StoreEngine {
	return &StoreEngine{
		logger:     logger.New("kernel"),
		settings:   tSettings,
		indexStore: indexStore,
		blockStore: blockStore,
		undoStore:  undoStore,
	}
}

// NewStoreEngineFromSettings opens the three stores named by the settings and
// wires an engine over them. Nothing is left open on failure.
func NewStoreEngineFromSettings(logger ulogger.Logger, tSettings *settings.Settings) (*StoreEngine, error) {
	if tSettings.ChainCfgParams == nil {
		return nil, errors.NewChainParamsError("unknown network %q", tSettings.Network)
	}

	indexStore, err := blockindexsql.New(logger, tSettings.BlockIndex.StoreURL, tSettings)
	if err != nil {
		return nil, errors.NewStorageError("failed to open block index store", err)
	}

	blockStore, err := blob.NewStore(logger, tSettings.BlockStore.StoreURL)
	if err != nil {
		_ = indexStore.Close()

		return nil, errors.NewStorageError("failed to open block store", err)
	}

	undoStore, err := blob.NewStore(logger, tSettings.UndoStore.StoreURL)
	if err != nil {
		_ = indexStore.Close()
		_ = blockStore.Close(context.Background())

		return nil, errors.NewStorageError("failed to open undo store", err)
	}

	logger.Infof("[kernel] opened stores: index=%s block=%s undo=%s",
		tSettings.BlockIndex.StoreURL.Scheme, tSettings.BlockStore.StoreURL.Scheme, tSettings.UndoStore.StoreURL.Scheme)

	return NewStoreEngine(logger, tSettings, indexStore, blockStore, undoStore), nil
}

func (e *StoreEngine) Health(ctx context.Context, checkLiveness bool) (int, string, error) {
	checks := []health.Check{
		{Name: "BlockIndexStore", Check: e.indexStore.Health},
		{Name: "BlockStore", Check: e.blockStore.Health},
		{Name: "UndoStore", Check: e.undoStore.Health},
	}

	return health.CheckAll(ctx, checkLiveness, checks)
}

func (e *StoreEngine) BestValidatedEntry(ctx context.Context) (*model.BlockHeader, *model.BlockIndexMeta, error) {
	header, meta, err := e.indexStore.GetBestBlockIndex(ctx)

	return e.entryWithMedianTime(ctx, header, meta, err)
}

func (e *StoreEngine) EntryByHeight(ctx context.Context, height uint32) (*model.BlockHeader, *model.BlockIndexMeta, error) {
	header, meta, err := e.indexStore.GetBlockIndexByHeight(ctx, height)

	return e.entryWithMedianTime(ctx, header, meta, err)
}

func (e *StoreEngine) EntryByHash(ctx context.Context, blockHash *chainhash.Hash) (*model.BlockHeader, *model.BlockIndexMeta, error) {
	header, meta, err := e.indexStore.GetBlockIndexByHash(ctx, blockHash)

	return e.entryWithMedianTime(ctx, header, meta, err)
}

func (e *StoreEngine) PreviousEntry(ctx context.Context, header *model.BlockHeader) (*model.BlockHeader, *model.BlockIndexMeta, error) {
	if header.HashPrevBlock == nil || header.HashPrevBlock.IsEqual(&chainhash.Hash{}) {
		return nil, nil, errors.NewBlockNotFoundError("block %s is the genesis block, it has no previous block", header.Hash())
	}

	prevHeader, prevMeta, err := e.indexStore.GetBlockIndexByHash(ctx, header.HashPrevBlock)

	return e.entryWithMedianTime(ctx, prevHeader, prevMeta, err)
}

// entryWithMedianTime completes an index lookup by stamping the median time
// past onto a copy of the metadata. The copy keeps cached rows immutable.
func (e *StoreEngine) entryWithMedianTime(ctx context.Context, header *model.BlockHeader, meta *model.BlockIndexMeta, err error) (*model.BlockHeader, *model.BlockIndexMeta, error) {
	if err != nil {
		return nil, nil, err
	}

	mtp, err := e.MedianTimePast(ctx, header.Hash())
	if err != nil {
		return nil, nil, err
	}

	metaCopy := *meta
	metaCopy.MedianTime = mtp

	return header, &metaCopy, nil
}

func (e *StoreEngine) ReadBlockData(ctx context.Context, blockHash *chainhash.Hash) ([]byte, error) {
	data, err := e.blockStore.Get(ctx, blockHash[:], fileformat.FileTypeBlock)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.NewBlockNotFoundError("block data for %s not stored", blockHash, err)
		}

		return nil, errors.NewReadFailedError("failed to read block data for %s", blockHash, err)
	}

	return data, nil
}

func (e *StoreEngine) ReadUndoData(ctx context.Context, blockHash *chainhash.Hash) ([]byte, error) {
	data, err := e.undoStore.Get(ctx, blockHash[:], fileformat.FileTypeUndo)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.NewBlockNotFoundError("undo data for %s not stored", blockHash, err)
		}

		return nil, errors.NewReadFailedError("failed to read undo data for %s", blockHash, err)
	}

	return data, nil
}

func (e *StoreEngine) HeaderHeight(ctx context.Context) (uint32, error) {
	return e.indexStore.GetHeaderHeight(ctx)
}

func (e *StoreEngine) ValidatedHeight(ctx context.Context) (uint32, error) {
	return e.indexStore.GetValidatedHeight(ctx)
}

func (e *StoreEngine) MedianTimePast(ctx context.Context, blockHash *chainhash.Hash) (uint32, error) {
	times, err := e.indexStore.GetAncestorBlockTimes(ctx, blockHash, medianTimeBlocks)
	if err != nil {
		return 0, err
	}

	timestamps := make([]int64, len(times))
	for i, ts := range times {
		timestamps[i] = int64(ts)
	}

	median, err := util.CalcPastMedianTime(timestamps)
	if err != nil {
		return 0, err
	}

	return uint32(median), nil //nolint:gosec // G115: block timestamps fit in uint32
}

func (e *StoreEngine) IsOnActiveChain(ctx context.Context, blockID uint32) (bool, error) {
	return e.indexStore.CheckBlockIsInCurrentChain(ctx, []uint32{blockID})
}

// Refresh drops cached index responses and re-reads the tip, so the engine is
// known reachable and subsequent lookups see the current chain state. An
// empty index is not an error here.
func (e *StoreEngine) Refresh(ctx context.Context) error {
	e.indexStore.ResetResponseCache()

	if _, _, err := e.indexStore.GetBestBlockIndex(ctx); err != nil && !errors.Is(err, errors.ErrBlockNotFound) {
		return errors.NewProcessingError("failed to refresh block index view", err)
	}

	return nil
}

func (e *StoreEngine) Close(ctx context.Context) error {
	var firstErr error

	if err := e.indexStore.Close(); err != nil {
		firstErr = err
	}

	if err := e.blockStore.Close(ctx); err != nil && firstErr == nil {
		firstErr = err
	}

	if err := e.undoStore.Close(ctx); err != nil && firstErr == nil {
		firstErr = err
	}

	return firstErr
}
