// Package blockreader provides read-only access to a validated node's block
// data: the chain index, raw block payloads and undo (spent coin) data. All
// access goes through a Reader, which owns an opaque kernel.Engine; lookups
// return immutable BlockIndex snapshots that can navigate the chain, fetch
// decoded blocks and drive iterators.
//
// The reader never validates and never writes. It is a safety layer: every
// failure mode is a typed error, never a panic, and a closed reader refuses
// further work instead of touching freed resources.
package blockreader

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/bsv-blockchain/go-blockreader/errors"
	"github.com/bsv-blockchain/go-blockreader/kernel"
	"github.com/bsv-blockchain/go-blockreader/model"
	"github.com/bsv-blockchain/go-blockreader/settings"
	"github.com/bsv-blockchain/go-blockreader/ulogger"
)

// Reader is the owned entry point. It is safe for concurrent use; Close
// releases the engine exactly once and every later call returns ErrClosed.
type Reader struct {
	logger   ulogger.Logger
	settings *settings.Settings
	engine   kernel.Engine
	closed   atomic.Bool
}

// New builds a reader over the store-backed engine described by the settings
// (block index database, block and undo payload stores). The engine view is
// refreshed before the reader is returned; on any failure nothing is left
// open.
func New(ctx context.Context, logger ulogger.Logger, tSettings *settings.Settings) (*Reader, error) {
	if tSettings == nil {
		return nil, errors.NewConfigurationError("settings are nil")
	}

	if logger == nil {
		logger = ulogger.New("blockreader")
	}

	engine, err := kernel.NewStoreEngineFromSettings(logger, tSettings)
	if err != nil {
		return nil, err
	}

	if err = engine.Refresh(ctx); err != nil {
		_ = engine.Close(ctx)

		return nil, err
	}

	logger.Infof("[Reader] ready: network=%s", tSettings.Network)

	return &Reader{
		logger:   logger,
		settings: tSettings,
		engine:   engine,
	}, nil
}

// NewWithEngine builds a reader over a caller-supplied engine. The reader
// takes ownership of it: Close closes the engine.
func NewWithEngine(logger ulogger.Logger, tSettings *settings.Settings, engine kernel.Engine) (*Reader, error) {
	if tSettings == nil {
		return nil, errors.NewConfigurationError("settings are nil")
	}

	if engine == nil {
		return nil, errors.NewInvalidArgumentError("engine is nil")
	}

	if logger == nil {
		logger = ulogger.New("blockreader")
	}

	return &Reader{
		logger:   logger,
		settings: tSettings,
		engine:   engine,
	}, nil
}

func (r *Reader) ensureOpen() error {
	if r.closed.Load() {
		return errors.NewClosedError("reader is closed")
	}

	return nil
}

// Refresh re-synchronizes the reader's view of the best chain. Entries
// obtained before a refresh stay valid as snapshots, but their Next and
// Previous calls will see the refreshed chain.
func (r *Reader) Refresh(ctx context.Context) error {
	if err := r.ensureOpen(); err != nil {
		return err
	}

	r.logger.Debugf("[Reader] refreshing chain view")

	return r.engine.Refresh(ctx)
}

// BestValidatedIndex returns the tip of the active chain. ErrBlockNotFound
// when the engine has no validated blocks yet.
func (r *Reader) BestValidatedIndex(ctx context.Context) (*BlockIndex, error) {
	if err := r.ensureOpen(); err != nil {
		return nil, err
	}

	header, meta, err := r.engine.BestValidatedEntry(ctx)
	if err != nil {
		return nil, err
	}

	return newBlockIndex(r, header, meta), nil
}

// IndexAtHeight resolves a height on the active chain, bounded by the
// validated tip.
func (r *Reader) IndexAtHeight(ctx context.Context, height uint32) (*BlockIndex, error) {
	if err := r.ensureOpen(); err != nil {
		return nil, err
	}

	header, meta, err := r.engine.EntryByHeight(ctx, height)
	if err != nil {
		return nil, err
	}

	return newBlockIndex(r, header, meta), nil
}

// IndexAtHash resolves a block hash on any branch, active or not.
func (r *Reader) IndexAtHash(ctx context.Context, blockHash *chainhash.Hash) (*BlockIndex, error) {
	if err := r.ensureOpen(); err != nil {
		return nil, err
	}

	if blockHash == nil {
		return nil, errors.NewInvalidArgumentError("block hash is nil")
	}

	header, meta, err := r.engine.EntryByHash(ctx, blockHash)
	if err != nil {
		return nil, err
	}

	return newBlockIndex(r, header, meta), nil
}

// IBDStatus reports whether the node is still in initial block download:
// no headers at all, validation missing or lagging beyond the configured
// threshold, or synced.
func (r *Reader) IBDStatus(ctx context.Context) (IBDStatus, error) {
	if err := r.ensureOpen(); err != nil {
		return IBDStatusNoData, err
	}

	headerHeight, err := r.engine.HeaderHeight(ctx)
	if err != nil {
		if errors.Is(err, errors.ErrBlockNotFound) {
			return IBDStatusNoData, nil
		}

		return IBDStatusNoData, err
	}

	validatedHeight, err := r.engine.ValidatedHeight(ctx)
	if err != nil {
		if errors.Is(err, errors.ErrBlockNotFound) {
			return IBDStatusInIBD, nil
		}

		return IBDStatusNoData, err
	}

	if headerHeight > validatedHeight && headerHeight-validatedHeight > r.settings.Kernel.IBDBehindThreshold {
		return IBDStatusInIBD, nil
	}

	return IBDStatusSynced, nil
}

// HeaderHeight is the height of the most-work header the engine knows,
// validated or not.
func (r *Reader) HeaderHeight(ctx context.Context) (uint32, error) {
	if err := r.ensureOpen(); err != nil {
		return 0, err
	}

	return r.engine.HeaderHeight(ctx)
}

// ValidatedHeight is the height of the active chain tip.
func (r *Reader) ValidatedHeight(ctx context.Context) (uint32, error) {
	if err := r.ensureOpen(); err != nil {
		return 0, err
	}

	return r.engine.ValidatedHeight(ctx)
}

// BlockByHeight fetches the decoded block at a height on the active chain.
func (r *Reader) BlockByHeight(ctx context.Context, height uint32) (*model.Block, error) {
	index, err := r.IndexAtHeight(ctx, height)
	if err != nil {
		return nil, err
	}

	return index.Block(ctx)
}

// BlockByHash fetches the decoded block with the given hash, on any branch.
func (r *Reader) BlockByHash(ctx context.Context, blockHash *chainhash.Hash) (*model.Block, error) {
	index, err := r.IndexAtHash(ctx, blockHash)
	if err != nil {
		return nil, err
	}

	return index.Block(ctx)
}

// Health reports aggregated engine health.
func (r *Reader) Health(ctx context.Context, checkLiveness bool) (int, string, error) {
	if r.closed.Load() {
		return http.StatusServiceUnavailable, "reader is closed", errors.NewClosedError("reader is closed")
	}

	return r.engine.Health(ctx, checkLiveness)
}

// Close releases the engine exactly once. Calling Close again is a no-op;
// every other operation on a closed reader returns ErrClosed.
func (r *Reader) Close(ctx context.Context) error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}

	r.logger.Infof("[Reader] closing")

	return r.engine.Close(ctx)
}
