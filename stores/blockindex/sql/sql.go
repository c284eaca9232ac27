// Package sql implements the blockindex.Store interface over postgres,
// sqlite or an in-memory sqlite database. One file per store method; shared
// row scanning and the active-chain predicate live here.
//
// The active chain is derived, never stored: its tip is the validated block
// with the most cumulative chain work, and membership is resolved by walking
// parent links from that tip. Query responses are kept in a TTL cache that is
// invalidated by writes and by ResetResponseCache.
package sql

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	_ "github.com/lib/pq"
	"github.com/ordishs/gocore"
	_ "modernc.org/sqlite"

	"github.com/bsv-blockchain/go-blockreader/errors"
	"github.com/bsv-blockchain/go-blockreader/model"
	"github.com/bsv-blockchain/go-blockreader/settings"
	"github.com/bsv-blockchain/go-blockreader/ulogger"
	"github.com/bsv-blockchain/go-blockreader/util"
	"github.com/bsv-blockchain/go-blockreader/util/usql"
)

var stat = gocore.NewStat("blockindex")

// bestValidatedWhere selects blocks eligible to anchor the active chain:
// fully script-validated and not failed.
var bestValidatedWhere = fmt.Sprintf(`(b.status & %d) >= %d AND (b.status & %d) = 0`,
	model.StatusValidityMask, model.BlockValidityScripts, model.StatusFailed)

// indexFields is the column list every lookup scans, in scanIndexRow order.
const indexFields = `
	 b.id
	,b.version
	,b.block_time
	,b.n_bits
	,b.nonce
	,b.previous_hash
	,b.merkle_root
	,b.height
	,b.chain_work
	,b.tx_count
	,b.size_in_bytes
	,b.status
`

type SQL struct {
	db            *usql.DB
	engine        util.SQLEngine
	logger        ulogger.Logger
	chainParams   *chaincfg.Params
	responseCache *ResponseCache
	cacheEnabled  bool
	cacheTTL      time.Duration
}

// New opens (or creates) the block index database named by storeURL and
// returns a ready store. The schema is created when missing, so pointing at
// sqlitememory:/// yields a fresh empty index.
func New(logger ulogger.Logger, storeURL *url.URL, tSettings *settings.Settings) (*SQL, error) {
	logger = logger.New("bindexsql")

	db, err := util.InitSQLDB(logger, storeURL, tSettings)
	if err != nil {
		return nil, errors.NewStorageError("failed to init sql db", err)
	}

	engine := util.SQLEngine(storeURL.Scheme)

	switch engine {
	case util.Postgres:
		if err = createPostgresSchema(db); err != nil {
			return nil, err
		}
	case util.Sqlite, util.SqliteMemory:
		if err = createSqliteSchema(db); err != nil {
			return nil, err
		}
	default:
		return nil, errors.NewConfigurationError("unknown database engine: %s", storeURL.Scheme)
	}

	return &SQL{
		db:            db,
		engine:        engine,
		logger:        logger,
		chainParams:   tSettings.ChainCfgParams,
		responseCache: NewResponseCache(),
		cacheEnabled:  tSettings.BlockIndex.CacheEnabled,
		cacheTTL:      tSettings.BlockIndex.CacheTTL,
	}, nil
}

func (s *SQL) Health(ctx context.Context, _ bool) (int, string, error) {
	if err := s.db.PingContext(ctx); err != nil {
		return http.StatusServiceUnavailable, fmt.Sprintf("Block Index Store (%s): down", s.engine), err
	}

	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return http.StatusServiceUnavailable, fmt.Sprintf("Block Index Store (%s): query failed", s.engine), err
	}

	return http.StatusOK, fmt.Sprintf("Block Index Store (%s): ok", s.engine), nil
}

// ResetResponseCache drops every cached response. The reader calls this on
// Refresh so subsequent lookups see the current tip.
func (s *SQL) ResetResponseCache() {
	s.responseCache.DeleteAll()
}

func (s *SQL) Close() error {
	s.responseCache.Stop()

	return s.db.Close()
}

// scanIndexRow scans one indexFields row. sql.ErrNoRows passes through for
// the caller to map to its own not-found error.
func scanIndexRow(row *sql.Row) (*model.BlockHeader, *model.BlockIndexMeta, error) {
	var (
		header       model.BlockHeader
		meta         model.BlockIndexMeta
		previousHash []byte
		merkleRoot   []byte
		status       uint32
	)

	if err := row.Scan(
		&meta.ID,
		&header.Version,
		&header.Timestamp,
		&header.Bits,
		&header.Nonce,
		&previousHash,
		&merkleRoot,
		&meta.Height,
		&meta.ChainWork,
		&meta.TxCount,
		&meta.SizeInBytes,
		&status,
	); err != nil {
		return nil, nil, err
	}

	var err error

	header.HashPrevBlock, err = chainhash.NewHash(previousHash)
	if err != nil {
		return nil, nil, errors.NewStorageError("failed to convert previous_hash", err)
	}

	header.HashMerkleRoot, err = chainhash.NewHash(merkleRoot)
	if err != nil {
		return nil, nil, errors.NewStorageError("failed to convert merkle_root", err)
	}

	meta.Status = model.BlockStatus(status)

	return &header, &meta, nil
}

// cachedIndex is the value kept in the response cache for entry lookups.
type cachedIndex struct {
	header *model.BlockHeader
	meta   *model.BlockIndexMeta
}

func (s *SQL) getCachedIndex(op *CacheOperation) (*model.BlockHeader, *model.BlockIndexMeta, bool) {
	if !s.cacheEnabled {
		return nil, nil, false
	}

	cached := op.Get()
	if cached == nil || cached.Value() == nil {
		return nil, nil, false
	}

	ci, ok := cached.Value().(cachedIndex)
	if !ok {
		return nil, nil, false
	}

	return ci.header, ci.meta, true
}

func (s *SQL) setCachedIndex(op *CacheOperation, header *model.BlockHeader, meta *model.BlockIndexMeta) {
	if s.cacheEnabled {
		op.Set(cachedIndex{header: header, meta: meta}, s.cacheTTL)
	}
}

func createPostgresSchema(db *usql.DB) error {
	if _, err := db.Exec(`
	  CREATE TABLE IF NOT EXISTS blocks (
	    id              BIGSERIAL PRIMARY KEY
	    ,parent_id      BIGINT REFERENCES blocks(id)
	    ,version        INTEGER NOT NULL
	    ,hash           BYTEA NOT NULL
	    ,previous_hash  BYTEA NOT NULL
	    ,merkle_root    BYTEA NOT NULL
	    ,block_time     BIGINT NOT NULL
	    ,n_bits         BIGINT NOT NULL
	    ,nonce          BIGINT NOT NULL
	    ,height         BIGINT NOT NULL
	    ,chain_work     BYTEA NOT NULL
	    ,tx_count       BIGINT NOT NULL
	    ,size_in_bytes  BIGINT NOT NULL
	    ,status         BIGINT NOT NULL
	    ,inserted_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	  );
	`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create blocks table", err)
	}

	return createIndexes(db)
}

func createSqliteSchema(db *usql.DB) error {
	if _, err := db.Exec(`
	  CREATE TABLE IF NOT EXISTS blocks (
	    id              INTEGER PRIMARY KEY AUTOINCREMENT
	    ,parent_id      INTEGER REFERENCES blocks(id)
	    ,version        INTEGER NOT NULL
	    ,hash           BLOB NOT NULL
	    ,previous_hash  BLOB NOT NULL
	    ,merkle_root    BLOB NOT NULL
	    ,block_time     BIGINT NOT NULL
	    ,n_bits         BIGINT NOT NULL
	    ,nonce          BIGINT NOT NULL
	    ,height         BIGINT NOT NULL
	    ,chain_work     BLOB NOT NULL
	    ,tx_count       BIGINT NOT NULL
	    ,size_in_bytes  BIGINT NOT NULL
	    ,status         BIGINT NOT NULL
	    ,inserted_at    TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	  );
	`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create blocks table", err)
	}

	return createIndexes(db)
}

func createIndexes(db *usql.DB) error {
	if _, err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ux_blocks_hash ON blocks (hash);`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create ux_blocks_hash index", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_blocks_chain_work_id ON blocks (chain_work DESC, id ASC);`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create idx_blocks_chain_work_id index", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_blocks_height ON blocks (height);`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create idx_blocks_height index", err)
	}

	return nil
}
