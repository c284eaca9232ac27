package settings

import (
	"net/url"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
)

// BlockIndexSettings configures the SQL backed block index store.
type BlockIndexSettings struct {
	StoreURL             *url.URL
	CacheEnabled         bool
	CacheTTL             time.Duration
	PostgresMaxIdleConns int
	PostgresMaxOpenConns int
}

// BlockStoreSettings configures the blob store holding raw block data.
type BlockStoreSettings struct {
	StoreURL *url.URL
}

// UndoStoreSettings configures the blob store holding undo (spent coin) data.
type UndoStoreSettings struct {
	StoreURL *url.URL
}

// KernelSettings configures engine behaviour that is not a store concern.
type KernelSettings struct {
	// IBDBehindThreshold is the number of blocks the validated tip may lag
	// the header tip before the node is reported as in initial block
	// download.
	IBDBehindThreshold uint32
}

type Settings struct {
	ClientName     string
	DataFolder     string
	LogLevel       string
	Network        string
	ChainCfgParams *chaincfg.Params

	BlockIndex BlockIndexSettings
	BlockStore BlockStoreSettings
	UndoStore  UndoStoreSettings
	Kernel     KernelSettings
}
