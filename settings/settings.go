// Package settings builds the runtime configuration for the block reader from
// gocore config. Every setting has a default, so NewSettings always returns a
// usable Settings for a mainnet node reading from the local data folder.
package settings

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg"

	"github.com/bsv-blockchain/go-blockreader/errors"
)

// GetChainParams resolves a network name to its chain parameters.
func GetChainParams(network string) (*chaincfg.Params, error) {
	switch network {
	case "mainnet", "":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	case "simnet":
		return &chaincfg.SimNetParams, nil
	default:
		return nil, errors.NewChainParamsError("unknown network %q", network)
	}
}

func NewSettings() *Settings {
	params, err := GetChainParams(getString("network", "mainnet"))
	if err != nil {
		panic(err)
	}

	return &Settings{
		ClientName:     getString("clientName", "defaultClientName"),
		DataFolder:     getString("dataFolder", "data"),
		LogLevel:       getString("logLevel", "INFO"),
		Network:        getString("network", "mainnet"),
		ChainCfgParams: params,
		BlockIndex: BlockIndexSettings{
			StoreURL:             getURL("blockindex_store", "sqlitememory:///blockindex"),
			CacheEnabled:         getBool("blockindex_store_cache_enabled", true),
			CacheTTL:             getDuration("blockindex_store_cache_ttl", 10*time.Second),
			PostgresMaxIdleConns: getInt("blockindex_postgresMaxIdleConns", 10),
			PostgresMaxOpenConns: getInt("blockindex_postgresMaxOpenConns", 80),
		},
		BlockStore: BlockStoreSettings{
			StoreURL: getURL("block_store", "file://./data/blockstore"),
		},
		UndoStore: UndoStoreSettings{
			StoreURL: getURL("undo_store", "file://./data/undostore"),
		},
		Kernel: KernelSettings{
			//nolint:gosec // G115: threshold is a small positive count
			IBDBehindThreshold: uint32(getInt("ibd_behind_threshold", 144)),
		},
	}
}
