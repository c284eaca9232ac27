// Package test holds shared helpers for seeding readable chains in tests:
// base settings wired to in-memory stores and builders that write consistent
// block, undo and index rows across the three stores.
package test

import (
	"bytes"
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"

	"github.com/bsv-blockchain/go-blockreader/model"
	"github.com/bsv-blockchain/go-blockreader/pkg/fileformat"
	"github.com/bsv-blockchain/go-blockreader/settings"
	"github.com/bsv-blockchain/go-blockreader/stores/blob"
	"github.com/bsv-blockchain/go-blockreader/stores/blockindex"
)

const blockInterval = 600

// CreateBaseTestSettings returns settings wired for tests: regtest chain
// parameters, an in-memory sqlite block index and in-memory blob stores.
func CreateBaseTestSettings(t *testing.T) *settings.Settings {
	t.Helper()

	tSettings := settings.NewSettings()
	tSettings.Network = "regtest"
	tSettings.ChainCfgParams = &chaincfg.RegressionNetParams
	tSettings.DataFolder = t.TempDir()
	tSettings.BlockIndex.StoreURL = mustParseURL(t, "sqlitememory:///blockindex")
	tSettings.BlockIndex.CacheEnabled = true
	tSettings.BlockIndex.CacheTTL = 10 * time.Second
	tSettings.BlockStore.StoreURL = mustParseURL(t, "memory:///")
	tSettings.UndoStore.StoreURL = mustParseURL(t, "memory:///")

	return tSettings
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()

	u, err := url.Parse(raw)
	require.NoError(t, err)

	return u
}

// StatusValidated is the packed status of a fully validated block with both
// payloads stored.
func StatusValidated() model.BlockStatus {
	return model.NewBlockStatus(model.BlockValidityScripts,
		model.StatusHasBlockData|model.StatusHasUndoData)
}

// BuildBlock constructs a serializable block on top of parent. A coinbase
// paying 50 BTC is generated; extraTxs follow it. The merkle root is
// computed over the real transactions, proof of work is not.
func BuildBlock(t *testing.T, parentHash *chainhash.Hash, height uint32, timestamp time.Time, extraTxs ...*wire.MsgTx) *wire.MsgBlock {
	t.Helper()

	coinbase := wire.NewMsgTx(wire.TxVersion)
	coinbase.AddTxIn(&wire.TxIn{
		PreviousOutPoint: *wire.NewOutPoint(&chainhash.Hash{}, wire.MaxPrevOutIndex),
		// unique per height so sibling coinbases never collide
		SignatureScript: []byte{0x04, byte(height), byte(height >> 8), byte(height >> 16), byte(height >> 24)},
		Sequence:        wire.MaxTxInSequenceNum,
	})
	coinbase.AddTxOut(&wire.TxOut{
		Value:    50 * btcutil.SatoshiPerBitcoin,
		PkScript: []byte{0x51}, // OP_TRUE
	})

	txs := append([]*wire.MsgTx{coinbase}, extraTxs...)

	utilTxs := make([]*btcutil.Tx, len(txs))
	for i, tx := range txs {
		utilTxs[i] = btcutil.NewTx(tx)
	}

	merkles := blockchain.BuildMerkleTreeStore(utilTxs, false)
	merkleRoot := merkles[len(merkles)-1]

	block := wire.NewMsgBlock(wire.NewBlockHeader(
		0x20000000,
		parentHash,
		merkleRoot,
		chaincfg.RegressionNetParams.PowLimitBits,
		height,
	))
	block.Header.Timestamp = timestamp

	for _, tx := range txs {
		require.NoError(t, block.AddTransaction(tx))
	}

	return block
}

// ChainSeeder writes consistent chains across the index, block and undo
// stores, the way the data directory writer would.
type ChainSeeder struct {
	t          *testing.T
	indexStore blockindex.Store
	blockStore blob.Store
	undoStore  blob.Store
	params     *chaincfg.Params
}

func NewChainSeeder(t *testing.T, indexStore blockindex.Store, blockStore, undoStore blob.Store, params *chaincfg.Params) *ChainSeeder {
	t.Helper()

	return &ChainSeeder{
		t:          t,
		indexStore: indexStore,
		blockStore: blockStore,
		undoStore:  undoStore,
		params:     params,
	}
}

// SeedGenesis stores the network genesis block. Genesis has block data but
// never undo data.
func (cs *ChainSeeder) SeedGenesis(ctx context.Context) *chainhash.Hash {
	cs.t.Helper()

	genesis := cs.params.GenesisBlock
	raw := serializeBlock(cs.t, genesis)

	header := model.NewBlockHeaderFromWire(&genesis.Header)
	hash := header.Hash()

	require.NoError(cs.t, cs.blockStore.Set(ctx, hash[:], fileformat.FileTypeBlock, raw))

	status := model.NewBlockStatus(model.BlockValidityScripts, model.StatusHasBlockData)

	_, height, err := cs.indexStore.StoreBlockIndex(ctx, header, &model.BlockIndexMeta{
		TxCount:     uint64(len(genesis.Transactions)),
		SizeInBytes: uint64(len(raw)),
		Status:      status,
	})
	require.NoError(cs.t, err)
	require.Equal(cs.t, uint32(0), height)

	return hash
}

// SeedBlock stores one built block with its undo record and index row.
// undo may be nil for blocks whose undo payload is absent; status should
// drop StatusHasUndoData in that case.
func (cs *ChainSeeder) SeedBlock(ctx context.Context, block *wire.MsgBlock, undo *model.BlockUndo, status model.BlockStatus) *chainhash.Hash {
	cs.t.Helper()

	raw := serializeBlock(cs.t, block)

	header := model.NewBlockHeaderFromWire(&block.Header)
	hash := header.Hash()

	if status.HasBlockData() {
		require.NoError(cs.t, cs.blockStore.Set(ctx, hash[:], fileformat.FileTypeBlock, raw))
	}

	if undo != nil {
		require.NoError(cs.t, cs.undoStore.Set(ctx, hash[:], fileformat.FileTypeUndo, undo.Bytes()))
	}

	_, _, err := cs.indexStore.StoreBlockIndex(ctx, header, &model.BlockIndexMeta{
		TxCount:     uint64(len(block.Transactions)),
		SizeInBytes: uint64(len(raw)),
		Status:      status,
	})
	require.NoError(cs.t, err)

	return hash
}

// SeedChain seeds genesis plus n coinbase-only blocks, all fully validated.
// Returns the block hashes indexed by height.
func (cs *ChainSeeder) SeedChain(ctx context.Context, n int) []*chainhash.Hash {
	cs.t.Helper()

	hashes := make([]*chainhash.Hash, 0, n+1)
	hashes = append(hashes, cs.SeedGenesis(ctx))

	genesisTime := cs.params.GenesisBlock.Header.Timestamp

	for height := uint32(1); height <= uint32(n); height++ {
		block := BuildBlock(cs.t, hashes[height-1], height, genesisTime.Add(time.Duration(height)*blockInterval*time.Second))

		// a coinbase-only block spends nothing, its undo holds no records
		hashes = append(hashes, cs.SeedBlock(ctx, block, model.NewBlockUndo(height), StatusValidated()))
	}

	return hashes
}

func serializeBlock(t *testing.T, block *wire.MsgBlock) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, block.Serialize(&buf))

	return buf.Bytes()
}
