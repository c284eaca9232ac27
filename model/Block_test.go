package model

import (
	"bytes"
	"encoding/hex"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsv-blockchain/go-blockreader/errors"
)

func TestNewBlockFromBytes(t *testing.T) {
	raw, err := hex.DecodeString(block1)
	require.NoError(t, err)

	block, err := NewBlockFromBytes(raw, 1)
	require.NoError(t, err)

	assert.Equal(t, uint32(1), block.Height())
	assert.Equal(t, uint64(1), block.TransactionCount())
	assert.Equal(t, uint64(len(raw)), block.SizeInBytes())
	assert.Equal(t, raw, block.Bytes())
	assert.Equal(t, chaincfg.RegressionNetParams.GenesisHash, block.Header.HashPrevBlock)
	assert.Equal(t, block.Header.Hash(), block.Hash())
}

func TestNewBlockFromBytesErrors(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		block, err := NewBlockFromBytes(make([]byte, 79), 1)
		require.Error(t, err)
		require.Nil(t, block)
		require.True(t, errors.Is(err, errors.ErrInvalidLength))
	})

	t.Run("header only", func(t *testing.T) {
		raw, err := hex.DecodeString(block1Header)
		require.NoError(t, err)

		block, err := NewBlockFromBytes(raw, 1)
		require.Error(t, err)
		require.Nil(t, block)
		require.True(t, errors.Is(err, errors.ErrProcessing))
	})

	t.Run("corrupt payload", func(t *testing.T) {
		raw, err := hex.DecodeString(block1)
		require.NoError(t, err)

		// truncate the coinbase transaction
		block, err := NewBlockFromBytes(raw[:len(raw)-10], 1)
		require.Error(t, err)
		require.Nil(t, block)
		require.True(t, errors.Is(err, errors.ErrProcessing))
	})
}

func TestBlockTransaction(t *testing.T) {
	raw, err := hex.DecodeString(block1)
	require.NoError(t, err)

	block, err := NewBlockFromBytes(raw, 1)
	require.NoError(t, err)

	tx, err := block.Transaction(0)
	require.NoError(t, err)

	assert.Equal(t, 0, tx.Index())
	assert.Same(t, block, tx.Block())
	assert.True(t, tx.IsCoinbase())
	assert.Equal(t, uint64(1), tx.InputCount())
	assert.Equal(t, uint64(1), tx.OutputCount())

	out, err := tx.Output(0)
	require.NoError(t, err)
	assert.Equal(t, int64(5_000_000_000), out.Value())
	assert.Equal(t, txscript.PubKeyTy, out.ScriptPubkey().Class())

	in, err := tx.Input(0)
	require.NoError(t, err)
	assert.True(t, in.OutPoint().IsNull())
	assert.True(t, in.Witness().IsNull())
}

func TestBlockTransactionOutOfBounds(t *testing.T) {
	raw, err := hex.DecodeString(block1)
	require.NoError(t, err)

	block, err := NewBlockFromBytes(raw, 1)
	require.NoError(t, err)

	for _, i := range []int{-1, 1, 100} {
		tx, err := block.Transaction(i)
		require.Error(t, err)
		require.Nil(t, tx)
		require.True(t, errors.Is(err, errors.ErrOutOfBounds))
	}
}

func TestBlockTransactions(t *testing.T) {
	raw := buildSpendBlock(t)

	block, err := NewBlockFromBytes(raw, 2)
	require.NoError(t, err)

	txs := block.Transactions()
	require.Len(t, txs, 2)

	assert.True(t, txs[0].IsCoinbase())
	assert.False(t, txs[1].IsCoinbase())

	for i, tx := range txs {
		assert.Equal(t, i, tx.Index())
		assert.Same(t, block, tx.Block())
	}
}

func TestBlockSpendTransactionShape(t *testing.T) {
	raw := buildSpendBlock(t)

	block, err := NewBlockFromBytes(raw, 2)
	require.NoError(t, err)
	require.Equal(t, uint64(2), block.TransactionCount())

	tx, err := block.Transaction(1)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), tx.InputCount())
	assert.Equal(t, uint64(3), tx.OutputCount())
	assert.Equal(t, int64(149_000_000), tx.ValueOut())

	out, err := tx.Output(0)
	require.NoError(t, err)
	assert.Equal(t, int64(100_000_000), out.Value())

	_, err = tx.Output(3)
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrOutOfBounds))

	_, err = tx.Input(2)
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrOutOfBounds))
}

func TestBlockTotalFees(t *testing.T) {
	raw := buildSpendBlock(t)

	block, err := NewBlockFromBytes(raw, 2)
	require.NoError(t, err)

	t.Run("fees from undo coins", func(t *testing.T) {
		undo := NewBlockUndo(2, NewTxUndo(
			NewCoin(100_000_000, []byte{txscript.OP_TRUE}, 1, true),
			NewCoin(50_000_000, []byte{txscript.OP_TRUE}, 1, false),
		))

		fees, err := block.TotalFees(undo)
		require.NoError(t, err)
		assert.Equal(t, uint64(1_000_000), fees)
	})

	t.Run("record count mismatch", func(t *testing.T) {
		undo := NewBlockUndo(2)

		_, err := block.TotalFees(undo)
		require.Error(t, err)
		require.True(t, errors.Is(err, errors.ErrDataIntegrity))
	})

	t.Run("coin count mismatch", func(t *testing.T) {
		undo := NewBlockUndo(2, NewTxUndo(
			NewCoin(150_000_000, []byte{txscript.OP_TRUE}, 1, false),
		))

		_, err := block.TotalFees(undo)
		require.Error(t, err)
		require.True(t, errors.Is(err, errors.ErrDataIntegrity))
	})

	t.Run("outputs exceed inputs", func(t *testing.T) {
		undo := NewBlockUndo(2, NewTxUndo(
			NewCoin(10_000_000, []byte{txscript.OP_TRUE}, 1, false),
			NewCoin(10_000_000, []byte{txscript.OP_TRUE}, 1, false),
		))

		_, err := block.TotalFees(undo)
		require.Error(t, err)
		require.True(t, errors.Is(err, errors.ErrDataIntegrity))
	})

	t.Run("coinbase only block pays no fees", func(t *testing.T) {
		rawCoinbaseOnly, err := hex.DecodeString(block1)
		require.NoError(t, err)

		coinbaseOnly, err := NewBlockFromBytes(rawCoinbaseOnly, 1)
		require.NoError(t, err)

		fees, err := coinbaseOnly.TotalFees(NewBlockUndo(1))
		require.NoError(t, err)
		assert.Equal(t, uint64(0), fees)
	})
}

// buildSpendBlock serializes a two transaction block: a coinbase and a
// 2-in/3-out spend paying 100M, 30M and 19M satoshis, so a 150M satoshi
// input set leaves a 1M satoshi fee.
func buildSpendBlock(t *testing.T) []byte {
	t.Helper()

	coinbase := wire.NewMsgTx(2)
	coinbase.AddTxIn(&wire.TxIn{
		PreviousOutPoint: *wire.NewOutPoint(&chainhash.Hash{}, wire.MaxPrevOutIndex),
		SignatureScript:  []byte{0x52, 0x01, 0x01},
		Sequence:         wire.MaxTxInSequenceNum,
	})
	coinbase.AddTxOut(wire.NewTxOut(5_000_000_000, []byte{txscript.OP_TRUE}))

	prev1 := chainhash.HashH([]byte("spend-prev-1"))
	prev2 := chainhash.HashH([]byte("spend-prev-2"))

	spend := wire.NewMsgTx(2)
	spend.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&prev1, 0), []byte{txscript.OP_TRUE}, nil))
	spend.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&prev2, 1), []byte{txscript.OP_TRUE}, nil))
	spend.AddTxOut(wire.NewTxOut(100_000_000, []byte{txscript.OP_TRUE}))
	spend.AddTxOut(wire.NewTxOut(30_000_000, []byte{txscript.OP_TRUE}))
	spend.AddTxOut(wire.NewTxOut(19_000_000, []byte{txscript.OP_TRUE}))

	msgBlock := wire.MsgBlock{
		Header: wire.BlockHeader{
			Version:    2,
			PrevBlock:  *chaincfg.RegressionNetParams.GenesisHash,
			MerkleRoot: chainhash.HashH([]byte("merkle")),
			Timestamp:  time.Unix(1729448331, 0),
			Bits:       0x207fffff,
			Nonce:      1,
		},
		Transactions: []*wire.MsgTx{coinbase, spend},
	}

	var buf bytes.Buffer
	require.NoError(t, msgBlock.Serialize(&buf))

	return buf.Bytes()
}
