package model

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsv-blockchain/go-blockreader/errors"
)

// coinbaseTx1 is the single transaction of block1, starting after the 80
// byte header and the transaction count varint.
var coinbaseTx1 = block1[162:]

func TestNewTransactionFromBytes(t *testing.T) {
	raw, err := hex.DecodeString(coinbaseTx1)
	require.NoError(t, err)

	tx, err := NewTransactionFromBytes(raw)
	require.NoError(t, err)

	assert.Equal(t, int32(2), tx.Version())
	assert.Equal(t, uint32(0), tx.LockTime())
	assert.Equal(t, uint64(1), tx.InputCount())
	assert.Equal(t, uint64(1), tx.OutputCount())
	assert.Equal(t, int64(5_000_000_000), tx.ValueOut())
	assert.Equal(t, uint64(len(raw)), tx.TotalSize())
	assert.Equal(t, raw, tx.Bytes())
	assert.True(t, tx.IsCoinbase())
	assert.False(t, tx.IsNull())
	assert.False(t, tx.HasWitness())
}

func TestNewTransactionFromBytesInvalid(t *testing.T) {
	tx, err := NewTransactionFromBytes([]byte{0x01, 0x02})
	require.Error(t, err)
	require.Nil(t, tx)
	require.True(t, errors.Is(err, errors.ErrProcessing))
}

func TestTransactionHashes(t *testing.T) {
	raw, err := hex.DecodeString(coinbaseTx1)
	require.NoError(t, err)

	tx, err := NewTransactionFromBytes(raw)
	require.NoError(t, err)

	// without witness data the txid and wtxid are the same hash
	require.Equal(t, tx.Hash(), tx.WitnessHash())
}

func TestTransactionIsNull(t *testing.T) {
	empty := wire.NewMsgTx(2)
	tx := Transaction{tx: btcutil.NewTx(empty)}

	assert.True(t, tx.IsNull())
	assert.False(t, tx.IsCoinbase())
}

func TestTransactionInputAccessors(t *testing.T) {
	raw, err := hex.DecodeString(coinbaseTx1)
	require.NoError(t, err)

	tx, err := NewTransactionFromBytes(raw)
	require.NoError(t, err)

	in, err := tx.Input(0)
	require.NoError(t, err)

	assert.Equal(t, 0, in.Index())
	assert.Equal(t, uint32(wire.MaxTxInSequenceNum), in.Sequence())

	op := in.OutPoint()
	assert.True(t, op.IsNull())
	assert.Equal(t, &chainhash.Hash{}, op.TxID())
	assert.Equal(t, uint32(wire.MaxPrevOutIndex), op.Index())

	sig := in.ScriptSig()
	assert.False(t, sig.IsEmpty())
	assert.True(t, sig.IsPushOnly())
	assert.Equal(t, []byte{0x51, 0x01, 0x01}, sig.Bytes())
}

func TestScriptSigToOwnedIsIndependent(t *testing.T) {
	raw, err := hex.DecodeString(coinbaseTx1)
	require.NoError(t, err)

	tx, err := NewTransactionFromBytes(raw)
	require.NoError(t, err)

	in, err := tx.Input(0)
	require.NoError(t, err)

	sig := in.ScriptSig()
	owned := sig.ToOwned()
	require.Equal(t, sig.Bytes(), owned)

	owned[0] ^= 0xff
	require.NotEqual(t, sig.Bytes()[0], owned[0])
}

func TestWitnessNullVsEmpty(t *testing.T) {
	prev := chainhash.HashH([]byte("witness-prev"))

	t.Run("null witness", func(t *testing.T) {
		msg := wire.NewMsgTx(2)
		msg.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&prev, 0), nil, nil))
		msg.AddTxOut(wire.NewTxOut(1000, []byte{txscript.OP_TRUE}))

		tx := Transaction{tx: btcutil.NewTx(msg)}

		in, err := tx.Input(0)
		require.NoError(t, err)

		w := in.Witness()
		assert.True(t, w.IsNull())
		assert.Equal(t, 0, w.StackSize())
		assert.Nil(t, w.ToOwned())
	})

	t.Run("empty witness stack", func(t *testing.T) {
		msg := wire.NewMsgTx(2)
		msg.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&prev, 0), nil, wire.TxWitness{}))
		msg.AddTxOut(wire.NewTxOut(1000, []byte{txscript.OP_TRUE}))

		tx := Transaction{tx: btcutil.NewTx(msg)}

		in, err := tx.Input(0)
		require.NoError(t, err)

		w := in.Witness()
		assert.False(t, w.IsNull())
		assert.Equal(t, 0, w.StackSize())
	})

	t.Run("witness stack items", func(t *testing.T) {
		msg := wire.NewMsgTx(2)
		msg.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&prev, 0), nil, wire.TxWitness{{0x01}, {0x02, 0x03}}))
		msg.AddTxOut(wire.NewTxOut(1000, []byte{txscript.OP_TRUE}))

		tx := Transaction{tx: btcutil.NewTx(msg)}
		require.True(t, tx.HasWitness())

		in, err := tx.Input(0)
		require.NoError(t, err)

		w := in.Witness()
		require.Equal(t, 2, w.StackSize())

		item, err := w.StackItem(1)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x02, 0x03}, item)

		_, err = w.StackItem(2)
		require.Error(t, err)
		require.True(t, errors.Is(err, errors.ErrOutOfBounds))

		owned := w.ToOwned()
		require.Equal(t, w.witness, owned)

		owned[0][0] ^= 0xff
		item0, err := w.StackItem(0)
		require.NoError(t, err)
		require.Equal(t, []byte{0x01}, item0)
	})
}

func TestTxOutRefToOwned(t *testing.T) {
	raw, err := hex.DecodeString(coinbaseTx1)
	require.NoError(t, err)

	tx, err := NewTransactionFromBytes(raw)
	require.NoError(t, err)

	ref, err := tx.Output(0)
	require.NoError(t, err)

	owned := ref.ToOwned()
	require.Equal(t, ref.Value(), owned.Value())
	require.Equal(t, ref.ScriptPubkey().Bytes(), owned.ScriptPubkey())

	owned.ScriptPubkey()[0] ^= 0xff
	require.NotEqual(t, ref.ScriptPubkey().Bytes()[0], owned.ScriptPubkey()[0])
}

func TestTransactionRefToOwned(t *testing.T) {
	raw := buildSpendBlock(t)

	block, err := NewBlockFromBytes(raw, 2)
	require.NoError(t, err)

	ref, err := block.Transaction(1)
	require.NoError(t, err)

	owned := ref.ToOwned()
	require.Equal(t, ref.Hash(), owned.Hash())
	require.Equal(t, ref.InputCount(), owned.InputCount())
	require.Equal(t, ref.OutputCount(), owned.OutputCount())
	require.Equal(t, ref.Bytes(), owned.Bytes())

	// the copy must not share backing arrays with the block
	require.NotSame(t, ref.tx.MsgTx(), owned.tx.MsgTx())
}
