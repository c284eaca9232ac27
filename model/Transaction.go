package model

import (
	"bytes"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/bsv-blockchain/go-blockreader/errors"
)

// Transaction is an owned decoded transaction.
type Transaction struct {
	tx *btcutil.Tx
}

func NewTransactionFromBytes(raw []byte) (*Transaction, error) {
	tx, err := btcutil.NewTxFromBytes(raw)
	if err != nil {
		return nil, errors.NewProcessingError("error deserializing transaction", err)
	}

	return &Transaction{tx: tx}, nil
}

// Hash returns the transaction id (the hash without witness data).
func (t *Transaction) Hash() *chainhash.Hash {
	return t.tx.Hash()
}

// WitnessHash returns the wtxid, which includes witness data. For a
// transaction without witness data it equals Hash.
func (t *Transaction) WitnessHash() *chainhash.Hash {
	return t.tx.WitnessHash()
}

func (t *Transaction) InputCount() uint64 {
	return uint64(len(t.tx.MsgTx().TxIn))
}

func (t *Transaction) OutputCount() uint64 {
	return uint64(len(t.tx.MsgTx().TxOut))
}

// Input returns a borrowed view of the input at index i.
func (t *Transaction) Input(i int) (*TxInRef, error) {
	ins := t.tx.MsgTx().TxIn
	if i < 0 || i >= len(ins) {
		return nil, errors.NewOutOfBoundsError("input index %d out of bounds for transaction with %d inputs", i, len(ins))
	}

	return &TxInRef{in: ins[i], owner: t, index: i}, nil
}

// Output returns a borrowed view of the output at index i.
func (t *Transaction) Output(i int) (*TxOutRef, error) {
	outs := t.tx.MsgTx().TxOut
	if i < 0 || i >= len(outs) {
		return nil, errors.NewOutOfBoundsError("output index %d out of bounds for transaction with %d outputs", i, len(outs))
	}

	return &TxOutRef{out: outs[i], owner: t, index: i}, nil
}

func (t *Transaction) IsCoinbase() bool {
	return blockchain.IsCoinBaseTx(t.tx.MsgTx())
}

// IsNull reports whether the transaction has no inputs and no outputs.
func (t *Transaction) IsNull() bool {
	msg := t.tx.MsgTx()
	return len(msg.TxIn) == 0 && len(msg.TxOut) == 0
}

func (t *Transaction) HasWitness() bool {
	return t.tx.MsgTx().HasWitness()
}

// ValueOut is the sum of all output amounts in satoshis.
func (t *Transaction) ValueOut() int64 {
	var total int64
	for _, out := range t.tx.MsgTx().TxOut {
		total += out.Value
	}

	return total
}

// TotalSize is the serialized size including witness data.
func (t *Transaction) TotalSize() uint64 {
	return uint64(t.tx.MsgTx().SerializeSize())
}

func (t *Transaction) Version() int32 {
	return t.tx.MsgTx().Version
}

func (t *Transaction) LockTime() uint32 {
	return t.tx.MsgTx().LockTime
}

func (t *Transaction) Bytes() []byte {
	msg := t.tx.MsgTx()
	buf := bytes.NewBuffer(make([]byte, 0, msg.SerializeSize()))

	// Serialize on a bytes.Buffer cannot fail
	_ = msg.Serialize(buf)

	return buf.Bytes()
}

// TransactionRef is a borrowed view of a transaction inside a Block. It keeps
// the block alive and records the transaction's position in it.
type TransactionRef struct {
	Transaction

	block *Block
	index int
}

// Index is the transaction's position within its block.
func (t *TransactionRef) Index() int {
	return t.index
}

// Block returns the owning block.
func (t *TransactionRef) Block() *Block {
	return t.block
}

// ToOwned returns an independent deep copy that outlives the block.
func (t *TransactionRef) ToOwned() *Transaction {
	return &Transaction{tx: btcutil.NewTx(t.tx.MsgTx().Copy())}
}
