package model

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/bsv-blockchain/go-blockreader/errors"
)

// TxInRef is a borrowed view of a transaction input.
type TxInRef struct {
	in    *wire.TxIn
	owner *Transaction
	index int
}

func (t *TxInRef) Index() int {
	return t.index
}

// OutPoint returns a borrowed view of the previous output reference.
func (t *TxInRef) OutPoint() *OutPointRef {
	return &OutPointRef{op: &t.in.PreviousOutPoint, owner: t.owner}
}

// ScriptSig returns a borrowed view of the unlocking script.
func (t *TxInRef) ScriptSig() *ScriptSigRef {
	return &ScriptSigRef{script: t.in.SignatureScript, owner: t.owner}
}

// Witness returns a borrowed view of the witness stack. A transaction
// serialized without witness data yields a null witness, which is distinct
// from a witness with an empty stack.
func (t *TxInRef) Witness() *WitnessRef {
	return &WitnessRef{witness: t.in.Witness, owner: t.owner}
}

func (t *TxInRef) Sequence() uint32 {
	return t.in.Sequence
}

// OutPointRef is a borrowed view of a previous-output reference.
type OutPointRef struct {
	op    *wire.OutPoint
	owner *Transaction
}

func (o *OutPointRef) TxID() *chainhash.Hash {
	hash := o.op.Hash
	return &hash
}

func (o *OutPointRef) Index() uint32 {
	return o.op.Index
}

// IsNull reports whether this is the all-zero outpoint a coinbase input
// carries.
func (o *OutPointRef) IsNull() bool {
	return o.op.Index == wire.MaxPrevOutIndex && o.op.Hash == (chainhash.Hash{})
}

// ScriptSigRef is a borrowed view of an input's unlocking script.
type ScriptSigRef struct {
	script []byte
	owner  *Transaction
}

// Bytes returns the raw script. The slice is shared with the owning
// transaction; use ToOwned for an independent copy.
func (s *ScriptSigRef) Bytes() []byte {
	return s.script
}

func (s *ScriptSigRef) IsEmpty() bool {
	return len(s.script) == 0
}

// IsPushOnly reports whether the script only pushes data, which standardness
// requires of every script sig.
func (s *ScriptSigRef) IsPushOnly() bool {
	return txscript.IsPushOnlyScript(s.script)
}

func (s *ScriptSigRef) ToOwned() []byte {
	owned := make([]byte, len(s.script))
	copy(owned, s.script)

	return owned
}

// WitnessRef is a borrowed view of an input's witness stack.
type WitnessRef struct {
	witness wire.TxWitness
	owner   *Transaction
}

// IsNull reports whether no witness was present at all, as opposed to a
// witness with zero stack items.
func (w *WitnessRef) IsNull() bool {
	return w.witness == nil
}

func (w *WitnessRef) StackSize() int {
	return len(w.witness)
}

// StackItem returns the witness stack item at index i.
func (w *WitnessRef) StackItem(i int) ([]byte, error) {
	if i < 0 || i >= len(w.witness) {
		return nil, errors.NewOutOfBoundsError("witness stack index %d out of bounds for stack of %d items", i, len(w.witness))
	}

	return w.witness[i], nil
}

// ToOwned returns an independent deep copy of the witness stack.
func (w *WitnessRef) ToOwned() wire.TxWitness {
	if w.witness == nil {
		return nil
	}

	owned := make(wire.TxWitness, len(w.witness))
	for i, item := range w.witness {
		owned[i] = make([]byte, len(item))
		copy(owned[i], item)
	}

	return owned
}
