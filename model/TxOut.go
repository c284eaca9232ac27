package model

import (
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// TxOut is an owned copy of a transaction output.
type TxOut struct {
	out *wire.TxOut
}

// Value is the amount in satoshis. Signed, matching the consensus encoding.
func (t *TxOut) Value() int64 {
	return t.out.Value
}

func (t *TxOut) ScriptPubkey() []byte {
	return t.out.PkScript
}

// TxOutRef is a borrowed view of a transaction output. The owner is either
// the transaction it belongs to or the undo record that restored it.
type TxOutRef struct {
	out   *wire.TxOut
	owner any
	index int
}

func (t *TxOutRef) Index() int {
	return t.index
}

// Value is the amount in satoshis.
func (t *TxOutRef) Value() int64 {
	return t.out.Value
}

// ScriptPubkey returns a borrowed view of the locking script.
func (t *TxOutRef) ScriptPubkey() *ScriptPubkeyRef {
	return &ScriptPubkeyRef{script: t.out.PkScript, owner: t.owner}
}

// ToOwned returns an independent deep copy that outlives the owner.
func (t *TxOutRef) ToOwned() *TxOut {
	script := make([]byte, len(t.out.PkScript))
	copy(script, t.out.PkScript)

	return &TxOut{out: wire.NewTxOut(t.out.Value, script)}
}

// ScriptPubkeyRef is a borrowed view of an output's locking script.
type ScriptPubkeyRef struct {
	script []byte
	owner  any
}

// Bytes returns the raw script. The slice is shared with the owner; use
// ToOwned for an independent copy.
func (s *ScriptPubkeyRef) Bytes() []byte {
	return s.script
}

func (s *ScriptPubkeyRef) IsEmpty() bool {
	return len(s.script) == 0
}

// Class returns the standard script class of the locking script.
func (s *ScriptPubkeyRef) Class() txscript.ScriptClass {
	return txscript.GetScriptClass(s.script)
}

func (s *ScriptPubkeyRef) ToOwned() []byte {
	owned := make([]byte, len(s.script))
	copy(owned, s.script)

	return owned
}
