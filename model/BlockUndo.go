package model

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/btcsuite/btcd/wire"

	"github.com/bsv-blockchain/go-blockreader/errors"
)

// BlockUndo is the owned, per-block record of the outputs consumed by every
// non-coinbase transaction in a block. Records are indexed by transaction
// position excluding the coinbase, so block transaction i corresponds to
// undo record i-1.
//
// Serialized format, all integers Bitcoin wire style: varint record count,
// then per record a varint coin count, then per coin a packed
// height<<1|coinbase varint, an 8 byte little endian amount and a varint
// length prefixed script.
type BlockUndo struct {
	height  uint32
	records []*TxUndo
}

// TxUndo holds the coins consumed by one transaction's inputs, in input
// order.
type TxUndo struct {
	undo  *BlockUndo
	coins []*undoCoin
}

type undoCoin struct {
	out        *wire.TxOut
	height     uint32
	isCoinbase bool
}

// NewBlockUndo builds an undo record set, one TxUndo per non-coinbase
// transaction in block order.
func NewBlockUndo(height uint32, records ...*TxUndo) *BlockUndo {
	u := &BlockUndo{height: height, records: records}
	for _, r := range records {
		r.undo = u
	}

	return u
}

// NewTxUndo builds the undo record for one transaction from owned coins.
func NewTxUndo(coins ...*Coin) *TxUndo {
	t := &TxUndo{coins: make([]*undoCoin, len(coins))}
	for i, c := range coins {
		t.coins[i] = &undoCoin{out: c.out, height: c.height, isCoinbase: c.isCoinbase}
	}

	return t
}

func NewBlockUndoFromBytes(raw []byte, height uint32) (*BlockUndo, error) {
	r := bytes.NewReader(raw)

	recordCount, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, errors.NewProcessingError("error reading undo record count", err)
	}

	undo := &BlockUndo{
		height:  height,
		records: make([]*TxUndo, 0, recordCount),
	}

	for i := uint64(0); i < recordCount; i++ {
		coinCount, err := wire.ReadVarInt(r, 0)
		if err != nil {
			return nil, errors.NewProcessingError("error reading coin count for undo record %d", i, err)
		}

		record := &TxUndo{
			undo:  undo,
			coins: make([]*undoCoin, 0, coinCount),
		}

		for c := uint64(0); c < coinCount; c++ {
			coin, err := readUndoCoin(r)
			if err != nil {
				return nil, errors.NewProcessingError("error reading coin %d of undo record %d", c, i, err)
			}

			record.coins = append(record.coins, coin)
		}

		undo.records = append(undo.records, record)
	}

	return undo, nil
}

func readUndoCoin(r *bytes.Reader) (*undoCoin, error) {
	packed, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, errors.NewProcessingError("error reading packed height", err)
	}

	var amountBytes [8]byte
	if _, err = io.ReadFull(r, amountBytes[:]); err != nil {
		return nil, errors.NewProcessingError("error reading amount", err)
	}

	scriptLen, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, errors.NewProcessingError("error reading script length", err)
	}

	if scriptLen > uint64(r.Len()) {
		return nil, errors.NewInvalidLengthError("script length %d exceeds remaining %d bytes", scriptLen, r.Len())
	}

	script := make([]byte, scriptLen)
	if _, err = io.ReadFull(r, script); err != nil {
		return nil, errors.NewProcessingError("error reading script", err)
	}

	return &undoCoin{
		out: wire.NewTxOut(
			//nolint:gosec // G115: amounts are serialized from int64
			int64(binary.LittleEndian.Uint64(amountBytes[:])),
			script,
		),
		//nolint:gosec // G115: packed heights fit in uint32
		height:     uint32(packed >> 1),
		isCoinbase: packed&1 == 1,
	}, nil
}

func (u *BlockUndo) Height() uint32 {
	return u.height
}

// TransactionCount is the number of undo records, one per non-coinbase
// transaction.
func (u *BlockUndo) TransactionCount() uint64 {
	return uint64(len(u.records))
}

// TransactionUndo returns the undo record at index i. Index 0 corresponds to
// the block's second transaction, the first after the coinbase.
func (u *BlockUndo) TransactionUndo(i int) (*TxUndo, error) {
	if i < 0 || i >= len(u.records) {
		return nil, errors.NewTxIndexOutOfRangeError("undo record index %d out of range for %d records", i, len(u.records))
	}

	return u.records[i], nil
}

func (u *BlockUndo) Bytes() []byte {
	var buf bytes.Buffer

	// writes on a bytes.Buffer cannot fail
	_ = wire.WriteVarInt(&buf, 0, uint64(len(u.records)))

	for _, record := range u.records {
		_ = wire.WriteVarInt(&buf, 0, uint64(len(record.coins)))

		for _, coin := range record.coins {
			packed := uint64(coin.height) << 1
			if coin.isCoinbase {
				packed |= 1
			}

			_ = wire.WriteVarInt(&buf, 0, packed)

			var amountBytes [8]byte
			//nolint:gosec // G115: amounts round trip through uint64
			binary.LittleEndian.PutUint64(amountBytes[:], uint64(coin.out.Value))
			buf.Write(amountBytes[:])

			_ = wire.WriteVarInt(&buf, 0, uint64(len(coin.out.PkScript)))
			buf.Write(coin.out.PkScript)
		}
	}

	return buf.Bytes()
}

func (t *TxUndo) CoinCount() int {
	return len(t.coins)
}

// Coin returns a borrowed view of the coin consumed by input i.
func (t *TxUndo) Coin(i int) (*CoinRef, error) {
	if i < 0 || i >= len(t.coins) {
		return nil, errors.NewOutOfBoundsError("coin index %d out of bounds for undo record with %d coins", i, len(t.coins))
	}

	return &CoinRef{coin: t.coins[i], owner: t.undo, index: i}, nil
}

// CoinRef is a borrowed view of one spent coin in an undo record.
type CoinRef struct {
	coin  *undoCoin
	owner *BlockUndo
	index int
}

func (c *CoinRef) Index() int {
	return c.index
}

// Output returns a borrowed view of the restored output.
func (c *CoinRef) Output() *TxOutRef {
	return &TxOutRef{out: c.coin.out, owner: c.owner, index: c.index}
}

// Value is the amount in satoshis of the consumed output.
func (c *CoinRef) Value() int64 {
	return c.coin.out.Value
}

// ScriptPubkey returns a borrowed view of the consumed output's locking
// script.
func (c *CoinRef) ScriptPubkey() *ScriptPubkeyRef {
	return &ScriptPubkeyRef{script: c.coin.out.PkScript, owner: c.owner}
}

// ConfirmationHeight is the height of the block that created the consumed
// output.
func (c *CoinRef) ConfirmationHeight() uint32 {
	return c.coin.height
}

func (c *CoinRef) IsCoinbase() bool {
	return c.coin.isCoinbase
}

// ToOwned returns an independent deep copy that outlives the undo record.
func (c *CoinRef) ToOwned() *Coin {
	script := make([]byte, len(c.coin.out.PkScript))
	copy(script, c.coin.out.PkScript)

	return &Coin{
		out:        wire.NewTxOut(c.coin.out.Value, script),
		height:     c.coin.height,
		isCoinbase: c.coin.isCoinbase,
	}
}

// Coin is an owned copy of a spent coin.
type Coin struct {
	out        *wire.TxOut
	height     uint32
	isCoinbase bool
}

// NewCoin builds an owned coin, used when seeding undo data.
func NewCoin(value int64, script []byte, confirmationHeight uint32, isCoinbase bool) *Coin {
	return &Coin{
		out:        wire.NewTxOut(value, script),
		height:     confirmationHeight,
		isCoinbase: isCoinbase,
	}
}

func (c *Coin) Value() int64 {
	return c.out.Value
}

func (c *Coin) ScriptPubkey() []byte {
	return c.out.PkScript
}

func (c *Coin) ConfirmationHeight() uint32 {
	return c.height
}

func (c *Coin) IsCoinbase() bool {
	return c.isCoinbase
}
