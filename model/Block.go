package model

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/bsv-blockchain/go-blockreader/errors"
)

// Block is an owned, fully decoded block payload. It retains the raw
// consensus bytes it was decoded from, so Bytes is byte-identical with the
// input, and wraps the btcd block for cached transaction hashing.
type Block struct {
	Header *BlockHeader

	height uint32
	raw    []byte
	block  *btcutil.Block
}

func NewBlockFromBytes(raw []byte, height uint32) (*Block, error) {
	if len(raw) < BlockHeaderSize {
		return nil, errors.NewInvalidLengthError("block must be at least %d bytes, got %d", BlockHeaderSize, len(raw))
	}

	block, err := btcutil.NewBlockFromBytes(raw)
	if err != nil {
		return nil, errors.NewProcessingError("error deserializing block", err)
	}

	//nolint:gosec // G115: block heights fit in int32
	block.SetHeight(int32(height))

	return &Block{
		Header: NewBlockHeaderFromWire(&block.MsgBlock().Header),
		height: height,
		raw:    raw,
		block:  block,
	}, nil
}

// Hash returns the block hash, computed once and cached.
func (b *Block) Hash() *chainhash.Hash {
	return b.block.Hash()
}

func (b *Block) Height() uint32 {
	return b.height
}

func (b *Block) TransactionCount() uint64 {
	return uint64(len(b.block.Transactions()))
}

// Transaction returns a borrowed view of the transaction at index i.
func (b *Block) Transaction(i int) (*TransactionRef, error) {
	txs := b.block.Transactions()
	if i < 0 || i >= len(txs) {
		return nil, errors.NewOutOfBoundsError("transaction index %d out of bounds for block with %d transactions", i, len(txs))
	}

	return &TransactionRef{
		Transaction: Transaction{tx: txs[i]},
		block:       b,
		index:       i,
	}, nil
}

// Transactions returns borrowed views of all transactions in block order.
func (b *Block) Transactions() []*TransactionRef {
	txs := b.block.Transactions()

	refs := make([]*TransactionRef, len(txs))
	for i, tx := range txs {
		refs[i] = &TransactionRef{
			Transaction: Transaction{tx: tx},
			block:       b,
			index:       i,
		}
	}

	return refs
}

// Bytes returns the consensus encoding the block was created from.
func (b *Block) Bytes() []byte {
	return b.raw
}

func (b *Block) SizeInBytes() uint64 {
	return uint64(len(b.raw))
}

// TotalFees sums the fees paid by every non-coinbase transaction, which needs
// the undo data to know the value of each consumed output. The undo record
// count must match the block, anything else is a data-integrity error.
func (b *Block) TotalFees(undo *BlockUndo) (uint64, error) {
	txCount := b.TransactionCount()
	if txCount == 0 {
		return 0, errors.NewDataIntegrityError("block %s has no transactions", b.Hash())
	}

	if undo.TransactionCount() != txCount-1 {
		return 0, errors.NewDataIntegrityError("undo record count %d does not match block transaction count %d", undo.TransactionCount(), txCount)
	}

	var fees uint64

	for i := uint64(1); i < txCount; i++ {
		tx, err := b.Transaction(int(i))
		if err != nil {
			return 0, err
		}

		txUndo, err := undo.TransactionUndo(int(i - 1))
		if err != nil {
			return 0, err
		}

		if uint64(txUndo.CoinCount()) != tx.InputCount() {
			return 0, errors.NewDataIntegrityError("undo record %d has %d coins for %d inputs", i-1, txUndo.CoinCount(), tx.InputCount())
		}

		var in int64

		for c := 0; c < txUndo.CoinCount(); c++ {
			coin, err := txUndo.Coin(c)
			if err != nil {
				return 0, err
			}

			in += coin.Value()
		}

		out := tx.ValueOut()
		if in < out {
			return 0, errors.NewDataIntegrityError("transaction %s spends %d but consumes only %d", tx.Hash(), out, in)
		}

		//nolint:gosec // G115: in >= out checked above
		fees += uint64(in - out)
	}

	return fees, nil
}
