package blockreader

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/bsv-blockchain/go-blockreader/errors"
	"github.com/bsv-blockchain/go-blockreader/model"
)

// BlockIndex is an immutable snapshot of one chain index entry. Accessors are
// pure; Previous, Next, Block, BlockUndo and IsOnActiveChain go back to the
// engine, so what they see moves with Refresh. Entries keep their Reader
// alive and are safe for concurrent use.
type BlockIndex struct {
	reader *Reader
	header *model.BlockHeader
	meta   *model.BlockIndexMeta
}

func newBlockIndex(r *Reader, header *model.BlockHeader, meta *model.BlockIndexMeta) *BlockIndex {
	return &BlockIndex{
		reader: r,
		header: header,
		meta:   meta,
	}
}

func (bi *BlockIndex) Height() uint32 {
	return bi.meta.Height
}

func (bi *BlockIndex) Hash() *chainhash.Hash {
	return bi.header.Hash()
}

// PreviousHash returns the parent block hash, nil for the genesis block.
func (bi *BlockIndex) PreviousHash() *chainhash.Hash {
	if bi.header.HashPrevBlock == nil || bi.header.HashPrevBlock.IsEqual(&chainhash.Hash{}) {
		return nil
	}

	return bi.header.HashPrevBlock
}

func (bi *BlockIndex) Version() int32 {
	return bi.header.Version
}

func (bi *BlockIndex) MerkleRoot() *chainhash.Hash {
	return bi.header.HashMerkleRoot
}

func (bi *BlockIndex) Timestamp() time.Time {
	return time.Unix(int64(bi.header.Timestamp), 0)
}

func (bi *BlockIndex) Bits() uint32 {
	return bi.header.Bits
}

func (bi *BlockIndex) Nonce() uint32 {
	return bi.header.Nonce
}

// MedianTime is the median timestamp of this block and its ten closest
// ancestors, the value consensus time locks compare against.
func (bi *BlockIndex) MedianTime() time.Time {
	return time.Unix(int64(bi.meta.MedianTime), 0)
}

// TxCount is the number of transactions in the block, coinbase included.
func (bi *BlockIndex) TxCount() uint64 {
	return bi.meta.TxCount
}

// SizeInBytes is the serialized block size recorded in the index.
func (bi *BlockIndex) SizeInBytes() uint64 {
	return bi.meta.SizeInBytes
}

// Status returns the packed status exactly as the index stores it.
func (bi *BlockIndex) Status() model.BlockStatus {
	return bi.meta.Status
}

func (bi *BlockIndex) HasBlockData() bool {
	return bi.meta.Status.HasBlockData()
}

func (bi *BlockIndex) HasUndoData() bool {
	return bi.meta.Status.HasUndoData()
}

func (bi *BlockIndex) HasValidTransactions() bool {
	return bi.meta.Status.IsValid(model.BlockValidityTransactions)
}

func (bi *BlockIndex) HasValidChain() bool {
	return bi.meta.Status.IsValid(model.BlockValidityChain)
}

func (bi *BlockIndex) HasValidScripts() bool {
	return bi.meta.Status.IsValid(model.BlockValidityScripts)
}

func (bi *BlockIndex) HasWitness() bool {
	return bi.meta.Status.HasWitness()
}

func (bi *BlockIndex) IsFailed() bool {
	return bi.meta.Status.IsFailed()
}

// RawHeader returns the 80-byte consensus serialized header.
func (bi *BlockIndex) RawHeader() []byte {
	return bi.header.Bytes()
}

// Previous returns the parent entry, on any branch. ErrBlockNotFound for the
// genesis block.
func (bi *BlockIndex) Previous(ctx context.Context) (*BlockIndex, error) {
	if err := bi.reader.ensureOpen(); err != nil {
		return nil, err
	}

	header, meta, err := bi.reader.engine.PreviousEntry(ctx, bi.header)
	if err != nil {
		return nil, err
	}

	return newBlockIndex(bi.reader, header, meta), nil
}

// Next returns the successor on the active chain. ErrBlockNotFound at the tip
// and for entries off the active chain: a fork entry has a Previous but never
// a Next, the asymmetry is deliberate.
func (bi *BlockIndex) Next(ctx context.Context) (*BlockIndex, error) {
	if err := bi.reader.ensureOpen(); err != nil {
		return nil, err
	}

	header, meta, err := bi.reader.engine.EntryByHeight(ctx, bi.meta.Height+1)
	if err != nil {
		return nil, err
	}

	if !header.HashPrevBlock.IsEqual(bi.header.Hash()) {
		return nil, errors.NewBlockNotFoundError("block %s is not on the active chain, it has no next block", bi.header.Hash())
	}

	return newBlockIndex(bi.reader, header, meta), nil
}

// Block fetches and decodes the raw block payload. ErrBlockNotFound when the
// payload was never stored (pruned or not downloaded), ErrReadFailed when the
// read or decode fails.
func (bi *BlockIndex) Block(ctx context.Context) (*model.Block, error) {
	if err := bi.reader.ensureOpen(); err != nil {
		return nil, err
	}

	if !bi.HasBlockData() {
		return nil, errors.NewBlockNotFoundError("block %s at height %d has no block data stored", bi.header.Hash(), bi.meta.Height)
	}

	raw, err := bi.reader.engine.ReadBlockData(ctx, bi.header.Hash())
	if err != nil {
		return nil, errors.NewReadFailedError("failed to read block %s at height %d", bi.header.Hash(), bi.meta.Height, err)
	}

	block, err := model.NewBlockFromBytes(raw, bi.meta.Height)
	if err != nil {
		return nil, errors.NewReadFailedError("failed to decode block %s at height %d", bi.header.Hash(), bi.meta.Height, err)
	}

	return block, nil
}

// BlockUndo fetches the spent-coin undo data. The genesis block has none by
// definition. A record count that disagrees with the index's transaction
// count is corruption, reported as ErrDataIntegrity.
func (bi *BlockIndex) BlockUndo(ctx context.Context) (*model.BlockUndo, error) {
	if err := bi.reader.ensureOpen(); err != nil {
		return nil, err
	}

	if bi.meta.Height == 0 {
		return nil, errors.NewBlockNotFoundError("genesis has no undo data")
	}

	if !bi.HasUndoData() {
		return nil, errors.NewBlockNotFoundError("block %s at height %d has no undo data stored", bi.header.Hash(), bi.meta.Height)
	}

	raw, err := bi.reader.engine.ReadUndoData(ctx, bi.header.Hash())
	if err != nil {
		return nil, errors.NewReadFailedError("failed to read undo data for block %s at height %d", bi.header.Hash(), bi.meta.Height, err)
	}

	undo, err := model.NewBlockUndoFromBytes(raw, bi.meta.Height)
	if err != nil {
		return nil, errors.NewReadFailedError("failed to decode undo data for block %s at height %d", bi.header.Hash(), bi.meta.Height, err)
	}

	if bi.meta.TxCount > 0 && undo.TransactionCount() != bi.meta.TxCount-1 {
		return nil, errors.NewDataIntegrityError("undo data for block %s has %d records, expected %d",
			bi.header.Hash(), undo.TransactionCount(), bi.meta.TxCount-1)
	}

	return undo, nil
}

// IsOnActiveChain reports whether this entry is on the current active chain.
// The answer moves with Refresh: a reorg can strand a previously active
// entry.
func (bi *BlockIndex) IsOnActiveChain(ctx context.Context) (bool, error) {
	if err := bi.reader.ensureOpen(); err != nil {
		return false, err
	}

	return bi.reader.engine.IsOnActiveChain(ctx, bi.meta.ID)
}
