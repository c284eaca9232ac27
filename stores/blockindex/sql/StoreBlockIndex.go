package sql

import (
	"context"
	"database/sql"
	"math/big"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lib/pq"
	"github.com/ordishs/gocore"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/bsv-blockchain/go-blockreader/errors"
	"github.com/bsv-blockchain/go-blockreader/model"
)

// chainWorkSize is the stored width of the cumulative work value. Fixed-width
// big-endian bytes compare correctly under the ORDER BY chain_work index.
const chainWorkSize = 32

// StoreBlockIndex inserts a block under its parent. Height and cumulative
// chain work are derived here: height is parent height plus one and work is
// parent work plus the work proven by the header's difficulty bits. A block
// whose previous hash is the zero hash is the genesis block, stored at
// height zero with no parent.
//
// meta supplies TxCount, SizeInBytes and Status; the other meta fields are
// ignored on input. Returns the assigned row ID and the derived height.
// Storing a hash that already exists returns ErrBlockExists.
func (s *SQL) StoreBlockIndex(ctx context.Context, header *model.BlockHeader, meta *model.BlockIndexMeta) (uint32, uint32, error) {
	start := gocore.CurrentTime()
	defer func() {
		stat.NewStat("StoreBlockIndex").AddTime(start)
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		parentID   sql.NullInt64
		height     uint32
		parentWork = new(big.Int)
	)

	if header.HashPrevBlock.IsEqual(&chainhash.Hash{}) {
		if s.chainParams != nil && !header.Hash().IsEqual(s.chainParams.GenesisHash) {
			return 0, 0, errors.NewChainParamsError("genesis block %s does not match network genesis %s", header.Hash(), s.chainParams.GenesisHash)
		}
	} else {
		q := `
			SELECT b.id, b.height, b.chain_work
			FROM blocks b
			WHERE b.hash = $1
		`

		var (
			id              int64
			parentHeight    uint32
			parentWorkBytes []byte
		)

		if err := s.db.QueryRowContext(ctx, q, header.HashPrevBlock.CloneBytes()).Scan(&id, &parentHeight, &parentWorkBytes); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, 0, errors.NewBlockNotFoundError("previous block %s not found", header.HashPrevBlock)
			}

			return 0, 0, errors.NewStorageError("failed to look up previous block %s", header.HashPrevBlock, err)
		}

		parentID = sql.NullInt64{Int64: id, Valid: true}
		height = parentHeight + 1
		parentWork.SetBytes(parentWorkBytes)
	}

	chainWork := new(big.Int).Add(parentWork, blockchain.CalcWork(header.Bits))
	chainWorkBytes := chainWork.FillBytes(make([]byte, chainWorkSize))

	q := `
		INSERT INTO blocks (
			parent_id
			,version
			,hash
			,previous_hash
			,merkle_root
			,block_time
			,n_bits
			,nonce
			,height
			,chain_work
			,tx_count
			,size_in_bytes
			,status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	var newBlockID uint32

	if err := s.db.QueryRowContext(ctx, q,
		parentID,
		header.Version,
		header.Hash().CloneBytes(),
		header.HashPrevBlock.CloneBytes(),
		header.HashMerkleRoot.CloneBytes(),
		header.Timestamp,
		header.Bits,
		header.Nonce,
		height,
		chainWorkBytes,
		meta.TxCount,
		meta.SizeInBytes,
		uint32(meta.Status),
	).Scan(&newBlockID); err != nil {
		return 0, 0, s.parseSQLError(err, header.Hash())
	}

	// lookups must see the new block immediately
	s.responseCache.DeleteAll()

	return newBlockID, height, nil
}

// parseSQLError translates backend constraint violations into ErrBlockExists
// and wraps everything else as a storage error.
func (*SQL) parseSQLError(err error, blockHash *chainhash.Hash) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return errors.NewBlockExistsError("block %s already exists in the index", blockHash, err)
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return errors.NewBlockExistsError("block %s already exists in the index", blockHash, err)
	}

	return errors.NewStorageError("failed to store block %s", blockHash, err)
}
