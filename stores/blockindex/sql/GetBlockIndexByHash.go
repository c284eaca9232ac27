package sql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/ordishs/gocore"

	"github.com/bsv-blockchain/go-blockreader/errors"
	"github.com/bsv-blockchain/go-blockreader/model"
)

// GetBlockIndexByHash resolves a block by hash on any branch, active or not.
func (s *SQL) GetBlockIndexByHash(ctx context.Context, blockHash *chainhash.Hash) (*model.BlockHeader, *model.BlockIndexMeta, error) {
	start := gocore.CurrentTime()
	defer func() {
		stat.NewStat("GetBlockIndexByHash").AddTime(start)
	}()

	cacheID := chainhash.HashH([]byte(fmt.Sprintf("GetBlockIndexByHash-%s", blockHash)))
	op := s.responseCache.Begin(cacheID)

	if header, meta, ok := s.getCachedIndex(op); ok {
		return header, meta, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	q := fmt.Sprintf(`
		SELECT
		%s
		FROM blocks b
		WHERE b.hash = $1
	`, indexFields)

	header, meta, err := scanIndexRow(s.db.QueryRowContext(ctx, q, blockHash.CloneBytes()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, errors.NewBlockNotFoundError("no block with hash %s", blockHash)
		}

		return nil, nil, errors.NewStorageError("failed to get block index by hash %s", blockHash, err)
	}

	s.setCachedIndex(op, header, meta)

	return header, meta, nil
}
