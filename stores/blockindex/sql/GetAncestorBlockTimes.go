package sql

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/ordishs/gocore"

	"github.com/bsv-blockchain/go-blockreader/errors"
)

// GetAncestorBlockTimes returns up to count header timestamps, starting at
// blockHash and walking parent links backward. The engine feeds these into
// the median-time-past calculation. ErrBlockNotFound when the start block is
// not in the index.
func (s *SQL) GetAncestorBlockTimes(ctx context.Context, blockHash *chainhash.Hash, count int) ([]uint32, error) {
	start := gocore.CurrentTime()
	defer func() {
		stat.NewStat("GetAncestorBlockTimes").AddTime(start)
	}()

	if count <= 0 {
		return nil, errors.NewInvalidArgumentError("ancestor count must be positive, got %d", count)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	q := `
		WITH RECURSIVE ChainBlocks AS (
			SELECT id, parent_id, block_time, 0 AS depth
			FROM blocks
			WHERE hash = $1
			UNION ALL
			SELECT bb.id, bb.parent_id, bb.block_time, cb.depth + 1
			FROM blocks bb
			JOIN ChainBlocks cb ON bb.id = cb.parent_id
			WHERE bb.id != cb.id
			  AND cb.depth < $2 - 1
		)
		SELECT block_time FROM ChainBlocks
		ORDER BY depth ASC
	`

	rows, err := s.db.QueryContext(ctx, q, blockHash.CloneBytes(), count)
	if err != nil {
		return nil, errors.NewStorageError("failed to get ancestor block times for %s", blockHash, err)
	}

	defer rows.Close()

	times := make([]uint32, 0, count)

	for rows.Next() {
		var blockTime uint32
		if err = rows.Scan(&blockTime); err != nil {
			return nil, errors.NewStorageError("failed to scan ancestor block time", err)
		}

		times = append(times, blockTime)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.NewStorageError("failed to iterate ancestor block times", err)
	}

	if len(times) == 0 {
		return nil, errors.NewBlockNotFoundError("no block with hash %s", blockHash)
	}

	return times, nil
}
