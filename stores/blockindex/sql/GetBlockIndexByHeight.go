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

// GetBlockIndexByHeight resolves a height on the active chain by walking
// parent links back from the validated tip. Forks and heights above the tip
// do not resolve, even when a header at that height exists on a branch.
func (s *SQL) GetBlockIndexByHeight(ctx context.Context, height uint32) (*model.BlockHeader, *model.BlockIndexMeta, error) {
	start := gocore.CurrentTime()
	defer func() {
		stat.NewStat("GetBlockIndexByHeight").AddTime(start)
	}()

	// invalidated by writes or after cacheTTL
	cacheID := chainhash.HashH([]byte(fmt.Sprintf("GetBlockIndexByHeight-%d", height)))
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
		WHERE b.id IN (
			WITH RECURSIVE ChainBlocks AS (
				SELECT id, parent_id, height
				FROM blocks
				WHERE hash = (
					SELECT b.hash
					FROM blocks b
					WHERE %s
					ORDER BY b.chain_work DESC, b.id ASC
					LIMIT 1
				)
				UNION ALL
				SELECT bb.id, bb.parent_id, bb.height
				FROM blocks bb
				JOIN ChainBlocks cb ON bb.id = cb.parent_id
				WHERE bb.id != cb.id
			)
			SELECT id FROM ChainBlocks
			WHERE height = $1
			LIMIT 1
		)
	`, indexFields, bestValidatedWhere)

	header, meta, err := scanIndexRow(s.db.QueryRowContext(ctx, q, height))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, errors.NewBlockNotFoundError("no block at height %d on the active chain", height)
		}

		return nil, nil, errors.NewStorageError("failed to get block index by height %d", height, err)
	}

	s.setCachedIndex(op, header, meta)

	return header, meta, nil
}
