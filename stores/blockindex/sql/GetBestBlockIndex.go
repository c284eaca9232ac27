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

// GetBestBlockIndex returns the tip of the active chain: the validated block
// with the most cumulative chain work, ties broken by insertion order.
func (s *SQL) GetBestBlockIndex(ctx context.Context) (*model.BlockHeader, *model.BlockIndexMeta, error) {
	start := gocore.CurrentTime()
	defer func() {
		stat.NewStat("GetBestBlockIndex").AddTime(start)
	}()

	cacheID := chainhash.HashH([]byte("GetBestBlockIndex"))
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
		WHERE %s
		ORDER BY b.chain_work DESC, b.id ASC
		LIMIT 1
	`, indexFields, bestValidatedWhere)

	header, meta, err := scanIndexRow(s.db.QueryRowContext(ctx, q))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, errors.NewBlockNotFoundError("no validated blocks in the index")
		}

		return nil, nil, errors.NewStorageError("failed to get best block index", err)
	}

	s.setCachedIndex(op, header, meta)

	return header, meta, nil
}
