package sql

import (
	"context"
	"database/sql"

	"github.com/ordishs/gocore"

	"github.com/bsv-blockchain/go-blockreader/errors"
	"github.com/bsv-blockchain/go-blockreader/model"
)

// GetHeaderHeight returns the height of the best header: the most cumulative
// chain work over all non-failed blocks, whether validated or not.
func (s *SQL) GetHeaderHeight(ctx context.Context) (uint32, error) {
	start := gocore.CurrentTime()
	defer func() {
		stat.NewStat("GetHeaderHeight").AddTime(start)
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	q := `
		SELECT b.height
		FROM blocks b
		WHERE (b.status & $1) = 0
		ORDER BY b.chain_work DESC, b.id ASC
		LIMIT 1
	`

	var height uint32
	if err := s.db.QueryRowContext(ctx, q, uint32(model.StatusFailed)).Scan(&height); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, errors.NewBlockNotFoundError("block index is empty")
		}

		return 0, errors.NewStorageError("failed to get header height", err)
	}

	return height, nil
}
