package sql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ordishs/gocore"

	"github.com/bsv-blockchain/go-blockreader/errors"
)

// GetValidatedHeight returns the height of the active chain tip.
func (s *SQL) GetValidatedHeight(ctx context.Context) (uint32, error) {
	start := gocore.CurrentTime()
	defer func() {
		stat.NewStat("GetValidatedHeight").AddTime(start)
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	q := fmt.Sprintf(`
		SELECT b.height
		FROM blocks b
		WHERE %s
		ORDER BY b.chain_work DESC, b.id ASC
		LIMIT 1
	`, bestValidatedWhere)

	var height uint32
	if err := s.db.QueryRowContext(ctx, q).Scan(&height); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, errors.NewBlockNotFoundError("no validated blocks in the index")
		}

		return 0, errors.NewStorageError("failed to get validated height", err)
	}

	return height, nil
}
