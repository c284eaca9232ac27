package sql

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/ordishs/gocore"

	"github.com/bsv-blockchain/go-blockreader/errors"
	"github.com/bsv-blockchain/go-blockreader/model"
)

// SetBlockStatus replaces the packed status of a stored block. Changing a
// block's validity can move the active chain anchor, so the response cache
// is dropped.
func (s *SQL) SetBlockStatus(ctx context.Context, blockHash *chainhash.Hash, status model.BlockStatus) error {
	start := gocore.CurrentTime()
	defer func() {
		stat.NewStat("SetBlockStatus").AddTime(start)
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	q := `
		UPDATE blocks
		SET status = $1
		WHERE hash = $2
	`

	res, err := s.db.ExecContext(ctx, q, uint32(status), blockHash.CloneBytes())
	if err != nil {
		return errors.NewStorageError("failed to set status for block %s", blockHash, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return errors.NewStorageError("failed to read affected rows for block %s", blockHash, err)
	}

	if rows == 0 {
		return errors.NewBlockNotFoundError("no block with hash %s", blockHash)
	}

	s.responseCache.DeleteAll()

	return nil
}
