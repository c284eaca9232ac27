package sql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ordishs/gocore"

	"github.com/bsv-blockchain/go-blockreader/errors"
)

// recursionDepthLimit caps the chain walk so a corrupted parent link cannot
// recurse forever.
const recursionDepthLimit = 100_000

// CheckBlockIsInCurrentChain reports whether any of the given index IDs is
// on the active chain. The walk starts at the validated tip and stops as
// soon as a match is found or the depth limit is reached.
func (s *SQL) CheckBlockIsInCurrentChain(ctx context.Context, blockIDs []uint32) (bool, error) {
	start := gocore.CurrentTime()
	defer func() {
		stat.NewStat("CheckBlockIsInCurrentChain").AddTime(start)
	}()

	if len(blockIDs) == 0 {
		return false, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// one numbered placeholder per ID, $1 is the depth limit
	placeholders := make([]string, len(blockIDs))
	args := make([]interface{}, 0, len(blockIDs)+1)
	args = append(args, recursionDepthLimit)

	for i, id := range blockIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}

	idList := strings.Join(placeholders, ", ")

	q := fmt.Sprintf(`
		WITH RECURSIVE ChainBlocks AS (
			SELECT
				id,
				parent_id,
				1 AS depth,
				(id IN (%[1]s)) AS found_match
			FROM blocks
			WHERE hash = (
				SELECT b.hash
				FROM blocks b
				WHERE %[2]s
				ORDER BY b.chain_work DESC, b.id ASC
				LIMIT 1
			)
			UNION ALL
			SELECT
				bb.id,
				bb.parent_id,
				cb.depth + 1 AS depth,
				(bb.id IN (%[1]s)) AS found_match
			FROM blocks bb
			INNER JOIN ChainBlocks cb ON bb.id = cb.parent_id
			WHERE NOT cb.found_match
			  AND cb.depth < $1
		)
		SELECT CASE
			WHEN EXISTS (SELECT 1 FROM ChainBlocks WHERE found_match)
			THEN TRUE
			ELSE FALSE
		END AS result
	`, idList, bestValidatedWhere)

	var isInCurrentChain bool
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&isInCurrentChain); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, errors.NewStorageError("failed to check blocks against the current chain", err)
	}

	return isInCurrentChain, nil
}
