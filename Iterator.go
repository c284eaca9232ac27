package blockreader

import (
	"context"

	"github.com/bsv-blockchain/go-blockreader/errors"
)

type iterDirection int

const (
	iterForward iterDirection = iota
	iterBackward
)

// BlockIndexIterator walks the chain one entry per step, in the
// database/sql.Rows style:
//
//	it := entry.IterBackward()
//	for it.Next(ctx) {
//	    entry := it.Entry()
//	    ...
//	}
//	if err := it.Err(); err != nil { ... }
//
// The starting entry is the first element. Iteration ends at the genesis
// block (backward) or the active tip / branch end (forward); engine failures
// stop it early and surface through Err. Iterators are single use, derive a
// fresh one to restart.
type BlockIndexIterator struct {
	current   *BlockIndex
	direction iterDirection
	started   bool
	done      bool
	err       error
}

// IterForward iterates from this entry towards the tip, following the active
// chain.
func (bi *BlockIndex) IterForward() *BlockIndexIterator {
	return &BlockIndexIterator{current: bi, direction: iterForward}
}

// IterBackward iterates from this entry towards the genesis block, following
// parent links on any branch.
func (bi *BlockIndex) IterBackward() *BlockIndexIterator {
	return &BlockIndexIterator{current: bi, direction: iterBackward}
}

// Next advances the iterator. It returns false at the natural end of the walk
// and on error; Err tells the two apart.
func (it *BlockIndexIterator) Next(ctx context.Context) bool {
	if it.done || it.err != nil {
		return false
	}

	if !it.started {
		it.started = true

		return true
	}

	var (
		next *BlockIndex
		err  error
	)

	if it.direction == iterForward {
		next, err = it.current.Next(ctx)
	} else {
		next, err = it.current.Previous(ctx)
	}

	if err != nil {
		it.done = true

		// running off the end of the chain is the normal way to stop
		if !errors.Is(err, errors.ErrBlockNotFound) {
			it.err = err
		}

		return false
	}

	it.current = next

	return true
}

// Entry returns the entry the iterator is positioned on. Only valid after a
// Next call that returned true.
func (it *BlockIndexIterator) Entry() *BlockIndex {
	return it.current
}

// Err returns the error that stopped iteration early, nil after a complete
// walk.
func (it *BlockIndexIterator) Err() error {
	return it.err
}

// ConditionalBlockIndexIterator walks like BlockIndexIterator but stops
// before the first entry the predicate rejects; the rejected entry is never
// yielded.
type ConditionalBlockIndexIterator struct {
	inner *BlockIndexIterator
	pred  func(*BlockIndex) bool
	done  bool
}

// IterForwardWhile iterates towards the tip while pred holds.
func (bi *BlockIndex) IterForwardWhile(pred func(*BlockIndex) bool) *ConditionalBlockIndexIterator {
	return &ConditionalBlockIndexIterator{inner: bi.IterForward(), pred: pred}
}

// IterBackwardWhile iterates towards the genesis block while pred holds.
func (bi *BlockIndex) IterBackwardWhile(pred func(*BlockIndex) bool) *ConditionalBlockIndexIterator {
	return &ConditionalBlockIndexIterator{inner: bi.IterBackward(), pred: pred}
}

func (it *ConditionalBlockIndexIterator) Next(ctx context.Context) bool {
	if it.done {
		return false
	}

	if !it.inner.Next(ctx) {
		it.done = true

		return false
	}

	if !it.pred(it.inner.Entry()) {
		it.done = true

		return false
	}

	return true
}

func (it *ConditionalBlockIndexIterator) Entry() *BlockIndex {
	return it.inner.Entry()
}

func (it *ConditionalBlockIndexIterator) Err() error {
	return it.inner.Err()
}
