package blockreader

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsv-blockchain/go-blockreader/errors"
)

func TestIterBackward(t *testing.T) {
	ctx := context.Background()

	reader, seeder, _ := setupReader(t)
	hashes := seeder.SeedChain(ctx, 5)

	tip, err := reader.BestValidatedIndex(ctx)
	require.NoError(t, err)

	var heights []uint32

	it := tip.IterBackward()
	for it.Next(ctx) {
		entry := it.Entry()
		assert.True(t, entry.Hash().IsEqual(hashes[entry.Height()]))
		heights = append(heights, entry.Height())
	}

	require.NoError(t, it.Err())
	assert.Equal(t, []uint32{5, 4, 3, 2, 1, 0}, heights)

	// the iterator stays exhausted
	assert.False(t, it.Next(ctx))
}

func TestIterForward(t *testing.T) {
	ctx := context.Background()

	reader, seeder, _ := setupReader(t)
	hashes := seeder.SeedChain(ctx, 5)

	genesis, err := reader.IndexAtHeight(ctx, 0)
	require.NoError(t, err)

	var heights []uint32

	it := genesis.IterForward()
	for it.Next(ctx) {
		entry := it.Entry()
		assert.True(t, entry.Hash().IsEqual(hashes[entry.Height()]))
		heights = append(heights, entry.Height())
	}

	require.NoError(t, it.Err())
	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5}, heights)
}

func TestIterFromMidChain(t *testing.T) {
	ctx := context.Background()

	reader, seeder, _ := setupReader(t)
	seeder.SeedChain(ctx, 5)

	mid, err := reader.IndexAtHeight(ctx, 3)
	require.NoError(t, err)

	var heights []uint32

	it := mid.IterForward()
	for it.Next(ctx) {
		heights = append(heights, it.Entry().Height())
	}

	require.NoError(t, it.Err())
	assert.Equal(t, []uint32{3, 4, 5}, heights)
}

func TestIterForwardWhile(t *testing.T) {
	ctx := context.Background()

	reader, seeder, _ := setupReader(t)
	seeder.SeedChain(ctx, 5)

	genesis, err := reader.IndexAtHeight(ctx, 0)
	require.NoError(t, err)

	var heights []uint32

	// the first entry failing the predicate is not yielded
	it := genesis.IterForwardWhile(func(entry *BlockIndex) bool {
		return entry.Height() < 3
	})
	for it.Next(ctx) {
		heights = append(heights, it.Entry().Height())
	}

	require.NoError(t, it.Err())
	assert.Equal(t, []uint32{0, 1, 2}, heights)

	assert.False(t, it.Next(ctx))
}

func TestIterBackwardWhile(t *testing.T) {
	ctx := context.Background()

	reader, seeder, tSettings := setupReader(t)
	seeder.SeedChain(ctx, 5)

	tip, err := reader.BestValidatedIndex(ctx)
	require.NoError(t, err)

	genesisTime := tSettings.ChainCfgParams.GenesisBlock.Header.Timestamp
	cutoff := genesisTime.Add(3 * 600 * time.Second)

	var heights []uint32

	it := tip.IterBackwardWhile(func(entry *BlockIndex) bool {
		return !entry.Timestamp().Before(cutoff)
	})
	for it.Next(ctx) {
		heights = append(heights, it.Entry().Height())
	}

	require.NoError(t, it.Err())
	assert.Equal(t, []uint32{5, 4, 3}, heights)
}

func TestIterWhileAllEntriesPass(t *testing.T) {
	ctx := context.Background()

	reader, seeder, _ := setupReader(t)
	seeder.SeedChain(ctx, 3)

	tip, err := reader.BestValidatedIndex(ctx)
	require.NoError(t, err)

	count := 0

	it := tip.IterBackwardWhile(func(*BlockIndex) bool { return true })
	for it.Next(ctx) {
		count++
	}

	// runs off the end of the chain without an error
	require.NoError(t, it.Err())
	assert.Equal(t, 4, count)
}

func TestIteratorErrorPropagation(t *testing.T) {
	ctx := context.Background()

	reader, seeder, _ := setupReader(t)
	seeder.SeedChain(ctx, 5)

	tip, err := reader.BestValidatedIndex(ctx)
	require.NoError(t, err)

	it := tip.IterBackward()
	require.True(t, it.Next(ctx))
	assert.Equal(t, uint32(5), it.Entry().Height())

	require.NoError(t, reader.Close(ctx))

	assert.False(t, it.Next(ctx))
	assert.True(t, errors.Is(it.Err(), errors.ErrClosed))

	t.Run("conditional iterators propagate too", func(t *testing.T) {
		cit := tip.IterForwardWhile(func(*BlockIndex) bool { return true })

		// the starting entry needs no engine access
		require.True(t, cit.Next(ctx))
		assert.Equal(t, uint32(5), cit.Entry().Height())

		assert.False(t, cit.Next(ctx))
		assert.True(t, errors.Is(cit.Err(), errors.ErrClosed))
	})
}

func TestIteratorUsageDoc(t *testing.T) {
	ctx := context.Background()

	reader, seeder, _ := setupReader(t)
	seeder.SeedChain(ctx, 2)

	tip, err := reader.BestValidatedIndex(ctx)
	require.NoError(t, err)

	// entries borrowed from the iterator remain usable after the loop
	var last *BlockIndex

	it := tip.IterBackward()
	for it.Next(ctx) {
		last = it.Entry()
	}

	require.NoError(t, it.Err())
	require.NotNil(t, last)
	assert.Equal(t, uint32(0), last.Height())

	_, err = last.Block(ctx)
	require.NoError(t, err)
}
