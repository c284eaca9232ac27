package logger

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsv-blockchain/go-blockreader/errors"
	"github.com/bsv-blockchain/go-blockreader/pkg/fileformat"
	"github.com/bsv-blockchain/go-blockreader/stores/blob/memory"
	"github.com/bsv-blockchain/go-blockreader/ulogger"
)

// captureLogger records debug lines so the tests can assert on what the
// wrapper logged.
type captureLogger struct {
	ulogger.TestLogger

	mu       sync.Mutex
	messages []string
}

func (l *captureLogger) Debugf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(l.messages, fmt.Sprintf(format, args...))
}

func (l *captureLogger) lastMessage() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.messages) == 0 {
		return ""
	}

	return l.messages[len(l.messages)-1]
}

func setupLogger() (*Logger, *captureLogger) {
	log := &captureLogger{}

	return New(log, memory.New()), log
}

func TestLoggedOperations(t *testing.T) {
	ctx := context.Background()
	key := []byte{0x01, 0x02, 0x03, 0x04}
	value := []byte("payload")

	t.Run("Set and Get", func(t *testing.T) {
		store, log := setupLogger()

		require.NoError(t, store.Set(ctx, key, fileformat.FileTypeBlock, value))
		assert.Contains(t, log.lastMessage(), "[BlobStore][logger][Set]")

		// keys are logged in reversed hex, the display convention for hashes
		assert.Contains(t, log.lastMessage(), "04030201")

		got, err := store.Get(ctx, key, fileformat.FileTypeBlock)
		require.NoError(t, err)
		assert.Equal(t, value, got)
		assert.Contains(t, log.lastMessage(), "[BlobStore][logger][Get]")
		assert.Contains(t, log.lastMessage(), "called from")
	})

	t.Run("Exists", func(t *testing.T) {
		store, log := setupLogger()

		exists, err := store.Exists(ctx, key, fileformat.FileTypeBlock)
		require.NoError(t, err)
		assert.False(t, exists)
		assert.Contains(t, log.lastMessage(), "exists false")

		require.NoError(t, store.Set(ctx, key, fileformat.FileTypeBlock, value))

		exists, err = store.Exists(ctx, key, fileformat.FileTypeBlock)
		require.NoError(t, err)
		assert.True(t, exists)
		assert.Contains(t, log.lastMessage(), "exists true")
	})

	t.Run("SetFromReader and GetIoReader", func(t *testing.T) {
		store, log := setupLogger()

		reader := io.NopCloser(strings.NewReader("streamed payload"))
		require.NoError(t, store.SetFromReader(ctx, key, fileformat.FileTypeUndo, reader))
		assert.Contains(t, log.lastMessage(), "[BlobStore][logger][SetFromReader]")

		rc, err := store.GetIoReader(ctx, key, fileformat.FileTypeUndo)
		require.NoError(t, err)
		assert.Contains(t, log.lastMessage(), "[BlobStore][logger][GetIoReader]")

		got, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, "streamed payload", string(got))
	})

	t.Run("Del", func(t *testing.T) {
		store, log := setupLogger()

		require.NoError(t, store.Set(ctx, key, fileformat.FileTypeBlock, value))
		require.NoError(t, store.Del(ctx, key, fileformat.FileTypeBlock))
		assert.Contains(t, log.lastMessage(), "[BlobStore][logger][Del]")

		exists, err := store.Exists(ctx, key, fileformat.FileTypeBlock)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("errors pass through untouched", func(t *testing.T) {
		store, log := setupLogger()

		_, err := store.Get(ctx, key, fileformat.FileTypeBlock)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrNotFound))
		assert.Contains(t, log.lastMessage(), "[BlobStore][logger][Get]")
	})

	t.Run("Health and Close", func(t *testing.T) {
		store, log := setupLogger()

		status, _, err := store.Health(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, 200, status)
		assert.Contains(t, log.lastMessage(), "[BlobStore][logger][Health]")

		require.NoError(t, store.Close(ctx))
		assert.Contains(t, log.lastMessage(), "[BlobStore][logger][Close]")
	})
}

func TestCaller(t *testing.T) {
	t.Run("reports the call site chain", func(t *testing.T) {
		result := caller()

		assert.NotEmpty(t, result)
		assert.Contains(t, result, "called from")
		assert.Contains(t, result, "testing.tRunner")

		for _, part := range strings.Split(result, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				assert.Contains(t, part, "called from")
				assert.Contains(t, part, ":")
			}
		}
	})

	t.Run("paths are trimmed", func(t *testing.T) {
		result := caller()

		assert.NotContains(t, result, "github.com/bsv-blockchain/go-blockreader/stores")
	})
}
