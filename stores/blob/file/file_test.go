package file

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsv-blockchain/go-blockreader/errors"
	"github.com/bsv-blockchain/go-blockreader/pkg/fileformat"
	"github.com/bsv-blockchain/go-blockreader/stores/blob/options"
	"github.com/bsv-blockchain/go-blockreader/ulogger"
)

func newTestStore(t *testing.T, query string, opts ...options.StoreOption) *File {
	t.Helper()

	storeURL, err := url.Parse("file://" + t.TempDir() + query)
	require.NoError(t, err)

	store, err := New(ulogger.TestLogger{}, storeURL, opts...)
	require.NoError(t, err)

	return store
}

func TestFileSetGet(t *testing.T) {
	store := newTestStore(t, "")
	ctx := context.Background()

	key := []byte{0x01, 0x02, 0x03, 0x04}
	value := []byte("block payload")

	require.NoError(t, store.Set(ctx, key, fileformat.FileTypeBlock, value))

	got, err := store.Get(ctx, key, fileformat.FileTypeBlock)
	require.NoError(t, err)
	assert.Equal(t, value, got)

	exists, err := store.Exists(ctx, key, fileformat.FileTypeBlock)
	require.NoError(t, err)
	assert.True(t, exists)

	// the same key under a different file type is a different blob
	exists, err = store.Exists(ctx, key, fileformat.FileTypeUndo)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFileGetNotFound(t *testing.T) {
	store := newTestStore(t, "")

	_, err := store.Get(context.Background(), []byte{0xaa}, fileformat.FileTypeBlock)
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestFileSetWritesHeaderAndChecksum(t *testing.T) {
	store := newTestStore(t, "")
	ctx := context.Background()

	key := []byte{0xde, 0xad}
	require.NoError(t, store.Set(ctx, key, fileformat.FileTypeBlock, []byte("payload")))

	filename, err := store.options.ConstructFilename(store.path, key, fileformat.FileTypeBlock)
	require.NoError(t, err)

	raw, err := os.ReadFile(filename)
	require.NoError(t, err)

	// on disk the payload is prefixed with the 8 byte magic
	header, err := fileformat.ReadHeaderFromBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, fileformat.FileTypeBlock, header.FileType())
	assert.Equal(t, []byte("payload"), raw[header.Size():])

	// and a checksum sidecar exists
	sidecar, err := os.ReadFile(filename + checksumExtension)
	require.NoError(t, err)
	assert.Contains(t, string(sidecar), filepath.Base(filename))
}

func TestFileHeaderMismatch(t *testing.T) {
	store := newTestStore(t, "")
	ctx := context.Background()

	// craft an undo file carrying a block magic
	key := []byte{0xbe, 0xef}

	filename, err := store.options.ConstructFilename(store.path, key, fileformat.FileTypeUndo)
	require.NoError(t, err)

	header := fileformat.NewHeader(fileformat.FileTypeBlock)
	require.NoError(t, os.WriteFile(filename, append(header.Bytes(), []byte("payload")...), 0600))

	_, err = store.Get(ctx, key, fileformat.FileTypeUndo)
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrBlobError))
}

func TestFileSkipHeader(t *testing.T) {
	store := newTestStore(t, "")
	ctx := context.Background()

	key := []byte{0x11, 0x22}
	require.NoError(t, store.Set(ctx, key, fileformat.FileTypeDat, []byte("bare"), options.WithSkipHeader(true)))

	filename, err := store.options.ConstructFilename(store.path, key, fileformat.FileTypeDat)
	require.NoError(t, err)

	raw, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, []byte("bare"), raw)

	got, err := store.Get(ctx, key, fileformat.FileTypeDat, options.WithSkipHeader(true))
	require.NoError(t, err)
	assert.Equal(t, []byte("bare"), got)
}

func TestFileOverwrite(t *testing.T) {
	store := newTestStore(t, "")
	ctx := context.Background()

	key := []byte{0x55}
	require.NoError(t, store.Set(ctx, key, fileformat.FileTypeBlock, []byte("one")))

	err := store.Set(ctx, key, fileformat.FileTypeBlock, []byte("two"))
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrBlobAlreadyExists))

	require.NoError(t, store.Set(ctx, key, fileformat.FileTypeBlock, []byte("two"), options.WithAllowOverwrite(true)))

	got, err := store.Get(ctx, key, fileformat.FileTypeBlock)
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)
}

func TestFileDel(t *testing.T) {
	store := newTestStore(t, "")
	ctx := context.Background()

	key := []byte{0x77}
	require.NoError(t, store.Set(ctx, key, fileformat.FileTypeBlock, []byte("data")))
	require.NoError(t, store.Del(ctx, key, fileformat.FileTypeBlock))

	exists, err := store.Exists(ctx, key, fileformat.FileTypeBlock)
	require.NoError(t, err)
	assert.False(t, exists)

	// deleting again is not an error
	require.NoError(t, store.Del(ctx, key, fileformat.FileTypeBlock))
}

func TestFileHashPrefixSharding(t *testing.T) {
	store := newTestStore(t, "?hashPrefix=2")
	ctx := context.Background()

	// keys display reversed, so the shard directory is named after the
	// last raw byte
	key := []byte{0x01, 0x02, 0x03, 0xab}
	require.NoError(t, store.Set(ctx, key, fileformat.FileTypeBlock, []byte("sharded")))

	shardDir := filepath.Join(store.path, "ab")
	entries, err := os.ReadDir(shardDir)
	require.NoError(t, err)
	require.Len(t, entries, 2) // blob and checksum sidecar

	got, err := store.Get(ctx, key, fileformat.FileTypeBlock)
	require.NoError(t, err)
	assert.Equal(t, []byte("sharded"), got)
}

func TestFileSetFromReader(t *testing.T) {
	store := newTestStore(t, "")
	ctx := context.Background()

	key := []byte{0x99}
	reader := io.NopCloser(bytes.NewReader([]byte("streamed")))

	require.NoError(t, store.SetFromReader(ctx, key, fileformat.FileTypeBlock, reader))

	got, err := store.GetIoReader(ctx, key, fileformat.FileTypeBlock)
	require.NoError(t, err)

	defer got.Close()

	data, err := io.ReadAll(got)
	require.NoError(t, err)
	assert.Equal(t, []byte("streamed"), data)
}

func TestFileHealth(t *testing.T) {
	store := newTestStore(t, "")

	status, msg, err := store.Health(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, msg, "Healthy")
}

func TestFileNewNilURL(t *testing.T) {
	_, err := New(ulogger.TestLogger{}, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrConfiguration))
}
