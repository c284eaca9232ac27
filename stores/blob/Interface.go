// Package blob provides content addressed storage for block and undo
// payloads with interchangeable backends.
//
// Every payload is stored under a key (normally a block hash) together with a
// fileformat.FileType that selects the file extension and the magic header
// prefixed to the data. Backends include:
//   - file: persistent filesystem storage, the production default
//   - memory: in-memory storage for tests and ephemeral data
//   - null: a no-op sink
//
// Stores are constructed from a URL via NewStore, the scheme picks the
// backend and query parameters configure it.
package blob

import (
	"context"
	"io"

	"github.com/bsv-blockchain/go-blockreader/pkg/fileformat"
	"github.com/bsv-blockchain/go-blockreader/stores/blob/options"
)

// Store is the interface all blob storage backends implement.
type Store interface {
	// Health reports whether the store can serve reads and writes. It
	// returns an HTTP status code, a human readable message and any error
	// encountered.
	Health(ctx context.Context, checkLiveness bool) (int, string, error)

	// Exists checks whether a blob is present without reading it.
	Exists(ctx context.Context, key []byte, fileType fileformat.FileType, opts ...options.FileOption) (bool, error)

	// Get reads a whole blob into memory. The fileformat header is
	// validated and stripped. Missing blobs return ErrNotFound.
	Get(ctx context.Context, key []byte, fileType fileformat.FileType, opts ...options.FileOption) ([]byte, error)

	// GetIoReader streams a blob. The caller must close the reader.
	GetIoReader(ctx context.Context, key []byte, fileType fileformat.FileType, opts ...options.FileOption) (io.ReadCloser, error)

	// Set stores a blob, prefixing it with the fileformat magic for its
	// type. Overwrites fail with ErrBlobAlreadyExists unless allowed by
	// options.
	Set(ctx context.Context, key []byte, fileType fileformat.FileType, value []byte, opts ...options.FileOption) error

	// SetFromReader stores a blob from a stream, closing the reader when
	// done.
	SetFromReader(ctx context.Context, key []byte, fileType fileformat.FileType, value io.ReadCloser, opts ...options.FileOption) error

	// Del removes a blob. Deleting a missing blob is not an error.
	Del(ctx context.Context, key []byte, fileType fileformat.FileType, opts ...options.FileOption) error

	// Close releases the store's resources.
	Close(ctx context.Context) error
}
