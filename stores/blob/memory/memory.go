// Package memory implements an in-memory blob store, used by tests and as
// an ephemeral backend.
package memory

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/bsv-blockchain/go-blockreader/errors"
	"github.com/bsv-blockchain/go-blockreader/pkg/fileformat"
	"github.com/bsv-blockchain/go-blockreader/stores/blob/options"
)

// Memory stores blobs in a map keyed by key and file type. Counters track
// how often each operation ran, which tests use to assert access patterns.
type Memory struct {
	mu      sync.RWMutex
	blobs   map[string][]byte
	options *options.Options

	Counters   map[string]int
	countersMu sync.Mutex
}

func New(opts ...options.StoreOption) *Memory {
	return &Memory{
		blobs:    make(map[string][]byte),
		options:  options.NewStoreOptions(opts...),
		Counters: make(map[string]int),
	}
}

func (m *Memory) count(op string) {
	m.countersMu.Lock()
	m.Counters[op]++
	m.countersMu.Unlock()
}

func storeKey(key []byte, fileType fileformat.FileType, merged *options.Options) string {
	name := merged.Filename
	if name == "" {
		name = string(key)
	}

	return name + "." + fileType.String()
}

func (m *Memory) Health(_ context.Context, _ bool) (int, string, error) {
	m.count("health")

	return http.StatusOK, "Memory Store", nil
}

func (m *Memory) Close(_ context.Context) error {
	m.count("close")

	return nil
}

func (m *Memory) Exists(_ context.Context, key []byte, fileType fileformat.FileType, opts ...options.FileOption) (bool, error) {
	m.count("exists")

	merged := options.MergeOptions(m.options, opts)

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.blobs[storeKey(key, fileType, merged)]

	return ok, nil
}

func (m *Memory) Get(_ context.Context, key []byte, fileType fileformat.FileType, opts ...options.FileOption) ([]byte, error) {
	m.count("get")

	merged := options.MergeOptions(m.options, opts)

	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.blobs[storeKey(key, fileType, merged)]
	if !ok {
		return nil, errors.ErrNotFound
	}

	return b, nil
}

func (m *Memory) GetIoReader(ctx context.Context, key []byte, fileType fileformat.FileType, opts ...options.FileOption) (io.ReadCloser, error) {
	b, err := m.Get(ctx, key, fileType, opts...)
	if err != nil {
		return nil, err
	}

	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *Memory) Set(ctx context.Context, key []byte, fileType fileformat.FileType, value []byte, opts ...options.FileOption) error {
	m.count("set")

	merged := options.MergeOptions(m.options, opts)

	if !merged.AllowOverwrite {
		// match the behaviour of the other stores
		if exists, err := m.Exists(ctx, key, fileType, opts...); err != nil {
			return err
		} else if exists {
			return errors.NewBlobAlreadyExistsError("blob already exists")
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// copy, the caller may reuse the slice
	stored := make([]byte, len(value))
	copy(stored, value)

	m.blobs[storeKey(key, fileType, merged)] = stored

	return nil
}

func (m *Memory) SetFromReader(ctx context.Context, key []byte, fileType fileformat.FileType, reader io.ReadCloser, opts ...options.FileOption) error {
	defer reader.Close()

	b, err := io.ReadAll(reader)
	if err != nil {
		return errors.NewStorageError("failed to read data from reader", err)
	}

	return m.Set(ctx, key, fileType, b, opts...)
}

func (m *Memory) Del(_ context.Context, key []byte, fileType fileformat.FileType, opts ...options.FileOption) error {
	m.count("del")

	merged := options.MergeOptions(m.options, opts)

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.blobs, storeKey(key, fileType, merged))

	return nil
}

// Len returns the number of stored blobs.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.blobs)
}
