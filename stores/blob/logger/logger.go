// Package logger provides a debugging wrapper for blob stores.
//
// The wrapper intercepts every operation, logs the key, file type, result
// and the call site at debug level, then delegates to the wrapped store. It
// is applied by the blob factory when the store URL carries logger=true.
package logger

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ordishs/go-utils"

	"github.com/bsv-blockchain/go-blockreader/pkg/fileformat"
	"github.com/bsv-blockchain/go-blockreader/stores/blob/options"
	"github.com/bsv-blockchain/go-blockreader/ulogger"
)

// blobStore mirrors blob.Store, declared locally to avoid an import cycle
// with the factory.
type blobStore interface {
	Health(ctx context.Context, checkLiveness bool) (int, string, error)
	Exists(ctx context.Context, key []byte, fileType fileformat.FileType, opts ...options.FileOption) (bool, error)
	Get(ctx context.Context, key []byte, fileType fileformat.FileType, opts ...options.FileOption) ([]byte, error)
	GetIoReader(ctx context.Context, key []byte, fileType fileformat.FileType, opts ...options.FileOption) (io.ReadCloser, error)
	Set(ctx context.Context, key []byte, fileType fileformat.FileType, value []byte, opts ...options.FileOption) error
	SetFromReader(ctx context.Context, key []byte, fileType fileformat.FileType, value io.ReadCloser, opts ...options.FileOption) error
	Del(ctx context.Context, key []byte, fileType fileformat.FileType, opts ...options.FileOption) error
	Close(ctx context.Context) error
}

// Logger wraps a blob store and logs every operation at debug level.
type Logger struct {
	logger ulogger.Logger
	store  blobStore
}

// New wraps store with debug logging.
func New(logger ulogger.Logger, store blobStore) *Logger {
	return &Logger{
		logger: logger,
		store:  store,
	}
}

// caller walks up the stack to report where a store operation originated.
func caller() string {
	var callers []string

	const depth = 5

	for i := 0; i < depth; i++ {
		pc, file, line, ok := runtime.Caller(2 + i)
		if !ok {
			break
		}

		folders := strings.Split(file, string(filepath.Separator))
		if len(folders) > 3 {
			folders = folders[len(folders)-3:]
		}

		file = filepath.Join(folders...)

		funcName := runtime.FuncForPC(pc).Name()
		funcPaths := strings.Split(funcName, "/")
		funcName = funcPaths[len(funcPaths)-1]

		callers = append(callers, fmt.Sprintf("called from %s: %s:%d", funcName, file, line))
	}

	return strings.Join(callers, ",")
}

func (s *Logger) Health(ctx context.Context, checkLiveness bool) (int, string, error) {
	s.logger.Debugf("[BlobStore][logger][Health] : %s", caller())

	return s.store.Health(ctx, checkLiveness)
}

func (s *Logger) Exists(ctx context.Context, key []byte, fileType fileformat.FileType, opts ...options.FileOption) (bool, error) {
	exists, err := s.store.Exists(ctx, key, fileType, opts...)
	s.logger.Debugf("[BlobStore][logger][Exists] key %s, fileType %s, exists %t, err %v : %s", utils.ReverseAndHexEncodeSlice(key), fileType, exists, err, caller())

	return exists, err
}

func (s *Logger) Get(ctx context.Context, key []byte, fileType fileformat.FileType, opts ...options.FileOption) ([]byte, error) {
	value, err := s.store.Get(ctx, key, fileType, opts...)
	s.logger.Debugf("[BlobStore][logger][Get] key %s, fileType %s, err %v : %s", utils.ReverseAndHexEncodeSlice(key), fileType, err, caller())

	return value, err
}

func (s *Logger) GetIoReader(ctx context.Context, key []byte, fileType fileformat.FileType, opts ...options.FileOption) (io.ReadCloser, error) {
	reader, err := s.store.GetIoReader(ctx, key, fileType, opts...)
	s.logger.Debugf("[BlobStore][logger][GetIoReader] key %s, fileType %s, err %v : %s", utils.ReverseAndHexEncodeSlice(key), fileType, err, caller())

	return reader, err
}

func (s *Logger) Set(ctx context.Context, key []byte, fileType fileformat.FileType, value []byte, opts ...options.FileOption) error {
	err := s.store.Set(ctx, key, fileType, value, opts...)
	s.logger.Debugf("[BlobStore][logger][Set] key %s, fileType %s, err %v : %s", utils.ReverseAndHexEncodeSlice(key), fileType, err, caller())

	return err
}

func (s *Logger) SetFromReader(ctx context.Context, key []byte, fileType fileformat.FileType, reader io.ReadCloser, opts ...options.FileOption) error {
	err := s.store.SetFromReader(ctx, key, fileType, reader, opts...)
	s.logger.Debugf("[BlobStore][logger][SetFromReader] key %s, fileType %s, err %v : %s", utils.ReverseAndHexEncodeSlice(key), fileType, err, caller())

	return err
}

func (s *Logger) Del(ctx context.Context, key []byte, fileType fileformat.FileType, opts ...options.FileOption) error {
	err := s.store.Del(ctx, key, fileType, opts...)
	s.logger.Debugf("[BlobStore][logger][Del] key %s, fileType %s, err %v : %s", utils.ReverseAndHexEncodeSlice(key), fileType, err, caller())

	return err
}

func (s *Logger) Close(ctx context.Context) error {
	s.logger.Debugf("[BlobStore][logger][Close] : %s", caller())

	return s.store.Close(ctx)
}
