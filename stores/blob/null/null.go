// Package null implements a blob store that discards writes and never finds
// anything, for configurations that do not retain payload data.
package null

import (
	"context"
	"io"
	"net/http"

	"github.com/bsv-blockchain/go-blockreader/errors"
	"github.com/bsv-blockchain/go-blockreader/pkg/fileformat"
	"github.com/bsv-blockchain/go-blockreader/stores/blob/options"
	"github.com/bsv-blockchain/go-blockreader/ulogger"
)

type Null struct {
	logger ulogger.Logger
}

func New(logger ulogger.Logger) (*Null, error) {
	return &Null{
		logger: logger.New("null"),
	}, nil
}

func (n *Null) Health(_ context.Context, _ bool) (int, string, error) {
	return http.StatusOK, "Null Store", nil
}

func (n *Null) Close(_ context.Context) error {
	return nil
}

func (n *Null) Exists(_ context.Context, _ []byte, _ fileformat.FileType, _ ...options.FileOption) (bool, error) {
	return false, nil
}

func (n *Null) Get(_ context.Context, key []byte, fileType fileformat.FileType, _ ...options.FileOption) ([]byte, error) {
	return nil, errors.NewNotFoundError("null store holds no %s data", fileType)
}

func (n *Null) GetIoReader(_ context.Context, key []byte, fileType fileformat.FileType, _ ...options.FileOption) (io.ReadCloser, error) {
	return nil, errors.NewNotFoundError("null store holds no %s data", fileType)
}

func (n *Null) Set(_ context.Context, _ []byte, _ fileformat.FileType, _ []byte, _ ...options.FileOption) error {
	return nil
}

func (n *Null) SetFromReader(_ context.Context, _ []byte, _ fileformat.FileType, reader io.ReadCloser, _ ...options.FileOption) error {
	return reader.Close()
}

func (n *Null) Del(_ context.Context, _ []byte, _ fileformat.FileType, _ ...options.FileOption) error {
	return nil
}
