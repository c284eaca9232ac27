// Package file implements a filesystem backed blob store.
//
// Blobs are written atomically: data is streamed to a temporary file which is
// renamed into place once complete, so readers never observe partial writes.
// Every blob is prefixed with its fileformat magic and accompanied by a
// .sha256 sidecar with the checksum of the stored bytes. Files can be
// sharded into subdirectories by a prefix or suffix of the hex encoded key,
// which keeps directory sizes manageable for large chains.
package file

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ordishs/go-utils"

	"github.com/bsv-blockchain/go-blockreader/errors"
	"github.com/bsv-blockchain/go-blockreader/pkg/fileformat"
	"github.com/bsv-blockchain/go-blockreader/stores/blob/options"
	"github.com/bsv-blockchain/go-blockreader/ulogger"
)

const checksumExtension = ".sha256"

// fileSemaphore limits concurrent file operations to avoid exhausting file
// descriptors under load.
var fileSemaphore = make(chan struct{}, 1024)

// File is a blob store backed by the local filesystem.
type File struct {
	// path is the base directory blobs are stored under
	path string
	// logger records operations and recoverable errors
	logger ulogger.Logger
	// options holds the store wide defaults merged into every operation
	options *options.Options
}

// New creates a filesystem blob store rooted at the URL path. The URL host
// "." marks the path as relative to the working directory.
//
// Supported query parameters:
//   - hashPrefix=n: shard files into directories named after the first n hex
//     characters of the key
//   - hashSuffix=n: shard by the last n hex characters instead
func New(logger ulogger.Logger, storeURL *url.URL, opts ...options.StoreOption) (*File, error) {
	if storeURL == nil {
		return nil, errors.NewConfigurationError("storeURL is nil")
	}

	logger = logger.New("file")

	var path string
	if storeURL.Host == "." {
		path = storeURL.Path[1:] // relative path
	} else {
		path = storeURL.Path // absolute path
	}

	if path == "" {
		return nil, errors.NewInvalidPathError("store URL %q has no path", storeURL.String())
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, errors.NewInvalidPathError("[File] failed to create directory %s", path, err)
	}

	storeOptions := options.NewStoreOptions(opts...)

	if hashPrefix := storeURL.Query().Get("hashPrefix"); len(hashPrefix) > 0 {
		val, err := strconv.ParseInt(hashPrefix, 10, 64)
		if err != nil {
			return nil, errors.NewConfigurationError("[File] failed to parse hashPrefix", err)
		}

		storeOptions.HashPrefix = int(val)
	}

	if hashSuffix := storeURL.Query().Get("hashSuffix"); len(hashSuffix) > 0 {
		val, err := strconv.ParseInt(hashSuffix, 10, 64)
		if err != nil {
			return nil, errors.NewConfigurationError("[File] failed to parse hashSuffix", err)
		}

		storeOptions.HashPrefix = -int(val)
	}

	if len(storeOptions.SubDirectory) > 0 {
		if err := os.MkdirAll(filepath.Join(path, storeOptions.SubDirectory), 0755); err != nil {
			return nil, errors.NewInvalidPathError("[File] failed to create sub directory", err)
		}
	}

	return &File{
		path:    path,
		logger:  logger,
		options: storeOptions,
	}, nil
}

// Health verifies the store directory exists and supports a full
// write/read/delete cycle through a temporary file.
func (s *File) Health(_ context.Context, _ bool) (int, string, error) {
	fileSemaphore <- struct{}{}
	defer func() {
		<-fileSemaphore
	}()

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return http.StatusInternalServerError, "File Store: Path does not exist", err
	}

	tempFile, err := os.CreateTemp(s.path, "health-check-*.tmp")
	if err != nil {
		return http.StatusInternalServerError, "File Store: Unable to create temporary file", err
	}

	tempFileName := tempFile.Name()
	defer os.Remove(tempFileName)

	testData := []byte("health check")
	if _, err = tempFile.Write(testData); err != nil {
		return http.StatusInternalServerError, "File Store: Unable to write to file", err
	}

	tempFile.Close()

	readData, err := os.ReadFile(tempFileName)
	if err != nil {
		return http.StatusInternalServerError, "File Store: Unable to read file", err
	}

	if !bytes.Equal(readData, testData) {
		return http.StatusInternalServerError, "File Store: Data integrity check failed", nil
	}

	if err = os.Remove(tempFileName); err != nil {
		return http.StatusInternalServerError, "File Store: Unable to delete file", err
	}

	return http.StatusOK, "File Store: Healthy", nil
}

func (s *File) Close(_ context.Context) error {
	return nil
}

func (s *File) errorOnOverwrite(filename string, merged *options.Options) error {
	if !merged.AllowOverwrite {
		if _, err := os.Stat(filename); err == nil {
			return errors.NewBlobAlreadyExistsError("[File] [%s] already exists in store", filename)
		}
	}

	return nil
}

// SetFromReader streams a blob to disk. Data is written to a temporary file
// first and renamed into place, with the fileformat magic prefixed unless
// the SkipHeader option is set.
func (s *File) SetFromReader(_ context.Context, key []byte, fileType fileformat.FileType, reader io.ReadCloser, opts ...options.FileOption) error {
	fileSemaphore <- struct{}{}
	defer func() {
		<-fileSemaphore
	}()

	defer reader.Close()

	merged := options.MergeOptions(s.options, opts)

	filename, err := merged.ConstructFilename(s.path, key, fileType)
	if err != nil {
		return errors.NewStorageError("[File][SetFromReader] [%s] failed to get file name", utils.ReverseAndHexEncodeSlice(key), err)
	}

	if err = s.errorOnOverwrite(filename, merged); err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return errors.NewInvalidPathError("[File][SetFromReader] [%s] failed to create directory", filename, err)
	}

	// the random suffix keeps concurrent writers of the same key from
	// clobbering each other's temporary file
	randNum, err := rand.Int(rand.Reader, big.NewInt(1<<63-1))
	if err != nil {
		return errors.NewStorageError("[File][SetFromReader] failed to generate random number", err)
	}

	tmpFilename := fmt.Sprintf("%s.%d.tmp", filename, randNum)

	file, err := os.Create(tmpFilename)
	if err != nil {
		return errors.NewStorageError("[File][SetFromReader] [%s] failed to create file", filename, err)
	}
	defer file.Close()

	hasher := sha256.New()
	writer := io.MultiWriter(file, hasher)

	if !merged.SkipHeader {
		header := fileformat.NewHeader(fileType)
		if err = header.Write(writer); err != nil {
			return errors.NewStorageError("[File][SetFromReader] [%s] failed to write header to file", filename, err)
		}
	}

	if _, err = io.Copy(writer, reader); err != nil {
		return errors.NewStorageError("[File][SetFromReader] [%s] failed to write data to file", filename, err)
	}

	if err = file.Close(); err != nil {
		return errors.NewStorageError("[File][SetFromReader] [%s] failed to close file", tmpFilename, err)
	}

	if err = os.Rename(tmpFilename, filename); err != nil {
		// another process may have created the file before us
		if _, statErr := os.Stat(filename); statErr != nil {
			return errors.NewStorageError("[File][SetFromReader] [%s] failed to rename file from tmp", filename, err)
		}

		s.logger.Warnf("[File][SetFromReader] [%s] already exists so another process created it first", filename)
	}

	if err = s.writeHashFile(hasher, filename); err != nil {
		return errors.NewStorageError("[File][SetFromReader] failed to write hash file", err)
	}

	return nil
}

// Set stores a blob from a byte slice.
func (s *File) Set(ctx context.Context, key []byte, fileType fileformat.FileType, value []byte, opts ...options.FileOption) error {
	reader := io.NopCloser(bytes.NewReader(value))

	return s.SetFromReader(ctx, key, fileType, reader, opts...)
}

func (s *File) writeHashFile(hasher hash.Hash, filename string) error {
	base := filepath.Base(filename)

	// the two spaces match the sha256sum file format
	hashStr := fmt.Sprintf("%x  %s\n", hasher.Sum(nil), base)

	hashFilename := filename + checksumExtension
	tmpHashFilename := hashFilename + ".tmp"

	//nolint:gosec // G306: checksum sidecars are world readable by design
	if err := os.WriteFile(tmpHashFilename, []byte(hashStr), 0644); err != nil {
		return errors.NewStorageError("[File] failed to write hash file", err)
	}

	if err := os.Rename(tmpHashFilename, hashFilename); err != nil {
		if _, statErr := os.Stat(hashFilename); statErr != nil {
			return errors.NewStorageError("[File] failed to rename hash file", err)
		}

		s.logger.Warnf("[File] hash file %s already exists so another process created it first", hashFilename)
	}

	return nil
}

// GetIoReader opens a blob for streaming. The fileformat magic is read and
// validated against the requested type, so the returned reader yields the
// payload only.
func (s *File) GetIoReader(_ context.Context, key []byte, fileType fileformat.FileType, opts ...options.FileOption) (io.ReadCloser, error) {
	fileSemaphore <- struct{}{}
	defer func() {
		<-fileSemaphore
	}()

	merged := options.MergeOptions(s.options, opts)

	fileName, err := merged.ConstructFilename(s.path, key, fileType)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrNotFound
		}

		return nil, errors.NewStorageError("[File][GetIoReader] [%s] failed to open file", fileName, err)
	}

	if !merged.SkipHeader {
		if err = s.validateFileHeader(f, fileName, fileType); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

func (s *File) validateFileHeader(f io.Reader, fileName string, fileType fileformat.FileType) error {
	header := &fileformat.Header{}
	if err := header.Read(f); err != nil {
		return errors.NewBlobError("[File][GetIoReader] [%s] missing or invalid header", fileName, err)
	}

	if header.FileType() != fileType {
		return errors.NewBlobError("[File][GetIoReader] [%s] header filetype mismatch: got %s, want %s", fileName, header.FileType(), fileType)
	}

	return nil
}

// Get reads a whole blob into memory.
func (s *File) Get(ctx context.Context, key []byte, fileType fileformat.FileType, opts ...options.FileOption) ([]byte, error) {
	fileReader, err := s.GetIoReader(ctx, key, fileType, opts...)
	if err != nil {
		return nil, err
	}

	defer fileReader.Close()

	var fileData bytes.Buffer

	if _, err = io.Copy(&fileData, fileReader); err != nil {
		return nil, errors.NewStorageError("[File][Get] failed to read data from file reader", err)
	}

	return fileData.Bytes(), nil
}

// Exists checks for the blob file without opening it.
func (s *File) Exists(_ context.Context, key []byte, fileType fileformat.FileType, opts ...options.FileOption) (bool, error) {
	fileSemaphore <- struct{}{}
	defer func() {
		<-fileSemaphore
	}()

	merged := options.MergeOptions(s.options, opts)

	fileName, err := merged.ConstructFilename(s.path, key, fileType)
	if err != nil {
		return false, err
	}

	if _, err = os.Stat(fileName); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, errors.NewStorageError("[File][Exists] [%s] failed to stat file", fileName, err)
	}

	return true, nil
}

// Del removes the blob and its checksum sidecar. A missing blob is treated
// as already deleted.
func (s *File) Del(_ context.Context, key []byte, fileType fileformat.FileType, opts ...options.FileOption) error {
	fileSemaphore <- struct{}{}
	defer func() {
		<-fileSemaphore
	}()

	s.logger.Debugf("[File] Del: %s", utils.ReverseAndHexEncodeSlice(key))

	merged := options.MergeOptions(s.options, opts)

	fileName, err := merged.ConstructFilename(s.path, key, fileType)
	if err != nil {
		return err
	}

	_ = os.Remove(fileName + checksumExtension)

	if err = os.Remove(fileName); err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return errors.NewStorageError("[File][Del] [%s] failed to remove file", fileName, err)
	}

	return nil
}
