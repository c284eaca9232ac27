// Package options holds the configuration shared by all blob store backends.
//
// Two option kinds exist: StoreOption configures a store at construction time
// and FileOption adjusts a single operation. Both mutate the same Options
// struct, a store's defaults are merged with the per-call options on every
// operation.
package options

import (
	"path/filepath"

	"github.com/ordishs/go-utils"

	"github.com/bsv-blockchain/go-blockreader/errors"
	"github.com/bsv-blockchain/go-blockreader/pkg/fileformat"
)

// Options is the merged set of store defaults and per-call overrides.
type Options struct {
	// SubDirectory places files below an extra directory inside the store root.
	SubDirectory string

	// HashPrefix shards files into subdirectories named after the first n
	// characters of the hex encoded key. A negative value uses the last n
	// characters instead.
	HashPrefix int

	// AllowOverwrite permits replacing an existing blob instead of failing
	// with a blob-already-exists error.
	AllowOverwrite bool

	// SkipHeader stores the payload without the fileformat magic prefix.
	SkipHeader bool

	// Filename overrides the key derived file name.
	Filename string
}

// StoreOption configures defaults for every operation on a store.
type StoreOption func(*Options)

// FileOption adjusts a single store operation.
type FileOption func(*Options)

// NewStoreOptions builds an Options from store construction options.
func NewStoreOptions(opts ...StoreOption) *Options {
	options := &Options{}

	for _, opt := range opts {
		opt(options)
	}

	return options
}

// NewFileOptions builds an Options from per-call options only.
func NewFileOptions(opts ...FileOption) *Options {
	options := &Options{}

	for _, opt := range opts {
		opt(options)
	}

	return options
}

// MergeOptions copies the store defaults and applies the per-call options on
// top. The base options are never mutated.
func MergeOptions(base *Options, opts []FileOption) *Options {
	merged := &Options{}
	if base != nil {
		*merged = *base
	}

	for _, opt := range opts {
		opt(merged)
	}

	return merged
}

// WithDefaultSubDirectory sets the subdirectory every operation uses unless
// overridden per call.
func WithDefaultSubDirectory(dir string) StoreOption {
	return func(o *Options) {
		o.SubDirectory = dir
	}
}

// WithHashPrefix enables key based sharding into subdirectories. A positive
// prefix takes the first n hex characters of the key, a negative one the
// last n.
func WithHashPrefix(prefix int) StoreOption {
	return func(o *Options) {
		o.HashPrefix = prefix
	}
}

// WithDefaultAllowOverwrite sets whether blobs may be replaced by default.
func WithDefaultAllowOverwrite(allow bool) StoreOption {
	return func(o *Options) {
		o.AllowOverwrite = allow
	}
}

// WithSubDirectory places this operation's file below an extra directory.
func WithSubDirectory(dir string) FileOption {
	return func(o *Options) {
		o.SubDirectory = dir
	}
}

// WithFilename overrides the key derived file name for this operation.
func WithFilename(name string) FileOption {
	return func(o *Options) {
		o.Filename = name
	}
}

// WithSkipHeader stores or reads the payload without the fileformat magic.
func WithSkipHeader(skip bool) FileOption {
	return func(o *Options) {
		o.SkipHeader = skip
	}
}

// WithAllowOverwrite permits replacing an existing blob in this operation.
func WithAllowOverwrite(allow bool) FileOption {
	return func(o *Options) {
		o.AllowOverwrite = allow
	}
}

// CalculatePrefix returns the sharding directory for a file name. A positive
// HashPrefix takes the first n characters, a negative one the last n, zero
// disables sharding.
func (o *Options) CalculatePrefix(name string) string {
	if o.HashPrefix == 0 || name == "" {
		return ""
	}

	n := o.HashPrefix
	if n < 0 {
		n = -n
	}

	if n > len(name) {
		n = len(name)
	}

	if o.HashPrefix > 0 {
		return name[:n]
	}

	return name[len(name)-n:]
}

// ConstructFilename resolves the file path for a key below root, applying the
// subdirectory, hash sharding and extension rules. Keys are rendered in
// reversed hex, matching how block hashes are displayed.
func (o *Options) ConstructFilename(root string, key []byte, fileType fileformat.FileType) (string, error) {
	if len(key) == 0 && o.Filename == "" {
		return "", errors.NewInvalidArgumentError("key is empty and no filename override is set")
	}

	name := o.Filename
	if name == "" {
		name = utils.ReverseAndHexEncodeSlice(key)
	}

	dir := root
	if o.SubDirectory != "" {
		dir = filepath.Join(dir, o.SubDirectory)
	}

	if prefix := o.CalculatePrefix(name); prefix != "" {
		dir = filepath.Join(dir, prefix)
	}

	if fileType != fileformat.FileTypeUnknown {
		name = name + "." + fileType.String()
	}

	return filepath.Join(dir, name), nil
}
