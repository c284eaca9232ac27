package blob

import (
	"net/url"

	"github.com/bsv-blockchain/go-blockreader/errors"
	"github.com/bsv-blockchain/go-blockreader/stores/blob/file"
	"github.com/bsv-blockchain/go-blockreader/stores/blob/logger"
	"github.com/bsv-blockchain/go-blockreader/stores/blob/memory"
	"github.com/bsv-blockchain/go-blockreader/stores/blob/null"
	"github.com/bsv-blockchain/go-blockreader/stores/blob/options"
	"github.com/bsv-blockchain/go-blockreader/ulogger"
)

// NewStore creates a blob store from a URL. The scheme selects the backend:
// null, memory or file. Adding logger=true to the query wraps the store with
// debug logging of every operation.
func NewStore(log ulogger.Logger, storeURL *url.URL, opts ...options.StoreOption) (Store, error) {
	if storeURL == nil {
		return nil, errors.NewConfigurationError("storeURL is nil")
	}

	var (
		store Store
		err   error
	)

	switch storeURL.Scheme {
	case "null":
		store, err = null.New(log)
		if err != nil {
			return nil, errors.NewStorageError("error creating null blob store", err)
		}
	case "memory":
		store = memory.New(opts...)
	case "file":
		store, err = file.New(log, storeURL, opts...)
		if err != nil {
			return nil, errors.NewStorageError("error creating file blob store", err)
		}
	default:
		return nil, errors.NewConfigurationError("unknown blob store scheme %q", storeURL.Scheme)
	}

	if storeURL.Query().Get("logger") == "true" {
		store = logger.New(log, store)
	}

	return store, nil
}
