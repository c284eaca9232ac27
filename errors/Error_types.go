package errors

var (
	ErrUnknown           = New(ERR_UNKNOWN, "unknown error")
	ErrError             = New(ERR_ERROR, "generic error")
	ErrInvalidArgument   = New(ERR_INVALID_ARGUMENT, "invalid argument")
	ErrNotFound          = New(ERR_NOT_FOUND, "not found")
	ErrProcessing        = New(ERR_PROCESSING, "error processing")
	ErrConfiguration     = New(ERR_CONFIGURATION, "configuration error")
	ErrServiceError      = New(ERR_SERVICE_ERROR, "service error")
	ErrContextCanceled   = New(ERR_CONTEXT_CANCELED, "context canceled")
	ErrInternal          = New(ERR_INTERNAL, "internal kernel error")
	ErrChainParams       = New(ERR_CHAIN_PARAMS, "invalid chain parameters")
	ErrBlockNotFound     = New(ERR_BLOCK_NOT_FOUND, "block not found")
	ErrBlockExists       = New(ERR_BLOCK_EXISTS, "block exists")
	ErrReadFailed        = New(ERR_READ_FAILED, "failed to read block data")
	ErrOutOfBounds       = New(ERR_OUT_OF_BOUNDS, "index out of bounds")
	ErrTxIndexOutOfRange = New(ERR_TX_INDEX_OUT_OF_RANGE, "transaction index out of range")
	ErrInvalidLength     = New(ERR_INVALID_LENGTH, "invalid length")
	ErrDataIntegrity     = New(ERR_DATA_INTEGRITY, "data integrity error")
	ErrClosed            = New(ERR_CLOSED, "reader is closed")
	ErrInvalidPath       = New(ERR_INVALID_PATH, "invalid path")
	ErrStorageError      = New(ERR_STORAGE_ERROR, "storage error")
	ErrStorageUnavail    = New(ERR_STORAGE_UNAVAILABLE, "storage unavailable")
	ErrBlobError         = New(ERR_BLOB_ERROR, "blob error")
	ErrBlobAlreadyExists = New(ERR_BLOB_ALREADY_EXISTS, "blob already exists")
)

// errors initialization functions

func NewUnknownError(message string, params ...interface{}) error {
	return New(ERR_UNKNOWN, message, params...)
}
func NewError(message string, params ...interface{}) error {
	return New(ERR_ERROR, message, params...)
}
func NewInvalidArgumentError(message string, params ...interface{}) error {
	return New(ERR_INVALID_ARGUMENT, message, params...)
}
func NewNotFoundError(message string, params ...interface{}) error {
	return New(ERR_NOT_FOUND, message, params...)
}
func NewProcessingError(message string, params ...interface{}) error {
	return New(ERR_PROCESSING, message, params...)
}
func NewConfigurationError(message string, params ...interface{}) error {
	return New(ERR_CONFIGURATION, message, params...)
}
func NewServiceError(message string, params ...interface{}) error {
	return New(ERR_SERVICE_ERROR, message, params...)
}
func NewContextCanceledError(message string, params ...interface{}) error {
	return New(ERR_CONTEXT_CANCELED, message, params...)
}
func NewInternalError(message string, params ...interface{}) error {
	return New(ERR_INTERNAL, message, params...)
}
func NewChainParamsError(message string, params ...interface{}) error {
	return New(ERR_CHAIN_PARAMS, message, params...)
}
func NewBlockNotFoundError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_NOT_FOUND, message, params...)
}
func NewBlockExistsError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_EXISTS, message, params...)
}
func NewReadFailedError(message string, params ...interface{}) error {
	return New(ERR_READ_FAILED, message, params...)
}
func NewOutOfBoundsError(message string, params ...interface{}) error {
	return New(ERR_OUT_OF_BOUNDS, message, params...)
}
func NewTxIndexOutOfRangeError(message string, params ...interface{}) error {
	return New(ERR_TX_INDEX_OUT_OF_RANGE, message, params...)
}
func NewInvalidLengthError(message string, params ...interface{}) error {
	return New(ERR_INVALID_LENGTH, message, params...)
}
func NewDataIntegrityError(message string, params ...interface{}) error {
	return New(ERR_DATA_INTEGRITY, message, params...)
}
func NewClosedError(message string, params ...interface{}) error {
	return New(ERR_CLOSED, message, params...)
}
func NewInvalidPathError(message string, params ...interface{}) error {
	return New(ERR_INVALID_PATH, message, params...)
}
func NewStorageError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_ERROR, message, params...)
}
func NewStorageUnavailableError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_UNAVAILABLE, message, params...)
}
func NewBlobError(message string, params ...interface{}) error {
	return New(ERR_BLOB_ERROR, message, params...)
}
func NewBlobAlreadyExistsError(message string, params ...interface{}) error {
	return New(ERR_BLOB_ALREADY_EXISTS, message, params...)
}
