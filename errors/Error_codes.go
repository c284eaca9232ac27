package errors

import "fmt"

// ERR is the numeric error code carried by every Error. Codes are stable and
// grouped by concern: generic codes below 20, chain and block reading codes
// from 20, storage codes from 40.
type ERR int32

const (
	ERR_UNKNOWN          ERR = 0
	ERR_ERROR            ERR = 1
	ERR_INVALID_ARGUMENT ERR = 2
	ERR_NOT_FOUND        ERR = 3
	ERR_PROCESSING       ERR = 4
	ERR_CONFIGURATION    ERR = 5
	ERR_SERVICE_ERROR    ERR = 6
	ERR_CONTEXT_CANCELED ERR = 7

	ERR_INTERNAL              ERR = 20
	ERR_CHAIN_PARAMS          ERR = 21
	ERR_BLOCK_NOT_FOUND       ERR = 22
	ERR_BLOCK_EXISTS          ERR = 23
	ERR_READ_FAILED           ERR = 24
	ERR_OUT_OF_BOUNDS         ERR = 25
	ERR_TX_INDEX_OUT_OF_RANGE ERR = 26
	ERR_INVALID_LENGTH        ERR = 27
	ERR_DATA_INTEGRITY        ERR = 28
	ERR_CLOSED                ERR = 29

	ERR_INVALID_PATH        ERR = 40
	ERR_STORAGE_ERROR       ERR = 41
	ERR_STORAGE_UNAVAILABLE ERR = 42
	ERR_BLOB_ERROR          ERR = 43
	ERR_BLOB_ALREADY_EXISTS ERR = 44
)

// ERR_name maps error codes to their names. New must find the code in here,
// otherwise the error is constructed with an "invalid error code" message.
var ERR_name = map[int32]string{
	0:  "UNKNOWN",
	1:  "ERROR",
	2:  "INVALID_ARGUMENT",
	3:  "NOT_FOUND",
	4:  "PROCESSING",
	5:  "CONFIGURATION",
	6:  "SERVICE_ERROR",
	7:  "CONTEXT_CANCELED",
	20: "INTERNAL",
	21: "CHAIN_PARAMS",
	22: "BLOCK_NOT_FOUND",
	23: "BLOCK_EXISTS",
	24: "READ_FAILED",
	25: "OUT_OF_BOUNDS",
	26: "TX_INDEX_OUT_OF_RANGE",
	27: "INVALID_LENGTH",
	28: "DATA_INTEGRITY",
	29: "CLOSED",
	40: "INVALID_PATH",
	41: "STORAGE_ERROR",
	42: "STORAGE_UNAVAILABLE",
	43: "BLOB_ERROR",
	44: "BLOB_ALREADY_EXISTS",
}

// ERR_value is the reverse of ERR_name.
var ERR_value = map[string]int32{
	"UNKNOWN":               0,
	"ERROR":                 1,
	"INVALID_ARGUMENT":      2,
	"NOT_FOUND":             3,
	"PROCESSING":            4,
	"CONFIGURATION":         5,
	"SERVICE_ERROR":         6,
	"CONTEXT_CANCELED":      7,
	"INTERNAL":              20,
	"CHAIN_PARAMS":          21,
	"BLOCK_NOT_FOUND":       22,
	"BLOCK_EXISTS":          23,
	"READ_FAILED":           24,
	"OUT_OF_BOUNDS":         25,
	"TX_INDEX_OUT_OF_RANGE": 26,
	"INVALID_LENGTH":        27,
	"DATA_INTEGRITY":        28,
	"CLOSED":                29,
	"INVALID_PATH":          40,
	"STORAGE_ERROR":         41,
	"STORAGE_UNAVAILABLE":   42,
	"BLOB_ERROR":            43,
	"BLOB_ALREADY_EXISTS":   44,
}

func (x ERR) String() string {
	if name, ok := ERR_name[int32(x)]; ok {
		return name
	}

	return fmt.Sprintf("ERR(%d)", int32(x))
}
