// Package fileformat defines the 8 byte magic header that prefixes every
// payload written to a blob store, so a file identifies its own content type.
package fileformat

import (
	"io"

	"github.com/bsv-blockchain/go-blockreader/errors"
)

// FileType identifies the kind of payload stored behind a header. The string
// value doubles as the file extension used by file backed stores.
type FileType string

const (
	// FileTypeUnknown is the zero value, never written to disk.
	FileTypeUnknown FileType = ""

	// FileTypeBlock is a raw consensus serialized block.
	FileTypeBlock FileType = "block"

	// FileTypeUndo is the serialized spent-coin undo data for one block.
	FileTypeUndo FileType = "undo"

	// FileTypeDat is opaque data with no further structure.
	FileTypeDat FileType = "dat"

	// FileTypeTesting is reserved for tests.
	FileTypeTesting FileType = "testing"
)

const headerSize = 8

var (
	magicBlock   = [8]byte{'B', '-', '1', '.', '0', ' ', ' ', ' '}
	magicUndo    = [8]byte{'U', '-', '1', '.', '0', ' ', ' ', ' '}
	magicDat     = [8]byte{'D', 'A', 'T', '-', '1', '.', '0', ' '}
	magicTesting = [8]byte{'T', 'S', 'T', '-', '1', '.', '0', ' '}
)

var fileTypeToMagic = map[FileType][8]byte{
	FileTypeBlock:   magicBlock,
	FileTypeUndo:    magicUndo,
	FileTypeDat:     magicDat,
	FileTypeTesting: magicTesting,
}

var magicToFileType = map[[8]byte]FileType{
	magicBlock:   FileTypeBlock,
	magicUndo:    FileTypeUndo,
	magicDat:     FileTypeDat,
	magicTesting: FileTypeTesting,
}

func (ft FileType) String() string {
	return string(ft)
}

// ToMagicBytes returns the canonical magic for the file type, zero valued
// for unknown types.
func (ft FileType) ToMagicBytes() [8]byte {
	return fileTypeToMagic[ft]
}

// FileTypeFromExtension maps a file extension back to its FileType.
func FileTypeFromExtension(extension string) (FileType, error) {
	ft := FileType(extension)
	if _, ok := fileTypeToMagic[ft]; !ok {
		return "", errors.NewInvalidArgumentError("unknown file extension %q", extension)
	}

	return ft, nil
}

// Header is the 8 byte magic prefix of a stored file.
type Header struct {
	magic [8]byte
}

// NewHeader creates a header for the given file type. It panics on a file
// type without a registered magic, which is always a programming error.
func NewHeader(ft FileType) Header {
	magic, ok := fileTypeToMagic[ft]
	if !ok {
		panic(errors.NewInvalidArgumentError("no magic registered for file type %q", ft))
	}

	return Header{magic: magic}
}

// FileType returns the file type the magic identifies, FileTypeUnknown when
// the magic is not registered.
func (h *Header) FileType() FileType {
	return magicToFileType[h.magic]
}

// Size returns the number of bytes the header occupies on disk.
func (h *Header) Size() int {
	return headerSize
}

// Bytes returns the raw magic.
func (h *Header) Bytes() []byte {
	return h.magic[:]
}

// Write writes the magic to w.
func (h *Header) Write(w io.Writer) error {
	if _, err := w.Write(h.magic[:]); err != nil {
		return errors.NewStorageError("error writing magic", err)
	}

	return nil
}

// Read reads and validates a magic from r. Magics padded with trailing NULs
// instead of spaces are accepted for files written by older versions.
func (h *Header) Read(r io.Reader) error {
	n, err := io.ReadFull(r, h.magic[:])
	if err != nil {
		if err == io.ErrUnexpectedEOF {
			return errors.NewInvalidLengthError("expected to read 8 bytes, read %d", n)
		}

		return errors.NewStorageError("error reading magic", err)
	}

	for i := range h.magic {
		if h.magic[i] == 0 {
			h.magic[i] = ' '
		}
	}

	if _, ok := magicToFileType[h.magic]; !ok {
		return errors.NewInvalidArgumentError("unknown magic %q", h.magic)
	}

	return nil
}

// ReadHeader reads a header from r.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header
	if err := h.Read(r); err != nil {
		return Header{}, err
	}

	return h, nil
}

// ReadHeaderFromBytes reads a header from the first 8 bytes of b.
func ReadHeaderFromBytes(b []byte) (Header, error) {
	if len(b) < headerSize {
		return Header{}, errors.NewInvalidLengthError("not enough bytes for header, need %d got %d", headerSize, len(b))
	}

	var h Header

	copy(h.magic[:], b[:headerSize])

	for i := range h.magic {
		if h.magic[i] == 0 {
			h.magic[i] = ' '
		}
	}

	if _, ok := magicToFileType[h.magic]; !ok {
		return Header{}, errors.NewInvalidArgumentError("unknown magic %q", h.magic)
	}

	return h, nil
}
