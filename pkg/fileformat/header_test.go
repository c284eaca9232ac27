package fileformat

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allFileTypes = []FileType{
	FileTypeBlock,
	FileTypeUndo,
	FileTypeDat,
	FileTypeTesting,
}

func TestHeaderWriteRead_RoundTrip(t *testing.T) {
	for _, ft := range allFileTypes {
		t.Run(string(ft), func(t *testing.T) {
			h := NewHeader(ft)

			buf := &bytes.Buffer{}
			require.NoError(t, h.Write(buf))
			assert.Equal(t, 8, buf.Len())

			var h2 Header
			require.NoError(t, h2.Read(buf))

			assert.Equal(t, h.magic, h2.magic)
			assert.Equal(t, ft, h2.FileType())
			assert.Equal(t, 8, h2.Size())
		})
	}
}

func TestHeader_ReadHeaderFunc(t *testing.T) {
	h := NewHeader(FileTypeUndo)

	buf := &bytes.Buffer{}
	require.NoError(t, h.Write(buf))

	h2, err := ReadHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, h.magic, h2.magic)
	assert.Equal(t, FileTypeUndo, h2.FileType())
}

func TestHeader_InvalidMagic(t *testing.T) {
	buf := &bytes.Buffer{}
	buf.Write([]byte("INVALID\x00")) // 8 bytes, not a known magic

	var h Header

	err := h.Read(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown magic")
}

func TestHeader_ShortRead(t *testing.T) {
	buf := &bytes.Buffer{}
	buf.Write([]byte("B-1.0")) // only 5 bytes, too short

	var h Header

	err := h.Read(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected to read 8 bytes")
}

func TestHeader_Read_EOF(t *testing.T) {
	var h Header

	err := h.Read(&bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading magic")
}

// Files written by older versions padded the magic with NULs instead of
// spaces, both must parse.
func TestHeader_Read_BackwardCompatibility(t *testing.T) {
	magicWithNulls := [8]byte{'B', '-', '1', '.', '0', 0, 0, 0}

	var h Header

	err := h.Read(bytes.NewReader(magicWithNulls[:]))
	require.NoError(t, err)
	assert.Equal(t, FileTypeBlock, h.FileType())
}

func TestNewHeader_UnknownFileTypePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewHeader(FileTypeUnknown)
	})

	assert.Panics(t, func() {
		NewHeader(FileType("invalid-type"))
	})
}

func TestHeader_Bytes(t *testing.T) {
	header := NewHeader(FileTypeBlock)

	b := header.Bytes()
	assert.Len(t, b, 8)
	assert.Equal(t, magicBlock[:], b)
}

func TestHeader_Write_Error(t *testing.T) {
	header := NewHeader(FileTypeBlock)

	err := header.Write(&failingWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error writing magic")
}

func TestReadHeader_Error(t *testing.T) {
	header, err := ReadHeader(bytes.NewReader([]byte("SHORT")))
	require.Error(t, err)
	assert.Equal(t, Header{}, header)
}

func TestReadHeaderFromBytes(t *testing.T) {
	original := NewHeader(FileTypeBlock)

	header, err := ReadHeaderFromBytes(original.Bytes())
	require.NoError(t, err)
	assert.Equal(t, original.magic, header.magic)
	assert.Equal(t, FileTypeBlock, header.FileType())
}

func TestReadHeaderFromBytes_ShortData(t *testing.T) {
	header, err := ReadHeaderFromBytes([]byte("SHORT"))
	require.Error(t, err)
	assert.Equal(t, Header{}, header)
	assert.Contains(t, err.Error(), "not enough bytes")
}

func TestReadHeaderFromBytes_UnknownMagic(t *testing.T) {
	header, err := ReadHeaderFromBytes([]byte("UNKNOWN!"))
	require.Error(t, err)
	assert.Equal(t, Header{}, header)
	assert.Contains(t, err.Error(), "unknown magic")
}

func TestFileType_String(t *testing.T) {
	assert.Equal(t, "block", FileTypeBlock.String())
	assert.Equal(t, "undo", FileTypeUndo.String())
}

func TestFileType_ToMagicBytes(t *testing.T) {
	assert.Equal(t, magicUndo, FileTypeUndo.ToMagicBytes())
	assert.Equal(t, [8]byte{}, FileTypeUnknown.ToMagicBytes())
}

func TestFileTypeFromExtension(t *testing.T) {
	testCases := []struct {
		extension string
		expected  FileType
		expectErr bool
	}{
		{"block", FileTypeBlock, false},
		{"undo", FileTypeUndo, false},
		{"dat", FileTypeDat, false},
		{"testing", FileTypeTesting, false},
		{"invalid-extension", "", true},
		{"", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.extension, func(t *testing.T) {
			result, err := FileTypeFromExtension(tc.extension)
			if tc.expectErr {
				assert.Error(t, err)
				assert.Equal(t, FileType(""), result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, result)
			}
		})
	}
}

func TestMagicMappingsAreConsistent(t *testing.T) {
	require.Equal(t, len(fileTypeToMagic), len(magicToFileType))

	for fileType, magic := range fileTypeToMagic {
		assert.Equal(t, fileType, magicToFileType[magic])
		assert.Equal(t, magic, fileType.ToMagicBytes())
	}
}

func TestHeader_EdgeCases(t *testing.T) {
	t.Run("empty magic", func(t *testing.T) {
		var header Header
		assert.Equal(t, FileTypeUnknown, header.FileType())
	})

	t.Run("space padded magic", func(t *testing.T) {
		header := Header{magic: [8]byte{'B', '-', '1', '.', '0', ' ', ' ', ' '}}
		assert.Equal(t, FileTypeBlock, header.FileType())
	})
}

// failingWriter is a writer that always fails
type failingWriter struct{}

func (fw *failingWriter) Write(p []byte) (n int, err error) {
	return 0, io.ErrShortWrite
}
