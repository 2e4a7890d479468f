package preview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexDumpFullLine(t *testing.T) {
	lines := hexDump([]byte("ABCDEFGHIJKLMNOP"))
	require.Len(t, lines, 1)
	assert.Equal(t,
		"00000000  41 42 43 44 45 46 47 48  49 4a 4b 4c 4d 4e 4f 50  |ABCDEFGHIJKLMNOP|",
		lines[0])
}

func TestHexDumpPartialLineAligns(t *testing.T) {
	full := hexDump([]byte("ABCDEFGHIJKLMNOP"))[0]
	partial := hexDump([]byte("ABCD"))[0]

	assert.True(t, strings.HasPrefix(partial, "00000000  41 42 43 44"), partial)
	assert.True(t, strings.HasSuffix(partial, "|ABCD|"), partial)
	// The printable column starts at the same offset on every line.
	assert.Equal(t, strings.IndexByte(full, '|'), strings.IndexByte(partial, '|'))
}

func TestHexDumpOffsets(t *testing.T) {
	lines := hexDump(make([]byte, 33))
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "00000010  "), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "00000020  "), lines[2])
}

func TestHexDumpPrintableColumn(t *testing.T) {
	lines := hexDump([]byte{0x00, 0x1f, 0x20, 0x41, 0x7e, 0x7f})
	require.Len(t, lines, 1)
	assert.True(t, strings.HasSuffix(lines[0], "|.. A~.|"), lines[0])
}

func TestHexDumpEmpty(t *testing.T) {
	assert.Empty(t, hexDump(nil))
}

func TestLoadBinaryCapsDumpNotCount(t *testing.T) {
	data := bytes.Repeat([]byte{0x00, 0x01}, 50) // 100 bytes
	path := writeFile(t, t.TempDir(), "blob.bin", data)

	c := loadBinary(path, 32)
	require.Equal(t, KindBinary, c.Kind)
	assert.Len(t, c.Lines, 2)       // only the dumped prefix
	assert.Equal(t, 7, c.LineCount) // but the count covers all 100 bytes
	assert.Equal(t, int64(100), c.Size)
	assert.Equal(t, "bin", c.Extension)
	require.NotNil(t, c.Meta)
}
