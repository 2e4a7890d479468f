package preview

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// loadBinary renders a bounded hex dump. LineCount reflects the whole file,
// not just the dumped prefix.
func loadBinary(path string, maxBytes int) *Content {
	f, err := os.Open(path)
	if err != nil {
		return &Content{Kind: KindError, Err: err.Error()}
	}
	defer func() { _ = f.Close() }()

	fi, err := f.Stat()
	if err != nil {
		return &Content{Kind: KindError, Err: err.Error()}
	}

	buf := make([]byte, maxBytes)
	n, _ := io.ReadFull(f, buf)

	return &Content{
		Kind:      KindBinary,
		Lines:     hexDump(buf[:n]),
		LineCount: int((fi.Size() + 15) / 16),
		Size:      fi.Size(),
		Extension: pathExtension(path),
		Meta:      readMeta(path),
	}
}

// hexDump formats data xxd-style: an offset column, sixteen bytes per line
// with a gap after the eighth, then the printable column. Short lines are
// padded so the printable column always starts at the same place.
func hexDump(data []byte) []string {
	lines := make([]string, 0, (len(data)+15)/16)
	for off := 0; off < len(data); off += 16 {
		end := off + 16
		if end > len(data) {
			end = len(data)
		}
		chunk := data[off:end]

		var b strings.Builder
		fmt.Fprintf(&b, "%08x  ", off)
		for i, by := range chunk {
			fmt.Fprintf(&b, "%02x ", by)
			if i == 7 {
				b.WriteByte(' ')
			}
		}
		for i := len(chunk); i < 16; i++ {
			b.WriteString("   ")
		}
		if len(chunk) <= 8 {
			b.WriteByte(' ')
		}
		b.WriteString(" |")
		for _, by := range chunk {
			if by >= 0x20 && by < 0x7f {
				b.WriteByte(by)
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('|')
		lines = append(lines, b.String())
	}
	return lines
}
