package preview

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectKindDirectory(t *testing.T) {
	assert.Equal(t, KindDirectory, DetectKind(t.TempDir(), 1<<20))
}

func TestDetectKindMissingPath(t *testing.T) {
	assert.Equal(t, KindError, DetectKind(filepath.Join(t.TempDir(), "gone"), 1<<20))
}

func TestDetectKindEmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.txt", nil)
	assert.Equal(t, KindEmpty, DetectKind(path, 1<<20))
}

func TestDetectKindText(t *testing.T) {
	path := writeFile(t, t.TempDir(), "notes.txt", []byte("plain words\nmore words\n"))
	assert.Equal(t, KindText, DetectKind(path, 1<<20))
}

func TestDetectKindBinaryFromNul(t *testing.T) {
	path := writeFile(t, t.TempDir(), "blob", []byte{0x00, 0x01, 0x02, 0xff, 0x10})
	assert.Equal(t, KindBinary, DetectKind(path, 1<<20))
}

func TestDetectKindKnownBinaryMime(t *testing.T) {
	// %PDF- sniffs as application/pdf even without an extension.
	path := writeFile(t, t.TempDir(), "paper", []byte("%PDF-1.4 minimal"))
	assert.Equal(t, KindBinary, DetectKind(path, 1<<20))
}

func TestDetectKindImageByExtension(t *testing.T) {
	// The extension decides without looking at the bytes.
	path := writeFile(t, t.TempDir(), "shot.png", []byte("not really a png"))
	assert.Equal(t, KindImage, DetectKind(path, 1<<20))
}

func TestDetectKindImageBySniff(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pic", []byte("\x89PNG\r\n\x1a\nrest"))
	assert.Equal(t, KindImage, DetectKind(path, 1<<20))
}

func TestDetectKindTooLarge(t *testing.T) {
	path := writeFile(t, t.TempDir(), "big.dat", bytes.Repeat([]byte("a"), 64))
	assert.Equal(t, KindTooLarge, DetectKind(path, 16))
}

func TestDetectKindOversizedImageStaysImage(t *testing.T) {
	path := writeFile(t, t.TempDir(), "big.jpg", bytes.Repeat([]byte("a"), 64))
	assert.Equal(t, KindImage, DetectKind(path, 16))
}

func TestDetectKindArchiveBeforeSizeCutoff(t *testing.T) {
	path := writeFile(t, t.TempDir(), "big.tar.gz", bytes.Repeat([]byte("a"), 64))
	assert.Equal(t, KindArchive, DetectKind(path, 16))
}

func TestDetectKindHighBytesWithoutNulAreText(t *testing.T) {
	// No magic, no NUL: the sniffer has nothing to go on.
	path := writeFile(t, t.TempDir(), "weird", []byte{0x80, 0x81, 0x90, 0x41})
	assert.Equal(t, KindText, DetectKind(path, 1<<20))
}

func TestIsArchivePath(t *testing.T) {
	yes := []string{"a.zip", "a.ZIP", "a.tar", "a.tar.gz", "a.tgz", "a.tar.bz2", "a.tbz2", "a.gz", "/deep/path/b.zip"}
	for _, name := range yes {
		assert.True(t, isArchivePath(name), name)
	}
	no := []string{"a.txt", "a.go", "a", "targz", "a.bz2"}
	for _, name := range no {
		assert.False(t, isArchivePath(name), name)
	}
}

func TestArchiveType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"a.zip", "zip"},
		{"A.ZIP", "zip"},
		{"a.tar", "tar"},
		{"a.tar.gz", "tar.gz"},
		{"a.tgz", "tar.gz"},
		{"a.tar.bz2", "tar.bz2"},
		{"a.tbz2", "tar.bz2"},
		{"a.gz", "gz"},
		{"a.txt", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, archiveType(tt.name), tt.name)
	}
}

func TestPathExtension(t *testing.T) {
	assert.Equal(t, "png", pathExtension("shot.PNG"))
	assert.Equal(t, "gz", pathExtension("bundle.tar.gz"))
	assert.Equal(t, "", pathExtension("Makefile"))
	assert.Equal(t, "hidden", pathExtension(".hidden"))
}
