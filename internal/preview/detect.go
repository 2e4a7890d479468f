package preview

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var imageExtensions = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true, "webp": true,
	"bmp": true, "tiff": true, "tif": true, "ico": true, "svg": true,
}

// DetectKind classifies path for the preview pane. The order matters:
// archives are recognized before the size cutoff so a large tarball still
// gets its member listing, and an oversized image still counts as an image.
func DetectKind(path string, maxTextBytes int64) Kind {
	k, _ := detect(path, maxTextBytes)
	return k
}

func detect(path string, maxTextBytes int64) (Kind, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return KindError, err
	}
	if fi.IsDir() {
		return KindDirectory, nil
	}
	if fi.Size() == 0 {
		return KindEmpty, nil
	}
	if isArchivePath(path) {
		return KindArchive, nil
	}

	ext := pathExtension(path)
	if fi.Size() > maxTextBytes {
		if imageExtensions[ext] {
			return KindImage, nil
		}
		return KindTooLarge, nil
	}
	if imageExtensions[ext] {
		return KindImage, nil
	}

	return sniffKind(path), nil
}

// sniffKind separates text from binary for files whose extension tells us
// nothing. http.DetectContentType covers the well-known magic numbers; a NUL
// byte in the first 8 KiB settles the rest.
func sniffKind(path string) Kind {
	f, err := os.Open(path)
	if err != nil {
		return KindText
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, 8192)
	n, _ := io.ReadFull(f, buf)
	if n == 0 {
		return KindText
	}
	buf = buf[:n]

	mime := http.DetectContentType(buf)
	if strings.HasPrefix(mime, "image/") {
		return KindImage
	}
	// octet-stream is the sniffer's "no idea"; let the NUL scan decide.
	if !strings.HasPrefix(mime, "text/") && mime != "application/octet-stream" {
		return KindBinary
	}
	if bytes.IndexByte(buf, 0) >= 0 {
		return KindBinary
	}
	return KindText
}

func isArchivePath(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	if strings.HasSuffix(name, ".tar.gz") || strings.HasSuffix(name, ".tar.bz2") {
		return true
	}
	switch pathExtension(path) {
	case "zip", "tar", "tgz", "tbz2", "gz":
		return true
	}
	return false
}

// archiveType names the concrete format, compound extensions first.
func archiveType(path string) string {
	name := strings.ToLower(filepath.Base(path))
	ext := pathExtension(path)
	switch {
	case strings.HasSuffix(name, ".tar.gz") || ext == "tgz":
		return "tar.gz"
	case strings.HasSuffix(name, ".tar.bz2") || ext == "tbz2":
		return "tar.bz2"
	}
	switch ext {
	case "zip", "tar", "gz":
		return ext
	}
	return ""
}

func pathExtension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
