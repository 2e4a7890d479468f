package preview

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chmouel/lazytree/internal/utils"
)

// ArchiveMember is one entry in an archive listing.
type ArchiveMember struct {
	Name  string
	Size  int64
	IsDir bool
}

// loadArchive lists an archive's members. A listing failure degrades to a
// one-line summary rather than an error; a truncated listing notes how many
// members were left out. LineCount is the full member count.
func loadArchive(path string, maxMembers int) *Content {
	fi, err := os.Stat(path)
	if err != nil {
		return &Content{Kind: KindError, Err: err.Error()}
	}

	format := archiveType(path)
	c := &Content{
		Kind:      KindArchive,
		Size:      fi.Size(),
		Extension: pathExtension(path),
	}

	members, total, err := listArchive(path, format, maxMembers)
	if err != nil {
		c.Lines = []string{fmt.Sprintf(" %s archive, %s", strings.ToUpper(format), utils.FormatSize(fi.Size()))}
		c.LineCount = 1
		return c
	}

	lines := make([]string, 0, len(members)+3)
	lines = append(lines, fmt.Sprintf(" %s archive, %d members, %s",
		strings.ToUpper(format), total, utils.FormatSize(fi.Size())))
	lines = append(lines, "")
	for _, m := range members {
		if m.IsDir {
			name := m.Name
			if !strings.HasSuffix(name, "/") {
				name += "/"
			}
			lines = append(lines, fmt.Sprintf(" %8s  %s", "-", name))
		} else {
			lines = append(lines, fmt.Sprintf(" %8s  %s", utils.FormatSize(m.Size), m.Name))
		}
	}
	if total > len(members) {
		lines = append(lines, fmt.Sprintf(" ... %d more", total-len(members)))
	}
	c.Lines = lines
	c.LineCount = total
	return c
}

func listArchive(path, format string, maxMembers int) ([]ArchiveMember, int, error) {
	switch format {
	case "zip":
		return listZip(path, maxMembers)
	case "tar":
		f, err := os.Open(path)
		if err != nil {
			return nil, 0, err
		}
		defer func() { _ = f.Close() }()
		return listTar(f, maxMembers)
	case "tar.gz", "gz":
		f, err := os.Open(path)
		if err != nil {
			return nil, 0, err
		}
		defer func() { _ = f.Close() }()
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, 0, err
		}
		defer func() { _ = gz.Close() }()
		return listTar(gz, maxMembers)
	case "tar.bz2":
		f, err := os.Open(path)
		if err != nil {
			return nil, 0, err
		}
		defer func() { _ = f.Close() }()
		return listTar(bzip2.NewReader(f), maxMembers)
	}
	return nil, 0, fmt.Errorf("unsupported archive format %q", format)
}

func listZip(path string, maxMembers int) ([]ArchiveMember, int, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = zr.Close() }()

	want := len(zr.File)
	if want > maxMembers {
		want = maxMembers
	}
	members := make([]ArchiveMember, 0, want)
	for _, f := range zr.File {
		if len(members) >= maxMembers {
			break
		}
		members = append(members, ArchiveMember{
			Name:  f.Name,
			Size:  int64(f.UncompressedSize64),
			IsDir: f.FileInfo().IsDir(),
		})
	}
	return members, len(zr.File), nil
}

func listTar(r io.Reader, maxMembers int) ([]ArchiveMember, int, error) {
	tr := tar.NewReader(r)
	var members []ArchiveMember
	total := 0
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if total == 0 {
				return nil, 0, err
			}
			// Damaged tail; keep what was readable.
			break
		}
		total++
		if len(members) < maxMembers {
			members = append(members, ArchiveMember{
				Name:  hdr.Name,
				Size:  hdr.Size,
				IsDir: hdr.Typeflag == tar.TypeDir,
			})
		}
	}
	return members, total, nil
}
