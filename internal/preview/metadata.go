package preview

import (
	"os"
	"time"
)

// FileMeta is the stat block shown under a preview.
type FileMeta struct {
	Size    int64
	Mode    os.FileMode
	ModTime time.Time
	Owner   string
	Group   string
}

// readMeta stats path; nil when the file vanished underneath us.
func readMeta(path string) *FileMeta {
	fi, err := os.Stat(path)
	if err != nil {
		return nil
	}
	m := &FileMeta{
		Size:    fi.Size(),
		Mode:    fi.Mode(),
		ModTime: fi.ModTime(),
	}
	m.Owner, m.Group = ownerGroup(fi)
	return m
}
