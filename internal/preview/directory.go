package preview

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/chmouel/lazytree/internal/utils"
)

// loadDirectory summarizes a directory: child counts, a files-only total
// size, and one line per child sorted directories first.
func loadDirectory(path string) *Content {
	dirents, err := os.ReadDir(path)
	if err != nil {
		return &Content{Kind: KindError, Err: err.Error()}
	}

	type child struct {
		name  string
		size  int64
		isDir bool
	}
	children := make([]child, 0, len(dirents))
	var files, dirs int
	var total int64
	for _, de := range dirents {
		c := child{name: de.Name(), isDir: de.IsDir()}
		if de.IsDir() {
			dirs++
		} else {
			files++
			if fi, err := de.Info(); err == nil {
				c.size = fi.Size()
				total += fi.Size()
			}
		}
		children = append(children, c)
	}
	sort.Slice(children, func(i, j int) bool {
		if children[i].isDir != children[j].isDir {
			return children[i].isDir
		}
		return strings.ToLower(children[i].name) < strings.ToLower(children[j].name)
	})

	lines := make([]string, 0, len(children)+2)
	lines = append(lines, fmt.Sprintf(" %d files, %d directories, %s", files, dirs, utils.FormatSize(total)))
	lines = append(lines, "")
	for _, c := range children {
		if c.isDir {
			lines = append(lines, " "+c.name+"/")
		} else {
			lines = append(lines, fmt.Sprintf(" %s  %s", c.name, utils.FormatSize(c.size)))
		}
	}

	return &Content{
		Kind:      KindDirectory,
		Lines:     lines,
		LineCount: files + dirs,
		Size:      total,
	}
}
