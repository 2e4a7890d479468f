//go:build unix

package preview

import (
	"os"
	"os/user"
	"strconv"
	"syscall"
)

// ownerGroup maps the file's uid/gid to names, falling back to the numeric
// ids when the lookup fails.
func ownerGroup(fi os.FileInfo) (string, string) {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return "", ""
	}

	owner := strconv.FormatUint(uint64(st.Uid), 10)
	if u, err := user.LookupId(owner); err == nil {
		owner = u.Username
	}
	group := strconv.FormatUint(uint64(st.Gid), 10)
	if g, err := user.LookupGroupId(group); err == nil {
		group = g.Name
	}
	return owner, group
}
