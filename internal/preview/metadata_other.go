//go:build !unix

package preview

import "os"

func ownerGroup(_ os.FileInfo) (string, string) {
	return "", ""
}
