// Package fsops provides the filesystem operations behind the create,
// rename, delete, and paste commands.
package fsops

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Permissions for files and directories created on behalf of the user.
const (
	newFilePerms = 0o644
	newDirPerms  = 0o755
)

// CreateFile creates an empty file at path. It fails if path already
// exists.
func CreateFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, newFilePerms)
	if err != nil {
		return err
	}
	return f.Close()
}

// CreateDir creates a directory at path, making parent directories as
// needed. It fails if path already exists.
func CreateDir(path string) error {
	if _, err := os.Lstat(path); err == nil {
		return &fs.PathError{Op: "mkdir", Path: path, Err: fs.ErrExist}
	}
	return os.MkdirAll(path, newDirPerms)
}

// Delete removes the file or directory at path. Directories are removed
// recursively; symlinks are removed without following them.
func Delete(path string) error {
	fi, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}

// Rename moves oldPath to newPath. An existing newPath is never
// overwritten; renaming a path onto itself is a no-op.
func Rename(oldPath, newPath string) error {
	if oldPath == newPath {
		return nil
	}
	if _, err := os.Lstat(newPath); err == nil {
		return &fs.PathError{Op: "rename", Path: newPath, Err: fs.ErrExist}
	}
	return os.Rename(oldPath, newPath)
}

// CopyPath copies source to dest. Directories are copied recursively,
// regular files keep their permission bits.
func CopyPath(source, dest string) error {
	fi, err := os.Stat(source)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return copyDir(source, dest)
	}
	return copyFile(source, dest)
}

// copyDir recreates source under dest. Symlinks inside the tree are
// recreated as links, not followed.
func copyDir(source, dest string) error {
	if err := os.MkdirAll(dest, newDirPerms); err != nil {
		return err
	}
	entries, err := os.ReadDir(source)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(source, entry.Name())
		dstPath := filepath.Join(dest, entry.Name())
		switch {
		case entry.Type()&fs.ModeSymlink != 0:
			target, err := os.Readlink(srcPath)
			if err != nil {
				return err
			}
			if err := os.Symlink(target, dstPath); err != nil {
				return err
			}
		case entry.IsDir():
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
		default:
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}
	return nil
}

func copyFile(source, dest string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fi.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	// O_CREATE masks the mode with the umask; restore the source bits.
	return os.Chmod(dest, fi.Mode().Perm())
}

// UniqueDestPath returns dest if nothing exists there, otherwise the
// first free variant with _copy, _copy2, _copy3... appended before the
// extension.
func UniqueDestPath(dest string) string {
	if !pathExists(dest) {
		return dest
	}
	dir := filepath.Dir(dest)
	base := filepath.Base(dest)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		// Dotfiles like .bashrc are bare names, not extensions.
		stem, ext = base, ""
	}

	candidate := filepath.Join(dir, stem+"_copy"+ext)
	if !pathExists(candidate) {
		return candidate
	}
	for n := 2; ; n++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s_copy%d%s", stem, n, ext))
		if !pathExists(candidate) {
			return candidate
		}
	}
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
