// Package builddir creates and destroys per-configuration build output
// directories.
package builddir

import (
	"errors"
	"io/fs"
	"os"

	"github.com/qiniu/x/log"
)

// FilesystemError reports a directory operation that was denied. It is fatal
// for a build run.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// Reset recursively deletes dir if it exists and creates it again, parents
// included. Calling it twice leaves the same empty directory.
func Reset(dir string) error {
	if _, err := os.Lstat(dir); err == nil {
		if err := os.RemoveAll(dir); err != nil {
			return &FilesystemError{Op: "remove", Path: dir, Err: err}
		}
		log.Debugf("builddir: removed %s", dir)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return &FilesystemError{Op: "stat", Path: dir, Err: err}
	}
	return Ensure(dir)
}

// Ensure creates dir and its parents if absent. It never deletes anything.
func Ensure(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &FilesystemError{Op: "mkdir", Path: dir, Err: err}
	}
	return nil
}

// Remove deletes dir and everything below it. It reports whether dir existed.
func Remove(dir string) (existed bool, err error) {
	if _, err := os.Lstat(dir); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, &FilesystemError{Op: "stat", Path: dir, Err: err}
	}
	if err := os.RemoveAll(dir); err != nil {
		return true, &FilesystemError{Op: "remove", Path: dir, Err: err}
	}
	return true, nil
}
