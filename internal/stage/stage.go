// Package stage mirrors derived assets, such as compiled shaders, from the
// source tree next to the built executables.
package stage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/qiniu/x/log"
)

// Stager copies files by extension into a flat destination directory.
type Stager struct {
	// Out receives one line per copied file. Nil discards them.
	Out io.Writer
}

// CopyMatching walks sourceTree and copies every regular file whose
// extension is in exts into destDir, keeping only the file name. destDir is
// created if absent.
//
// The directory structure is flattened: when two files share a name the one
// visited last (lexical walk order) wins. Other files are left alone.
// A symlinked sourceTree is followed; links below it are not.
// It returns the destination paths in copy order.
func (s *Stager) CopyMatching(sourceTree, destDir string, exts []string) ([]string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, err
	}
	if _, err := os.Stat(sourceTree); errors.Is(err, fs.ErrNotExist) {
		log.Warnf("stage: source %s does not exist, nothing to copy", sourceTree)
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	// WalkDir does not follow a symlinked root.
	root, err := filepath.EvalSymlinks(sourceTree)
	if err != nil {
		return nil, err
	}

	var copied []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || !matchExt(path, exts) {
			return nil
		}
		dst := filepath.Join(destDir, d.Name())
		if err := copyFile(path, dst); err != nil {
			return fmt.Errorf("copy %s: %w", path, err)
		}
		copied = append(copied, dst)
		if s.Out != nil {
			fmt.Fprintf(s.Out, "> Copied '%s' to '%s' ...\n", path, dst)
		}
		return nil
	})
	return copied, err
}

func matchExt(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// copyFile copies content, permission bits and modification time.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
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
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
