// Package stats counts source lines per project directory.
package stats

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/qiniu/x/log"
)

// DirCount is the number of lines below one directory.
type DirCount struct {
	Dir   string
	Lines int
}

// Count walks every dir below root and counts the lines of regular files with
// one of exts. Missing directories count as zero; unreadable files are
// skipped.
func Count(root string, dirs, exts []string) []DirCount {
	out := make([]DirCount, 0, len(dirs))
	for _, dir := range dirs {
		out = append(out, DirCount{Dir: dir, Lines: countDir(filepath.Join(root, dir), exts)})
	}
	return out
}

func countDir(dir string, exts []string) int {
	total := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			log.Debugf("stats: skip %s: %v", path, err)
			return nil
		}
		if !d.Type().IsRegular() || !slices.Contains(exts, filepath.Ext(path)) {
			return nil
		}
		n, err := countLines(path)
		if err != nil {
			log.Debugf("stats: skip %s: %v", path, err)
			return nil
		}
		total += n
		return nil
	})
	if err != nil {
		log.Debugf("stats: %s: %v", dir, err)
	}
	return total
}

// countLines counts lines like a text reader does: a final line without a
// trailing newline still counts.
func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	buf := make([]byte, 32*1024)
	lines, last := 0, byte('\n')
	for {
		n, err := f.Read(buf)
		if n > 0 {
			lines += bytes.Count(buf[:n], []byte{'\n'})
			last = buf[n-1]
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
	}
	if last != '\n' {
		lines++
	}
	return lines, nil
}
