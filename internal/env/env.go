package env

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/vkendeavour/vkbuild/internal/config"
)

// markers identify a project root, most specific first.
var markers = []string{config.FileName, "CMakeLists.txt"}

// ErrNoProject is returned when no ancestor of the start directory looks like
// a project root.
var ErrNoProject = errors.New("no " + config.FileName + " or CMakeLists.txt found in any parent directory")

// ProjectRoot walks up from start and returns the nearest directory holding a
// project marker. The outermost CMakeLists.txt wins over nested ones unless a
// vkbuild.toml is found first.
func ProjectRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	found := ""
	for {
		if exists(filepath.Join(dir, markers[0])) {
			return dir, nil
		}
		if exists(filepath.Join(dir, markers[1])) {
			found = dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if found == "" {
		return "", ErrNoProject
	}
	return found, nil
}

// WorkDir returns the project root for the current working directory.
func WorkDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return ProjectRoot(wd)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
