//go:build !darwin && !linux && !windows

package probe

import (
	"errors"
	"runtime"
)

// Dlopen always fails: dynamic loading is not wired on this platform.
func Dlopen(name string) (func() error, error) {
	return nil, errors.New("dynamic loading is not supported on " + runtime.GOOS)
}
