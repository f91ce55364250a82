//go:build darwin || linux

package probe

import "github.com/ebitengine/purego"

// Dlopen loads a shared object by name or path with dlopen(3).
func Dlopen(name string) (func() error, error) {
	h, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, err
	}
	return func() error { return purego.Dlclose(h) }, nil
}
