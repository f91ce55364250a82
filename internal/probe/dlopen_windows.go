//go:build windows

package probe

import "golang.org/x/sys/windows"

// Dlopen loads a DLL with LoadLibrary.
func Dlopen(name string) (func() error, error) {
	h, err := windows.LoadLibrary(name)
	if err != nil {
		return nil, err
	}
	return func() error { return windows.FreeLibrary(h) }, nil
}
