package probe

import (
	"fmt"

	"github.com/qiniu/x/log"
)

// Opener loads a dynamic library and returns a function unloading it.
type Opener func(name string) (release func() error, err error)

// ProbeLibrary tries to load each candidate in order and returns the first
// one that loads. The candidate list is platform specific and chosen by the
// caller. A nil open uses Dlopen.
func ProbeLibrary(candidates []string, open Opener) Option[string] {
	if open == nil {
		open = Dlopen
	}
	for _, name := range candidates {
		release, err := open(name)
		if err != nil {
			log.Debugf("probe: load %s: %v", name, err)
			continue
		}
		if release != nil {
			if err := release(); err != nil {
				log.Debugf("probe: unload %s: %v", name, err)
			}
		}
		return Some(name)
	}
	return None[string](fmt.Sprintf("none of %d candidates could be loaded", len(candidates)))
}
