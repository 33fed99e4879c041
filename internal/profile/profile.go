// Package profile starts runtime profiling for the hidden --profile flag.
package profile

import (
	"fmt"
	"maps"
	"slices"

	"github.com/pkg/profile"
)

var modes = map[string]func(*profile.Profile){
	"block":     profile.BlockProfile,
	"cpu":       profile.CPUProfile,
	"clock":     profile.ClockProfile,
	"goroutine": profile.GoroutineProfile,
	"mem":       profile.MemProfile,
	"allocs":    profile.MemProfileAllocs,
	"heap":      profile.MemProfileHeap,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

// Modes returns the supported profiling modes, sorted.
func Modes() []string {
	return slices.Sorted(maps.Keys(modes))
}

// Stopper ends a profile and writes it out.
type Stopper interface {
	Stop()
}

type noop struct{}

func (noop) Stop() {}

// Start begins profiling in mode, writing into dir. An empty mode does
// nothing. Only one profile may run at a time.
func Start(mode, dir string) (Stopper, error) {
	if mode == "" {
		return noop{}, nil
	}
	fn, ok := modes[mode]
	if !ok {
		return nil, fmt.Errorf("unknown profile mode %q (want one of %v)", mode, Modes())
	}
	opts := []func(*profile.Profile){fn, profile.Quiet, profile.NoShutdownHook}
	if dir != "" {
		opts = append(opts, profile.ProfilePath(dir))
	}
	return profile.Start(opts...), nil
}
