// Package flags holds the boolean feature switches set under `flags:` in the
// config file. Every known flag has a default; names the binary does not know
// are reported once and otherwise ignored.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/kcal/internal/log"
)

const (
	// FlagMouse captures the mouse so rows can be clicked to edit. Turning it
	// off gives terminal text selection back.
	FlagMouse = "mouse"

	// FlagProgressBar draws a bar next to the total when a daily goal is set.
	FlagProgressBar = "progress-bar"
)

var defaults = map[string]bool{
	FlagMouse:       true,
	FlagProgressBar: true,
}

// Registry is read-only after New.
type Registry struct {
	flags   map[string]bool
	unknown []string
}

// New overlays configured on the defaults. A nil map yields the defaults.
func New(configured map[string]bool) *Registry {
	r := &Registry{flags: maps.Clone(defaults)}
	for name, value := range configured {
		if _, known := defaults[name]; !known {
			r.unknown = append(r.unknown, name)
			continue
		}
		r.flags[name] = value
	}
	slices.Sort(r.unknown)

	if len(r.unknown) > 0 {
		log.Warn(log.CatConfig, "Ignoring unknown feature flags", "flags", r.unknown)
	}
	log.Debug(log.CatConfig, "Feature flags initialized", "flags", r.flags)
	return r
}

// Enabled reports whether name is on. Unknown names and a nil registry
// report false.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	return r.flags[name]
}

// Unknown lists configured names that are not flags, sorted.
func (r *Registry) Unknown() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.unknown)
}

// All returns a copy of every known flag and its value.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return map[string]bool{}
	}
	return maps.Clone(r.flags)
}
