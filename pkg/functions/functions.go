// Package functions exposes the named helper callables available to tokens
// in template paths and file bodies.
//
// Helpers are cty functions so the token engine can call them directly.
// They are evaluated each time a token calls them; a registry never caches
// results between files.
package functions

import (
	"sort"
	"time"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// SectionName is the reserved settings section the helpers are injected as.
const SectionName = "functions"

// Clock returns the current time.
type Clock func() time.Time

// Registry builds helper snapshots bound to a clock.
type Registry struct {
	clock Clock
}

// NewRegistry creates a registry. A nil clock means time.Now.
func NewRegistry(clock Clock) *Registry {
	if clock == nil {
		clock = time.Now
	}
	return &Registry{clock: clock}
}

// Snapshot returns a fresh map of helper name to function. Callers may
// mutate the returned map without affecting later snapshots.
func (r *Registry) Snapshot() map[string]function.Function {
	return map[string]function.Function{
		"now":        r.timeFunc(time.RFC3339),
		"today":      r.timeFunc("2006-01-02"),
		"year":       r.timeFunc("2006"),
		"upper":      stdlib.UpperFunc,
		"lower":      stdlib.LowerFunc,
		"title":      stdlib.TitleFunc,
		"trimspace":  stdlib.TrimSpaceFunc,
		"replace":    stdlib.ReplaceFunc,
		"format":     stdlib.FormatFunc,
		"formatdate": stdlib.FormatDateFunc,
	}
}

// Names returns the sorted helper names.
func (r *Registry) Names() []string {
	snapshot := r.Snapshot()
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) timeFunc(layout string) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{},
		Type:   function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			return cty.StringVal(r.clock().Format(layout)), nil
		},
	})
}
