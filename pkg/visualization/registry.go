package visualization

import (
	"fmt"
	"sort"
)

// Definition describes one visualization known to the registry.
type Definition struct {
	Path      Path      `json:"path" yaml:"path"`
	InputType InputType `json:"input_type" yaml:"input_type"`
}

// Registry holds the visualizations available to the chooser.
type Registry struct {
	defs []Definition
}

// NewRegistry creates a registry holding defs.
func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{}
	for _, d := range defs {
		r.Add(d)
	}
	return r
}

// DefaultRegistry returns the builtin visualizations.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Definition{Path: Builtin("JSON"), InputType: TypeAny},
		Definition{Path: Builtin("Scatter Plot"), InputType: "Standard.Table.Data.Table.Table"},
		Definition{Path: Builtin("Histogram"), InputType: "Standard.Table.Data.Table.Table"},
		Definition{Path: Builtin("Table"), InputType: "Standard.Table.Data.Table.Table"},
		Definition{Path: Builtin("Heatmap"), InputType: "Standard.Base.Data.Vector.Vector"},
		Definition{Path: Builtin("Image"), InputType: "Standard.Image.Data.Image.Image"},
		Definition{Path: Builtin("SQL Query"), InputType: "Standard.Database.Data.Table.Table"},
		Definition{Path: Builtin("Geo Map"), InputType: "Standard.Table.Data.Table.Table"},
	)
}

// Add registers d, replacing any definition with the same path.
func (r *Registry) Add(d Definition) {
	for i := range r.defs {
		if r.defs[i].Path == d.Path {
			r.defs[i] = d
			return
		}
	}
	r.defs = append(r.defs, d)
}

// Lookup returns the definition for p.
func (r *Registry) Lookup(p Path) (Definition, error) {
	for _, d := range r.defs {
		if d.Path == p {
			return d, nil
		}
	}
	return Definition{}, fmt.Errorf("visualization %s not registered", p)
}

// ValidFor returns the paths able to display a value of type t, sorted by
// name. Visualizations accepting Any are always included; a nil type matches
// only those.
func (r *Registry) ValidFor(t *InputType) []Path {
	var paths []Path
	for _, d := range r.defs {
		if d.InputType == TypeAny || (t != nil && d.InputType == *t) {
			paths = append(paths, d.Path)
		}
	}
	sort.Slice(paths, func(i, j int) bool {
		return paths[i].String() < paths[j].String()
	})
	return paths
}

// Definitions returns every registered definition in registration order.
func (r *Registry) Definitions() []Definition {
	return append([]Definition(nil), r.defs...)
}

// Len returns the number of registered visualizations.
func (r *Registry) Len() int {
	return len(r.defs)
}
