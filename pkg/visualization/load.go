package visualization

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// registryFile is the on-disk form of a registry. JSON files parse too.
//
//	visualizations:
//	  - path: builtin/Table
//	    input_type: Standard.Table.Data.Table.Table
type registryFile struct {
	Visualizations []Definition `yaml:"visualizations"`
}

// ParseRegistry reads a registry from YAML or JSON data.
func ParseRegistry(data []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing registry: %w", err)
	}
	r := NewRegistry()
	for i, d := range f.Visualizations {
		if d.Path.IsZero() {
			return nil, fmt.Errorf("visualization %d: missing path", i)
		}
		if d.InputType == "" {
			d.InputType = TypeAny
		}
		r.Add(d)
	}
	return r, nil
}

// LoadRegistry reads a registry file. An empty filename yields
// DefaultRegistry.
func LoadRegistry(filename string) (*Registry, error) {
	if filename == "" {
		return DefaultRegistry(), nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading registry: %w", err)
	}
	return ParseRegistry(data)
}
