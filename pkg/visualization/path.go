// Package visualization defines the identifiers the action bar passes around:
// visualization paths, the input types they accept, and a registry of known
// visualizations.
package visualization

import (
	"fmt"
	"strings"
)

// ProjectBuiltin is the project name for visualizations shipped with the editor.
const ProjectBuiltin = "builtin"

// Path identifies a visualization by the project that defines it and its name.
type Path struct {
	Project string `json:"project" yaml:"project"`
	Name    string `json:"name" yaml:"name"`
}

// Builtin returns the path of a builtin visualization.
func Builtin(name string) Path {
	return Path{Project: ProjectBuiltin, Name: name}
}

// ParsePath parses "project/name". A bare name is taken as builtin.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Path{}, fmt.Errorf("empty visualization path")
	}
	project, name, ok := strings.Cut(s, "/")
	if !ok {
		return Builtin(s), nil
	}
	if project == "" || name == "" {
		return Path{}, fmt.Errorf("malformed visualization path %q", s)
	}
	return Path{Project: project, Name: name}, nil
}

// IsZero reports whether p names nothing.
func (p Path) IsZero() bool {
	return p.Name == ""
}

func (p Path) String() string {
	if p.Project == "" {
		return p.Name
	}
	return p.Project + "/" + p.Name
}

// MarshalText implements encoding.TextMarshaler.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Path) UnmarshalText(b []byte) error {
	parsed, err := ParsePath(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Ptr returns a pointer to a copy of p.
func (p Path) Ptr() *Path {
	return &p
}

// PathEqual compares optional paths; two nils are equal.
func PathEqual(a, b *Path) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// InputType names the type of the value a node produces, e.g.
// "Standard.Table.Data.Table.Table".
type InputType string

// TypeAny is accepted by visualizations that can display any value.
const TypeAny InputType = "Any"

// Ptr returns a pointer to a copy of t.
func (t InputType) Ptr() *InputType {
	return &t
}

// Short returns the last dotted segment of the type name.
func (t InputType) Short() string {
	s := string(t)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// TypeEqual compares optional input types; two nils are equal.
func TypeEqual(a, b *InputType) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// FormatType renders an optional input type for logs and reports.
func FormatType(t *InputType) string {
	if t == nil {
		return "none"
	}
	return string(*t)
}

// FormatPath renders an optional path for logs and reports.
func FormatPath(p *Path) string {
	if p == nil {
		return "none"
	}
	return p.String()
}
