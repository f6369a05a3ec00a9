package ehtable

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cloudcmds/unwind/rtti"
)

// TypeResolver maps a type name from a table file to its TypeInfo. It is
// consulted once per type table entry during decoding.
type TypeResolver func(name string) rtti.TypeInfo

// fileFormat is the YAML shape of a table set. The catch-all type entry is
// written as an empty string.
type fileFormat struct {
	Types   []string     `yaml:"types"`
	Actions []fileAction `yaml:"actions"`
	Filters []int32      `yaml:"filters,omitempty"`
}

type fileAction struct {
	Clause int32  `yaml:"clause"`
	Next   uint32 `yaml:"next"`
}

// DecodeYAML parses a table set from its YAML interchange form, resolving
// type names through resolve. The result is validated before being
// returned.
func DecodeYAML(data []byte, resolve TypeResolver) (*Tables, error) {
	var file fileFormat
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid table file: %w", err)
	}
	t := &Tables{
		Actions: make([]Action, 0, len(file.Actions)),
		Types:   make([]rtti.TypeInfo, 0, len(file.Types)),
		Filters: file.Filters,
	}
	for _, a := range file.Actions {
		t.Actions = append(t.Actions, Action{ClauseID: a.Clause, Next: a.Next})
	}
	for _, name := range file.Types {
		if name == "" {
			t.Types = append(t.Types, nil) // catch-all
			continue
		}
		ti := resolve(name)
		if ti == nil {
			return nil, fmt.Errorf("unknown type %q in table file", name)
		}
		t.Types = append(t.Types, ti)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// EncodeYAML renders the tables in their YAML interchange form. Types are
// written by name; the catch-all entry becomes an empty string.
func (t *Tables) EncodeYAML() ([]byte, error) {
	file := fileFormat{
		Types:   make([]string, 0, len(t.Types)),
		Actions: make([]fileAction, 0, len(t.Actions)),
		Filters: t.Filters,
	}
	for _, ti := range t.Types {
		if ti == nil {
			file.Types = append(file.Types, "")
			continue
		}
		file.Types = append(file.Types, ti.Name())
	}
	for _, a := range t.Actions {
		file.Actions = append(file.Actions, fileAction{Clause: a.ClauseID, Next: a.Next})
	}
	return yaml.Marshal(file)
}
