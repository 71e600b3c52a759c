package operators

import (
	_ "embed"
	"os"
	"path/filepath"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed metadata.json
var metadataJSON []byte

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// InputSlot declares one named input of an operation.
type InputSlot struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Optional    bool   `json:"optional,omitempty" yaml:"optional,omitempty"` // may be absent when inputs run out
	List        bool   `json:"list,omitempty" yaml:"list,omitempty"`         // consumes all remaining inputs
}

// AttributeSlot documents a field an operation is known to carry.
type AttributeSlot struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Schema describes an operation.
type Schema struct {
	Name        string          `json:"name" yaml:"name"`
	Category    string          `json:"category,omitempty" yaml:"category,omitempty"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Inputs      []InputSlot     `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Attributes  []AttributeSlot `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Registry maps operation names to schemas.
//
// A Registry is safe for concurrent lookups once loading is complete.
type Registry struct {
	schemas map[string]*Schema
}

// NewRegistry creates a registry holding the built-in operator metadata.
func NewRegistry() *Registry {
	r := &Registry{
		schemas: make(map[string]*Schema),
	}
	if err := r.LoadJSON(metadataJSON); err != nil {
		panic(errors.Wrap(err, "embedded operator metadata"))
	}
	return r
}

// NewEmptyRegistry creates a registry with no schemas.
func NewEmptyRegistry() *Registry {
	return &Registry{schemas: make(map[string]*Schema)}
}

// Register adds a schema, replacing any schema with the same name.
func (r *Registry) Register(schema *Schema) {
	r.schemas[schema.Name] = schema
}

// Get returns the schema for an operation.
func (r *Registry) Get(operation string) (*Schema, bool) {
	s, ok := r.schemas[operation]
	return s, ok
}

// SupportedOps returns the sorted names of all registered operations.
func (r *Registry) SupportedOps() []string {
	ops := make([]string, 0, len(r.schemas))
	for op := range r.schemas {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// LoadFile merges schemas from a .json, .yaml or .yml file.
//
//nolint:gosec // G304: Path is provided by user
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read operator metadata")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = r.LoadJSON(data)
	case ".yaml", ".yml":
		err = r.LoadYAML(data)
	default:
		return errors.Errorf("unsupported operator metadata file '%s'", path)
	}
	return errors.Wrapf(err, "operator metadata '%s'", path)
}

// LoadJSON merges schemas from a JSON array.
func (r *Registry) LoadJSON(data []byte) error {
	var schemas []*Schema
	if err := json.Unmarshal(data, &schemas); err != nil {
		return err
	}
	return r.registerAll(schemas)
}

// LoadYAML merges schemas from a YAML sequence.
func (r *Registry) LoadYAML(data []byte) error {
	var schemas []*Schema
	if err := yaml.Unmarshal(data, &schemas); err != nil {
		return err
	}
	return r.registerAll(schemas)
}

func (r *Registry) registerAll(schemas []*Schema) error {
	for i, s := range schemas {
		if s == nil || s.Name == "" {
			return errors.Errorf("schema %d has no name", i)
		}
	}
	for _, s := range schemas {
		r.Register(s)
	}
	return nil
}
