// Package view renders built UFF models for the command line.
package view

import (
	"fmt"
	"io"
	"sort"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/uff/internal/uff"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ModelSummary is the serializable form of a model.
type ModelSummary struct {
	Format  string         `json:"format" yaml:"format"`
	Imports []string       `json:"imports" yaml:"imports"`
	Graphs  []GraphSummary `json:"graphs" yaml:"graphs"`
}

// GraphSummary is the serializable form of a graph.
type GraphSummary struct {
	Name    string            `json:"name" yaml:"name"`
	Inputs  []ArgumentSummary `json:"inputs" yaml:"inputs"`
	Outputs []ArgumentSummary `json:"outputs" yaml:"outputs"`
	Nodes   []NodeSummary     `json:"nodes" yaml:"nodes"`
}

// NodeSummary is the serializable form of a node.
type NodeSummary struct {
	Name       string             `json:"name" yaml:"name"`
	Type       string             `json:"type" yaml:"type"`
	Category   string             `json:"category,omitempty" yaml:"category,omitempty"`
	Inputs     []ArgumentSummary  `json:"inputs" yaml:"inputs"`
	Outputs    []ArgumentSummary  `json:"outputs" yaml:"outputs"`
	Attributes []AttributeSummary `json:"attributes" yaml:"attributes"`
}

// ArgumentSummary is the serializable form of an argument.
type ArgumentSummary struct {
	Name   string         `json:"name" yaml:"name"`
	Values []ValueSummary `json:"values" yaml:"values"`
}

// ValueSummary is the serializable form of a value.
type ValueSummary struct {
	Name        string         `json:"name" yaml:"name"`
	Type        string         `json:"type,omitempty" yaml:"type,omitempty"`
	Initializer *TensorSummary `json:"initializer,omitempty" yaml:"initializer,omitempty"`
}

// TensorSummary describes an initializer without its payload.
type TensorSummary struct {
	Type   string `json:"type" yaml:"type"`
	Bytes  int    `json:"bytes" yaml:"bytes"`
	Elided bool   `json:"elided,omitempty" yaml:"elided,omitempty"`
}

// AttributeSummary is the serializable form of an attribute.
type AttributeSummary struct {
	Name  string      `json:"name" yaml:"name"`
	Type  string      `json:"type,omitempty" yaml:"type,omitempty"`
	Value interface{} `json:"value" yaml:"value"`
}

// Summarize converts a model into its serializable form.
func Summarize(m *uff.Model) *ModelSummary {
	s := &ModelSummary{
		Format:  m.Format,
		Imports: append([]string{}, m.Imports...),
		Graphs:  make([]GraphSummary, 0, len(m.Graphs)),
	}
	for _, g := range m.Graphs {
		s.Graphs = append(s.Graphs, summarizeGraph(g))
	}
	return s
}

func summarizeGraph(g *uff.Graph) GraphSummary {
	s := GraphSummary{
		Name:    g.Name,
		Inputs:  summarizeArguments(g.Inputs),
		Outputs: summarizeArguments(g.Outputs),
		Nodes:   make([]NodeSummary, 0, len(g.Nodes)),
	}
	for _, n := range g.Nodes {
		node := NodeSummary{
			Name:       n.Name,
			Type:       n.Type.Name,
			Category:   n.Type.Category,
			Inputs:     summarizeArguments(n.Inputs),
			Outputs:    summarizeArguments(n.Outputs),
			Attributes: make([]AttributeSummary, 0, len(n.Attributes)),
		}
		for _, a := range n.Attributes {
			node.Attributes = append(node.Attributes, AttributeSummary{
				Name:  a.Name,
				Type:  a.Type,
				Value: attributeValue(a),
			})
		}
		s.Nodes = append(s.Nodes, node)
	}
	return s
}

func summarizeArguments(args []*uff.Argument) []ArgumentSummary {
	out := make([]ArgumentSummary, 0, len(args))
	for _, arg := range args {
		a := ArgumentSummary{Name: arg.Name, Values: make([]ValueSummary, 0, len(arg.Values))}
		for _, v := range arg.Values {
			a.Values = append(a.Values, summarizeValue(v))
		}
		out = append(out, a)
	}
	return out
}

func summarizeValue(v *uff.Value) ValueSummary {
	s := ValueSummary{Name: v.Name}
	if v.Type != nil {
		s.Type = v.Type.String()
	}
	if t := v.Initializer; t != nil {
		s.Initializer = &TensorSummary{
			Type:   t.Type.String(),
			Bytes:  len(t.Values),
			Elided: t.Elided(),
		}
	}
	return s
}

// attributeValue replaces payloads that do not serialize well.
func attributeValue(a *uff.Attribute) interface{} {
	switch v := a.Value.(type) {
	case []byte:
		return fmt.Sprintf("<%d bytes>", len(v))
	case *uff.DimOrders:
		return dimOrders(v)
	case []uff.DimOrders:
		list := make([]map[string][]int64, len(v))
		for i := range v {
			list[i] = dimOrders(&v[i])
		}
		return list
	default:
		return v
	}
}

func dimOrders(d *uff.DimOrders) map[string][]int64 {
	if d == nil {
		return map[string][]int64{}
	}
	m := make(map[string][]int64, len(d.Orders))
	for _, o := range d.Orders {
		m[fmt.Sprint(o.Key)] = o.Value
	}
	return m
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteYAML writes v as YAML.
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// OperationCounts returns how many nodes use each operation, sorted by name.
func OperationCounts(g *uff.Graph) [][2]string {
	counts := make(map[string]int)
	for _, n := range g.Nodes {
		counts[n.Type.Name]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([][2]string, len(names))
	for i, name := range names {
		out[i] = [2]string{name, fmt.Sprint(counts[name])}
	}
	return out
}
