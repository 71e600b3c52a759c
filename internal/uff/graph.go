package uff

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Boundary operations.
const (
	OperationConst      = "Const"
	OperationInput      = "Input"
	OperationMarkOutput = "MarkOutput"
)

// Graph is a built UFF graph.
type Graph struct {
	Name    string
	Inputs  []*Argument
	Outputs []*Argument
	Nodes   []*Node

	values map[string]*Value
	order  []string
}

// Value returns the shared value with the given name.
func (g *Graph) Value(name string) (*Value, bool) {
	v, ok := g.values[name]
	return v, ok
}

// Values lists every value in the order its name was first seen.
func (g *Graph) Values() []*Value {
	values := make([]*Value, len(g.order))
	for i, name := range g.order {
		values[i] = g.values[name]
	}
	return values
}

// NewGraph builds a graph from its record.
//
// Zero-input Const nodes consumed exactly once are folded into initializers
// of their value and dropped. Input nodes become graph inputs and MarkOutput
// nodes with a single input become graph outputs. Every other node is
// normalized against the metadata.
//
//nolint:gocognit,gocyclo,cyclop,funlen // Three passes over the node list
func NewGraph(metadata Metadata, proto *GraphProto, log logrus.FieldLogger) (*Graph, error) {
	g := &Graph{
		Name:   proto.ID,
		values: make(map[string]*Value),
	}

	counts := make(map[string]int)
	for i := range proto.Nodes {
		node := &proto.Nodes[i]
		for _, input := range node.Inputs {
			counts[input]++
			if err := g.register(input); err != nil {
				return nil, errors.Wrapf(err, "input of node '%s'", node.ID)
			}
		}
		if err := g.register(node.ID); err != nil {
			return nil, errors.Wrapf(err, "node %d", i)
		}
	}

	// Rebinding runs in reverse so that, for duplicated ids, the earliest
	// declaration is the one that sticks.
	folded := make([]bool, len(proto.Nodes))
	for i := len(proto.Nodes) - 1; i >= 0; i-- {
		node := &proto.Nodes[i]
		if len(node.Inputs) != 0 {
			continue
		}
		switch node.Operation {
		case OperationConst:
			if counts[node.ID] != 1 {
				log.WithField("node", node.ID).Debugf("constant has %d consumers, keeping node", counts[node.ID])
				continue
			}
			fields := fieldMap(node.Fields)
			dtype, shape, values := fields["dtype"], fields["shape"], fields["values"]
			if dtype == nil || shape == nil || values == nil {
				continue
			}
			tensor, err := NewTensor(dtype.DType, shape, values)
			if err != nil {
				return nil, errors.Wrapf(err, "constant '%s'", node.ID)
			}
			g.values[node.ID] = &Value{Name: node.ID, Type: tensor.Type, Initializer: tensor}
			folded[i] = true
			log.WithField("node", node.ID).Debug("folded constant into initializer")
		case OperationInput:
			fields := fieldMap(node.Fields)
			var typ *TensorType
			if dtype, shape := fields["dtype"], fields["shape"]; dtype != nil && shape != nil {
				var err error
				if typ, err = NewTensorType(dtype.DType, shape); err != nil {
					return nil, errors.Wrapf(err, "input '%s'", node.ID)
				}
			}
			g.values[node.ID] = &Value{Name: node.ID, Type: typ}
		}
	}

	value := func(name string) *Value {
		return g.values[name]
	}
	for i := range proto.Nodes {
		if folded[i] {
			continue
		}
		node := &proto.Nodes[i]
		switch {
		case node.Operation == OperationInput:
			g.Inputs = append(g.Inputs, &Argument{Name: node.ID, Values: []*Value{value(node.ID)}})
		case node.Operation == OperationMarkOutput && len(node.Inputs) == 1:
			g.Outputs = append(g.Outputs, &Argument{Name: node.ID, Values: []*Value{value(node.Inputs[0])}})
		default:
			n, err := newNode(metadata, node, value)
			if err != nil {
				return nil, err
			}
			g.Nodes = append(g.Nodes, n)
		}
	}
	return g, nil
}

func (g *Graph) register(name string) error {
	if _, ok := g.values[name]; ok {
		return nil
	}
	v, err := NewValue(name, nil, nil)
	if err != nil {
		return err
	}
	g.values[name] = v
	g.order = append(g.order, name)
	return nil
}

// fieldMap indexes fields by key. The last field with a key wins.
func fieldMap(fields []KeyValuePair) map[string]*Data {
	m := make(map[string]*Data, len(fields))
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	return m
}
