package uff

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/born-ml/uff/internal/uff/operators"
)

// Metadata looks up operator schemas by operation name.
type Metadata interface {
	Get(operation string) (*operators.Schema, bool)
}

// Value is a named edge of the graph. Values are shared by name within a graph.
type Value struct {
	Name        string
	Type        *TensorType // nil when unknown
	Initializer *Tensor     // set for folded constants
}

// NewValue creates a value. The name must be non-empty.
func NewValue(name string, typ *TensorType, initializer *Tensor) (*Value, error) {
	if name == "" {
		return nil, errors.Wrapf(ErrInvalidValueIdentifier, "'%s'", name)
	}
	return &Value{Name: name, Type: typ, Initializer: initializer}, nil
}

// Argument is a named role holding one or more values.
type Argument struct {
	Name   string
	Values []*Value
}

// Node is a normalized operation.
type Node struct {
	Name       string
	Type       *operators.Schema
	Inputs     []*Argument
	Outputs    []*Argument
	Attributes []*Attribute
}

// inputBinding assigns a run of raw input names to an argument name.
type inputBinding struct {
	Name   string
	Inputs []string
}

// bindInputs walks the declared slots and hands each a prefix of the remaining
// inputs. Inputs left over become positional arguments named "input" (position
// zero) or by their index.
func bindInputs(slots []operators.InputSlot, inputs []string) []inputBinding {
	if len(inputs) == 0 {
		return nil
	}
	bindings := make([]inputBinding, 0, len(inputs))
	index := 0
	for _, slot := range slots {
		if slot.Optional && index >= len(inputs) {
			continue
		}
		count := 1
		if slot.List {
			count = max(len(inputs)-index, 0)
		}
		start := min(index, len(inputs))
		end := min(index+count, len(inputs))
		bindings = append(bindings, inputBinding{Name: slot.Name, Inputs: inputs[start:end]})
		index += count
	}
	for i := index; i < len(inputs); i++ {
		name := strconv.Itoa(i)
		if i == 0 {
			name = "input"
		}
		bindings = append(bindings, inputBinding{Name: name, Inputs: inputs[i : i+1]})
	}
	return bindings
}

// newNode normalizes a node record. value resolves names to the graph's shared values.
func newNode(metadata Metadata, proto *NodeProto, value func(name string) *Value) (*Node, error) {
	node := &Node{Name: proto.ID}
	if schema, ok := metadata.Get(proto.Operation); ok && schema != nil {
		node.Type = schema
	} else {
		node.Type = &operators.Schema{Name: proto.Operation}
	}

	for _, b := range bindInputs(node.Type.Inputs, proto.Inputs) {
		values := make([]*Value, len(b.Inputs))
		for i, name := range b.Inputs {
			values[i] = value(name)
		}
		node.Inputs = append(node.Inputs, &Argument{Name: b.Name, Values: values})
	}

	node.Outputs = []*Argument{{Name: "output", Values: []*Value{value(proto.ID)}}}

	node.Attributes = make([]*Attribute, 0, len(proto.Fields))
	for _, field := range proto.Fields {
		attr, err := NewAttribute(field.Key, field.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "node '%s'", proto.ID)
		}
		node.Attributes = append(node.Attributes, attr)
	}
	return node, nil
}
