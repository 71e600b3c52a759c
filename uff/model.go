package uff

import internaluff "github.com/born-ml/uff/internal/uff"

// Model is a decoded UFF model: format string, imports and graphs.
//
// The model is a read-only object graph. Values are shared between the
// arguments that reference them, so comparing *Value pointers tells whether
// two arguments name the same edge.
type Model = internaluff.Model

// Graph is one built graph. Use Graph.Value to look up a value by name.
type Graph = internaluff.Graph

// Node is a normalized operation.
type Node = internaluff.Node

// Argument is a named role holding one or more values.
type Argument = internaluff.Argument

// Value is a named edge, optionally typed and initialized.
type Value = internaluff.Value

// Attribute is a typed node field.
type Attribute = internaluff.Attribute

// Tensor is a constant payload.
type Tensor = internaluff.Tensor

// TensorType is an element type with an optional shape.
type TensorType = internaluff.TensorType

// TensorShape lists dimension sizes.
type TensorShape = internaluff.TensorShape
