// Package uff provides UFF model import functionality.
//
// UFF (Universal Framework Format) serializes a model as a flat list of nodes,
// each with an operation tag, a list of input names and a list of typed fields.
// This package decodes the binary (.uff, .pb) and text (.pbtxt, .uff.txt)
// containers and rebuilds a typed graph for inspection.
//
// Key components:
//   - MetaGraph: top-level record with descriptors, reference table and graphs
//   - ReferenceTable: resolves "ref" field values against referenced_data
//   - Graph: shared values, folded constants, graph inputs and outputs
//   - Node: operation with named arguments bound from operator metadata
//   - Attribute: typed field value
//   - Tensor / TensorType: constant payloads and element types
//
// Supported data types:
//   - int8, int16, int32, int64
//   - float16, float32
//   - "?" for the untyped sentinel code
//
// Example usage:
//
//	model, err := uff.Load("lenet5.uff")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Format: %s, imports: %v\n", model.Format, model.Imports)
//	for _, g := range model.Graphs {
//	    for _, node := range g.Nodes {
//	        fmt.Printf("Op: %s (type: %s)\n", node.Name, node.Type.Name)
//	    }
//	}
package uff
