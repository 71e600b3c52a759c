// Package uff provides UFF model import for inspection and visualization.
//
// UFF (Universal Framework Format) is the model exchange format produced by
// the TensorFlow and Caffe converters of TensorRT. This package decodes both
// the binary and the text container and rebuilds a typed computation graph
// with named arguments, folded constants and typed attributes.
//
// # Supported Features
//
//   - Binary (.uff, .pb) and text (.pbtxt, .uff.txt) containers
//   - Reference table resolution for shared field values
//   - Constant folding of single-consumer Const nodes into initializers
//   - Graph inputs (Input) and outputs (MarkOutput)
//   - Operator metadata driven argument naming
//
// # Example Usage
//
//	import "github.com/born-ml/uff/uff"
//
//	model, err := uff.Load("lenet5.uff")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, g := range model.Graphs {
//	    for _, in := range g.Inputs {
//	        fmt.Println("input:", in.Name, in.Values[0].Type)
//	    }
//	}
package uff

import (
	internaluff "github.com/born-ml/uff/internal/uff"
	"github.com/born-ml/uff/internal/uff/operators"
)

// LoadOptions configures UFF model loading behavior.
type LoadOptions = internaluff.LoadOptions

// Format identifies a container encoding.
type Format = internaluff.Format

// Containers recognized by Detect.
const (
	FormatUnknown = internaluff.FormatUnknown
	FormatBinary  = internaluff.FormatBinary
	FormatText    = internaluff.FormatText
)

// Error kinds returned while loading. Test with errors.Is.
var (
	ErrUnsupportedAttribute    = internaluff.ErrUnsupportedAttribute
	ErrUnsupportedDataType     = internaluff.ErrUnsupportedDataType
	ErrUnsupportedShapeFormat  = internaluff.ErrUnsupportedShapeFormat
	ErrUnsupportedValuesFormat = internaluff.ErrUnsupportedValuesFormat
	ErrInvalidValueIdentifier  = internaluff.ErrInvalidValueIdentifier
	ErrUnsupportedFormat       = internaluff.ErrUnsupportedFormat
	ErrTensorElided            = internaluff.ErrTensorElided
)

// DecodeError reports a stream that does not decode as a UFF MetaGraph.
type DecodeError = internaluff.DecodeError

// DefaultLoadOptions returns the default options for loading UFF models.
//
// Default configuration:
//   - Metadata: built-in operator registry
//   - Parallel: disabled
//   - Logger: discarded
func DefaultLoadOptions() LoadOptions {
	return internaluff.DefaultLoadOptions()
}

// Load loads a UFF model from a file path, detecting the container from the
// file name and contents.
//
// For custom loading options, pass LoadOptions:
//
//	registry := uff.NewRegistry()
//	if err := registry.LoadFile("plugins.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//	opts := uff.DefaultLoadOptions()
//	opts.Metadata = registry
//	model, err := uff.Load("model.uff", opts)
func Load(path string, opts ...LoadOptions) (*Model, error) {
	return internaluff.Load(path, opts...)
}

// LoadFromBytes loads a model from the binary container.
func LoadFromBytes(data []byte, opts ...LoadOptions) (*Model, error) {
	return internaluff.LoadFromBytes(data, opts...)
}

// LoadFromText loads a model from the text container.
func LoadFromText(data []byte, opts ...LoadOptions) (*Model, error) {
	return internaluff.LoadFromText(data, opts...)
}

// Detect guesses the container of a file from its name and contents.
func Detect(name string, data []byte) (Format, bool) {
	return internaluff.Detect(name, data)
}

// ModelInfo contains metadata about a UFF model without building its graphs.
type ModelInfo = internaluff.ModelInfo

// GetModelInfo extracts metadata from a UFF file without building the graphs.
//
// Example:
//
//	info, err := uff.GetModelInfo("model.uff")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s: %d graphs, %d nodes\n", info.Format, info.GraphCount, info.NodeCount)
func GetModelInfo(path string) (*ModelInfo, error) {
	return internaluff.GetModelInfo(path)
}

// Registry is the operator metadata store.
type Registry = operators.Registry

// Schema describes an operator.
type Schema = operators.Schema

// NewRegistry returns a registry holding the built-in operator metadata.
func NewRegistry() *Registry {
	return operators.NewRegistry()
}

// ListSupportedOps returns the operators known to the built-in metadata.
func ListSupportedOps() []string {
	return operators.NewRegistry().SupportedOps()
}
