package uff

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/born-ml/uff/internal/uff/operators"
)

// LoadOptions configures model loading behavior.
type LoadOptions struct {
	// Metadata resolves operator schemas (default: the built-in registry).
	Metadata Metadata

	// Parallel builds graphs concurrently. The result is the same as a sequential build.
	Parallel bool

	// Logger receives debug traces of builder decisions (default: discarded).
	Logger logrus.FieldLogger
}

// DefaultLoadOptions returns default loading options.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Metadata: operators.NewRegistry(),
		Parallel: false,
		Logger:   discardLogger(),
	}
}

func (o LoadOptions) withDefaults() LoadOptions {
	if o.Metadata == nil {
		o.Metadata = operators.NewRegistry()
	}
	if o.Logger == nil {
		o.Logger = discardLogger()
	}
	return o
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func loadOptions(opts []LoadOptions) LoadOptions {
	if len(opts) > 0 {
		return opts[0].withDefaults()
	}
	return DefaultLoadOptions()
}

// Load loads a UFF model from file. The container is detected from the file
// name and contents.
//
// Example:
//
//	model, err := uff.Load("lenet5.uff")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, g := range model.Graphs {
//	    fmt.Println(g.Name, len(g.Nodes))
//	}
//
//nolint:gosec // G304: Path is provided by user, file inclusion is intentional for model loading
func Load(path string, opts ...LoadOptions) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file")
	}
	format, ok := Detect(path, data)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "'%s'", path)
	}
	return LoadFormat(data, format, opts...)
}

// LoadFromBytes loads a model from the binary container.
func LoadFromBytes(data []byte, opts ...LoadOptions) (*Model, error) {
	return LoadFormat(data, FormatBinary, opts...)
}

// LoadFromText loads a model from the text container.
func LoadFromText(data []byte, opts ...LoadOptions) (*Model, error) {
	return LoadFormat(data, FormatText, opts...)
}

// LoadFormat loads a model encoded in the given container.
func LoadFormat(data []byte, format Format, opts ...LoadOptions) (*Model, error) {
	meta, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	return LoadFromProto(meta, loadOptions(opts))
}

// LoadFromProto builds a model from a decoded record.
func LoadFromProto(meta *MetaGraph, opt LoadOptions) (*Model, error) {
	return NewModel(meta, opt)
}

// Decode decodes a record, wrapping decoder failures in a *DecodeError.
func Decode(data []byte, format Format) (*MetaGraph, error) {
	var (
		meta *MetaGraph
		err  error
	)
	switch format {
	case FormatBinary:
		meta, err = Parse(data)
	case FormatText:
		meta, err = ParseText(data)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "'%s'", format)
	}
	if err != nil {
		return nil, &DecodeError{Format: format, Err: err}
	}
	return meta, nil
}

// ModelInfo contains basic information about a UFF model without building its graphs.
type ModelInfo struct {
	Container      Format
	Format         string
	Version        int64
	Imports        []string
	GraphCount     int
	NodeCount      int
	ReferenceCount int
}

// GetModelInfo extracts basic info from a UFF file.
//
//nolint:gosec // G304: Path is provided by user
func GetModelInfo(path string) (*ModelInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file")
	}
	format, ok := Detect(path, data)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "'%s'", path)
	}
	meta, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	return NewModelInfo(meta, format), nil
}

// NewModelInfo summarizes a decoded record.
func NewModelInfo(meta *MetaGraph, container Format) *ModelInfo {
	info := &ModelInfo{
		Container:      container,
		Format:         formatName(meta.Version),
		Version:        meta.Version,
		GraphCount:     len(meta.Graphs),
		ReferenceCount: len(meta.ReferencedData),
	}
	for _, d := range meta.Descriptors {
		info.Imports = append(info.Imports, importName(d))
	}
	for i := range meta.Graphs {
		info.NodeCount += len(meta.Graphs[i].Nodes)
	}
	return info
}
