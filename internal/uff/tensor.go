package uff

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// elisionMarker opens and closes payloads that exporters replaced with
// a "(...)"-style placeholder instead of the real weights.
var (
	elisionPrefix = []byte("(...")
	elisionSuffix = []byte("...)")
)

var dataTypeTags = map[DataType]string{
	DataTypeInt8:    "int8",
	DataTypeInt16:   "int16",
	DataTypeInt32:   "int32",
	DataTypeInt64:   "int64",
	DataTypeFloat16: "float16",
	DataTypeFloat32: "float32",
	DataTypeUnknown: "?",
}

// TensorType is an element type with an optional shape.
type TensorType struct {
	DataType string       `json:"dataType" yaml:"dataType"`
	Shape    *TensorShape `json:"shape,omitempty" yaml:"shape,omitempty"`
}

// TensorShape lists dimension sizes. An empty shape is a scalar.
type TensorShape struct {
	Dimensions []int64 `json:"dimensions" yaml:"dimensions"`
}

// Tensor is a constant value. Values is nil when the payload was elided.
type Tensor struct {
	Type   *TensorType
	Values []byte
}

// NewTensorType maps a data type code and an optional shape field.
func NewTensorType(dataType DataType, shape *Data) (*TensorType, error) {
	tag, err := dataTypeTag(dataType)
	if err != nil {
		return nil, err
	}
	t := &TensorType{DataType: tag}
	if shape != nil {
		if t.Shape, err = NewTensorShape(shape); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// NewTensorShape reads a shape field, which must be an i_list.
func NewTensorShape(shape *Data) (*TensorShape, error) {
	if shape.Kind != DataKindIList {
		return nil, errors.Wrapf(ErrUnsupportedShapeFormat, "'%s'", shape.Kind)
	}
	dims := make([]int64, len(shape.IList))
	copy(dims, shape.IList)
	return &TensorShape{Dimensions: dims}, nil
}

// NewTensor builds a constant from dtype, shape and values fields. The values
// field must be a blob.
func NewTensor(dataType DataType, shape, values *Data) (*Tensor, error) {
	t, err := NewTensorType(dataType, shape)
	if err != nil {
		return nil, err
	}
	if values == nil || values.Kind != DataKindBlob {
		kind := DataKindNone
		if values != nil {
			kind = values.Kind
		}
		return nil, errors.Wrapf(ErrUnsupportedValuesFormat, "'%s'", kind)
	}
	tensor := &Tensor{Type: t, Values: values.Blob}
	if tensor.Values == nil {
		tensor.Values = []byte{}
	}
	if isElided(tensor.Values) {
		tensor.Values = nil
	}
	return tensor, nil
}

func isElided(b []byte) bool {
	return len(b) > 8 && bytes.HasPrefix(b, elisionPrefix) && bytes.HasSuffix(b, elisionSuffix)
}

func dataTypeTag(dataType DataType) (string, error) {
	tag, ok := dataTypeTags[dataType]
	if !ok {
		return "", errors.Wrapf(ErrUnsupportedDataType, "'%d'", dataType)
	}
	return tag, nil
}

// Elided reports whether the payload was replaced by a placeholder.
func (t *Tensor) Elided() bool {
	return t.Values == nil
}

// Float64s decodes the little-endian payload into float64 values.
func (t *Tensor) Float64s() ([]float64, error) {
	if t.Elided() {
		return nil, ErrTensorElided
	}
	size := elementSize(t.Type.DataType)
	if size == 0 {
		return nil, errors.Wrapf(ErrUnsupportedDataType, "cannot decode '%s'", t.Type.DataType)
	}
	if len(t.Values)%size != 0 {
		return nil, errors.Errorf("payload of %d bytes is not a multiple of %s", len(t.Values), t.Type.DataType)
	}
	out := make([]float64, len(t.Values)/size)
	le := binary.LittleEndian
	for i := range out {
		b := t.Values[i*size:]
		switch t.Type.DataType {
		case "int8":
			out[i] = float64(int8(b[0]))
		case "int16":
			out[i] = float64(int16(le.Uint16(b))) //nolint:gosec // G115: two's complement reinterpretation.
		case "int32":
			out[i] = float64(int32(le.Uint32(b))) //nolint:gosec // G115: two's complement reinterpretation.
		case "int64":
			out[i] = float64(int64(le.Uint64(b))) //nolint:gosec // G115: two's complement reinterpretation.
		case "float16":
			out[i] = float64(float16.Frombits(le.Uint16(b)).Float32())
		case "float32":
			out[i] = float64(math.Float32frombits(le.Uint32(b)))
		}
	}
	return out, nil
}

func elementSize(dataType string) int {
	switch dataType {
	case "int8":
		return 1
	case "int16", "float16":
		return 2
	case "int32", "float32":
		return 4
	case "int64":
		return 8
	default:
		return 0
	}
}

// Size returns the number of elements. A scalar has one element.
func (s *TensorShape) Size() int64 {
	n := int64(1)
	for _, d := range s.Dimensions {
		n *= d
	}
	return n
}

func (s *TensorShape) String() string {
	if s == nil || len(s.Dimensions) == 0 {
		return ""
	}
	dims := make([]string, len(s.Dimensions))
	for i, d := range s.Dimensions {
		dims[i] = strconv.FormatInt(d, 10)
	}
	return "[" + strings.Join(dims, ",") + "]"
}

func (t *TensorType) String() string {
	return t.DataType + t.Shape.String()
}
