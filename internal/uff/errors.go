package uff

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Error kinds returned while building a model. Test with errors.Is.
var (
	ErrUnsupportedAttribute    = errors.New("unsupported attribute")
	ErrUnsupportedDataType     = errors.New("unsupported data type")
	ErrUnsupportedShapeFormat  = errors.New("unsupported shape format")
	ErrUnsupportedValuesFormat = errors.New("unsupported values format")
	ErrInvalidValueIdentifier  = errors.New("invalid value identifier")
	ErrUnsupportedFormat       = errors.New("unsupported UFF format")
	ErrTensorElided            = errors.New("tensor data is elided")
)

// DecodeError reports a stream that does not decode as a uff.MetaGraph.
type DecodeError struct {
	Format Format
	Err    error
}

func (e *DecodeError) Error() string {
	message := strings.TrimSuffix(e.Err.Error(), ".")
	if e.Format == FormatText {
		return fmt.Sprintf("file text format is not uff.MetaGraph (%s)", message)
	}
	return fmt.Sprintf("file format is not uff.MetaGraph (%s)", message)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
