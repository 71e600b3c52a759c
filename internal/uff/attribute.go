package uff

import (
	"github.com/pkg/errors"
)

// Attribute type tags.
const (
	AttributeString       = "string"
	AttributeStrings      = "string[]"
	AttributeFloat64      = "float64"
	AttributeFloat64s     = "float64[]"
	AttributeBoolean      = "boolean"
	AttributeBooleans     = "boolean[]"
	AttributeInt64        = "int64"
	AttributeInt64s       = "int64[]"
	AttributeRef          = "ref"
	AttributeDataType     = "uff.DataType"
	AttributeDataTypeList = "uff.DataType[]"
)

// Attribute is a normalized node field. Type is empty for blob and
// dimension-order values.
type Attribute struct {
	Name  string
	Type  string
	Value interface{}
}

// NewAttribute normalizes a field value into its typed form.
//
// Value holds string, []string, float64, []float64, bool, []bool, int64,
// []int64, []byte, the ref key (string), a data type tag (string or []string),
// *DimOrders or []DimOrders depending on the variant.
//
//nolint:gocyclo,cyclop // One case per variant
func NewAttribute(name string, value *Data) (*Attribute, error) {
	a := &Attribute{Name: name}
	if value == nil {
		return nil, errors.Wrapf(ErrUnsupportedAttribute, "'%s' has no value", name)
	}
	switch value.Kind {
	case DataKindS:
		a.Type, a.Value = AttributeString, value.S
	case DataKindSList:
		a.Type, a.Value = AttributeStrings, value.SList
	case DataKindD:
		a.Type, a.Value = AttributeFloat64, value.D
	case DataKindDList:
		a.Type, a.Value = AttributeFloat64s, value.DList
	case DataKindB:
		a.Type, a.Value = AttributeBoolean, value.B
	case DataKindBList:
		a.Type, a.Value = AttributeBooleans, value.BList
	case DataKindI:
		a.Type, a.Value = AttributeInt64, value.I
	case DataKindIList:
		a.Type, a.Value = AttributeInt64s, value.IList
	case DataKindBlob:
		a.Value = value.Blob
	case DataKindRef:
		a.Type, a.Value = AttributeRef, value.Ref
	case DataKindDType:
		tag, err := dataTypeTag(value.DType)
		if err != nil {
			return nil, errors.Wrapf(err, "attribute '%s'", name)
		}
		a.Type, a.Value = AttributeDataType, tag
	case DataKindDTypeList:
		tags := make([]string, len(value.DTypeList))
		for i, dt := range value.DTypeList {
			tag, err := dataTypeTag(dt)
			if err != nil {
				return nil, errors.Wrapf(err, "attribute '%s'", name)
			}
			tags[i] = tag
		}
		a.Type, a.Value = AttributeDataTypeList, tags
	case DataKindDimOrders:
		a.Value = value.DimOrders
	case DataKindDimOrdersList:
		a.Value = value.DimOrdersList
	default:
		return nil, errors.Wrapf(ErrUnsupportedAttribute, "'%s' value '%s'", name, value.Kind)
	}
	return a, nil
}
