package uff

// UFF protobuf data structures (hand-written).

// MetaGraph is the top-level record of a UFF file.
type MetaGraph struct {
	Version               int64          // Format version (0 when absent)
	DescriptorCoreVersion int64          // Core descriptor version
	Descriptors           []Descriptor   // Imported operator sets
	Graphs                []GraphProto   // Serialized graphs
	ReferencedData        []KeyValuePair // Reference table for "ref" field values
	ExtraFields           []KeyValuePair // Producer specific extras
}

// Descriptor names an imported operator set.
type Descriptor struct {
	ID          string // Descriptor id (e.g., "tensorflow_extension")
	Version     int64  // Descriptor version
	Optional    bool   // Import may be ignored by consumers
	ExtraFields []KeyValuePair
}

// GraphProto is a flat list of nodes.
type GraphProto struct {
	ID          string      // Graph id (usually "main")
	Nodes       []NodeProto // Nodes in declaration order
	ExtraFields []KeyValuePair
}

// NodeProto is a single operation.
type NodeProto struct {
	ID          string         // Node id, also the name of its single output
	Inputs      []string       // Names of consumed values
	Operation   string         // Operation tag (e.g., "Conv", "Const", "Input")
	Fields      []KeyValuePair // Operation fields
	ExtraFields []KeyValuePair
}

// KeyValuePair is a named Data value.
type KeyValuePair struct {
	Key   string
	Value *Data
}

// DataKind tags the variant held by Data.
type DataKind int

// Data variants, numbered as the oneof fields on the wire.
const (
	DataKindNone          DataKind = 0
	DataKindS             DataKind = 1
	DataKindSList         DataKind = 2
	DataKindD             DataKind = 3
	DataKindDList         DataKind = 4
	DataKindB             DataKind = 5
	DataKindBList         DataKind = 6
	DataKindI             DataKind = 7
	DataKindIList         DataKind = 8
	DataKindBlob          DataKind = 9
	DataKindRef           DataKind = 100
	DataKindDType         DataKind = 101
	DataKindDTypeList     DataKind = 102
	DataKindDimOrders     DataKind = 103
	DataKindDimOrdersList DataKind = 104
)

var dataKindNames = map[DataKind]string{
	DataKindS:             "s",
	DataKindSList:         "s_list",
	DataKindD:             "d",
	DataKindDList:         "d_list",
	DataKindB:             "b",
	DataKindBList:         "b_list",
	DataKindI:             "i",
	DataKindIList:         "i_list",
	DataKindBlob:          "blob",
	DataKindRef:           "ref",
	DataKindDType:         "dtype",
	DataKindDTypeList:     "dtype_list",
	DataKindDimOrders:     "dim_orders",
	DataKindDimOrdersList: "dim_orders_list",
}

// String returns the oneof field name of the variant.
func (k DataKind) String() string {
	if name, ok := dataKindNames[k]; ok {
		return name
	}
	if k == DataKindNone {
		return "none"
	}
	return "unknown"
}

// Data is the tagged union carried by a field. Only the member matching Kind is set.
type Data struct {
	Kind          DataKind
	S             string
	SList         []string
	D             float64
	DList         []float64
	B             bool
	BList         []bool
	I             int64
	IList         []int64
	Blob          []byte
	Ref           string
	DType         DataType
	DTypeList     []DataType
	DimOrders     *DimOrders
	DimOrdersList []DimOrders
}

// DimOrders maps a dimension order key to a permutation.
type DimOrders struct {
	Orders []DimOrder
}

// DimOrder is one entry of DimOrders.
type DimOrder struct {
	Key   int64
	Value []int64
}

// DataType is the UFF element type code.
type DataType int32

// UFF data types (DataType enum).
const (
	DataTypeInvalid DataType = 0
	DataTypeUnknown DataType = 7 // written by some exporters for untyped values
	DataTypeInt8    DataType = 0x10008
	DataTypeInt16   DataType = 0x10010
	DataTypeInt32   DataType = 0x10020
	DataTypeInt64   DataType = 0x10040
	DataTypeFloat16 DataType = 0x20010
	DataTypeFloat32 DataType = 0x20020
)

// dataTypeNames maps enum names used by the text format.
var dataTypeNames = map[string]DataType{
	"DT_INVALID": DataTypeInvalid,
	"DT_INT8":    DataTypeInt8,
	"DT_INT16":   DataTypeInt16,
	"DT_INT32":   DataTypeInt32,
	"DT_INT64":   DataTypeInt64,
	"DT_FLOAT16": DataTypeFloat16,
	"DT_FLOAT32": DataTypeFloat32,
}
