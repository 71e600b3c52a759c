package uff

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Test helpers that build records and encode them in the UFF wire format.

func sData(s string) *Data { return &Data{Kind: DataKindS, S: s} }
func iData(i int64) *Data { return &Data{Kind: DataKindI, I: i} }
func dData(d float64) *Data { return &Data{Kind: DataKindD, D: d} }
func bData(b bool) *Data { return &Data{Kind: DataKindB, B: b} }
func refData(ref string) *Data { return &Data{Kind: DataKindRef, Ref: ref} }
func blobData(b []byte) *Data { return &Data{Kind: DataKindBlob, Blob: b} }
func dtypeData(dt DataType) *Data { return &Data{Kind: DataKindDType, DType: dt} }
func iListData(v ...int64) *Data { return &Data{Kind: DataKindIList, IList: v} }
func dListData(v ...float64) *Data { return &Data{Kind: DataKindDList, DList: v} }

func field(key string, value *Data) KeyValuePair {
	return KeyValuePair{Key: key, Value: value}
}

func inputNode(id string, dt DataType, dims ...int64) NodeProto {
	return NodeProto{
		ID:        id,
		Operation: OperationInput,
		Fields:    []KeyValuePair{field("dtype", dtypeData(dt)), field("shape", iListData(dims...))},
	}
}

func constNode(id string, payload []byte, dims ...int64) NodeProto {
	return NodeProto{
		ID:        id,
		Operation: OperationConst,
		Fields: []KeyValuePair{
			field("dtype", dtypeData(DataTypeFloat32)),
			field("shape", iListData(dims...)),
			field("values", blobData(payload)),
		},
	}
}

func opNode(id, op string, inputs ...string) NodeProto {
	return NodeProto{ID: id, Operation: op, Inputs: inputs}
}

func float32Bytes(values ...float32) []byte {
	b := make([]byte, 0, 4*len(values))
	for _, v := range values {
		b = protowire.AppendFixed32(b, math.Float32bits(v))
	}
	return b
}

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendStringField(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// encodeMetaGraph always writes version and descriptor_core_version, as the
// UFF exporters do.
func encodeMetaGraph(m *MetaGraph) []byte {
	var b []byte
	b = appendVarintField(b, 1, uint64(m.Version))
	b = appendVarintField(b, 2, uint64(m.DescriptorCoreVersion))
	for _, d := range m.Descriptors {
		var db []byte
		db = appendStringField(db, 1, d.ID)
		db = appendVarintField(db, 2, uint64(d.Version))
		if d.Optional {
			db = appendVarintField(db, 3, 1)
		}
		b = appendBytesField(b, 3, db)
	}
	for i := range m.Graphs {
		b = appendBytesField(b, 4, encodeGraph(&m.Graphs[i]))
	}
	for _, kv := range m.ReferencedData {
		b = appendBytesField(b, 5, encodePair(kv))
	}
	return b
}

func encodeGraph(g *GraphProto) []byte {
	var b []byte
	b = appendStringField(b, 1, g.ID)
	for i := range g.Nodes {
		b = appendBytesField(b, 2, encodeNode(&g.Nodes[i]))
	}
	return b
}

func encodeNode(n *NodeProto) []byte {
	var b []byte
	b = appendStringField(b, 1, n.ID)
	for _, in := range n.Inputs {
		b = appendStringField(b, 2, in)
	}
	b = appendStringField(b, 3, n.Operation)
	for _, kv := range n.Fields {
		b = appendBytesField(b, 4, encodePair(kv))
	}
	return b
}

func encodePair(kv KeyValuePair) []byte {
	var b []byte
	b = appendStringField(b, 1, kv.Key)
	return appendBytesField(b, 2, encodeData(kv.Value))
}

func packedVarints(values []uint64) []byte {
	var packed []byte
	for _, v := range values {
		packed = protowire.AppendVarint(packed, v)
	}
	return appendBytesField(nil, 1, packed)
}

func encodeInt64List(values []int64) []byte {
	raw := make([]uint64, len(values))
	for i, v := range values {
		raw[i] = uint64(v)
	}
	return packedVarints(raw)
}

func encodeDimOrders(d *DimOrders) []byte {
	var b []byte
	for _, o := range d.Orders {
		var ob []byte
		ob = appendVarintField(ob, 1, uint64(o.Key))
		ob = appendBytesField(ob, 2, encodeInt64List(o.Value))
		b = appendBytesField(b, 1, ob)
	}
	return b
}

//nolint:gocyclo // One case per variant
func encodeData(d *Data) []byte {
	num := protowire.Number(d.Kind)
	switch d.Kind {
	case DataKindS:
		return appendStringField(nil, num, d.S)
	case DataKindSList:
		var list []byte
		for _, s := range d.SList {
			list = appendStringField(list, 1, s)
		}
		return appendBytesField(nil, num, list)
	case DataKindD:
		b := protowire.AppendTag(nil, num, protowire.Fixed64Type)
		return protowire.AppendFixed64(b, math.Float64bits(d.D))
	case DataKindDList:
		var packed []byte
		for _, v := range d.DList {
			packed = protowire.AppendFixed64(packed, math.Float64bits(v))
		}
		return appendBytesField(nil, num, appendBytesField(nil, 1, packed))
	case DataKindB:
		return appendVarintField(nil, num, protowire.EncodeBool(d.B))
	case DataKindBList:
		raw := make([]uint64, len(d.BList))
		for i, v := range d.BList {
			raw[i] = protowire.EncodeBool(v)
		}
		return appendBytesField(nil, num, packedVarints(raw))
	case DataKindI:
		return appendVarintField(nil, num, uint64(d.I))
	case DataKindIList:
		return appendBytesField(nil, num, encodeInt64List(d.IList))
	case DataKindBlob:
		return appendBytesField(nil, num, d.Blob)
	case DataKindRef:
		return appendStringField(nil, num, d.Ref)
	case DataKindDType:
		return appendVarintField(nil, num, uint64(d.DType))
	case DataKindDTypeList:
		raw := make([]uint64, len(d.DTypeList))
		for i, v := range d.DTypeList {
			raw[i] = uint64(v)
		}
		return appendBytesField(nil, num, packedVarints(raw))
	case DataKindDimOrders:
		return appendBytesField(nil, num, encodeDimOrders(d.DimOrders))
	case DataKindDimOrdersList:
		var list []byte
		for i := range d.DimOrdersList {
			list = appendBytesField(list, 1, encodeDimOrders(&d.DimOrdersList[i]))
		}
		return appendBytesField(nil, num, list)
	default:
		return nil
	}
}
