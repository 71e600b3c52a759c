package uff

import (
	"math"
	"os"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// ParseFile parses a binary UFF file.
//
//nolint:gosec // G304: Path is provided by user, file inclusion is intentional for model loading
func ParseFile(path string) (*MetaGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file")
	}
	return Parse(data)
}

// Parse parses a binary UFF MetaGraph from bytes.
func Parse(data []byte) (*MetaGraph, error) {
	p := &parser{data: data}
	meta := &MetaGraph{}
	if err := p.readMessage(meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// parser walks one protobuf message using the protowire primitives.
type parser struct {
	data []byte
	pos  int
}

// readMessage reads a protobuf message into the given struct.
func (p *parser) readMessage(msg interface{}) error {
	switch m := msg.(type) {
	case *MetaGraph:
		return p.readMetaGraph(m)
	case *Descriptor:
		return p.readDescriptor(m)
	case *GraphProto:
		return p.readGraphProto(m)
	case *NodeProto:
		return p.readNodeProto(m)
	case *KeyValuePair:
		return p.readKeyValuePair(m)
	case *Data:
		return p.readData(m)
	case *DimOrders:
		return p.readDimOrders(m)
	case *DimOrder:
		return p.readDimOrder(m)
	default:
		return errors.Errorf("unknown message type: %T", msg)
	}
}

//nolint:gocyclo // Protobuf parsing requires field-by-field switch logic
func (p *parser) readMetaGraph(m *MetaGraph) error {
	for p.more() {
		num, typ, err := p.readTag()
		if err != nil {
			return err
		}
		switch num {
		case 1: // version
			m.Version, err = p.readInt64(num, typ)
		case 2: // descriptor_core_version
			m.DescriptorCoreVersion, err = p.readInt64(num, typ)
		case 3: // descriptors
			d := Descriptor{}
			if err = p.readEmbedded(num, typ, &d); err == nil {
				m.Descriptors = append(m.Descriptors, d)
			}
			err = errors.Wrap(err, "descriptors")
		case 4: // graphs
			g := GraphProto{}
			if err = p.readEmbedded(num, typ, &g); err == nil {
				m.Graphs = append(m.Graphs, g)
			}
			err = errors.Wrap(err, "graphs")
		case 5: // referenced_data
			kv := KeyValuePair{}
			if err = p.readEmbedded(num, typ, &kv); err == nil {
				m.ReferencedData = append(m.ReferencedData, kv)
			}
			err = errors.Wrap(err, "referenced_data")
		case 100: // extra_fields
			kv := KeyValuePair{}
			if err = p.readEmbedded(num, typ, &kv); err == nil {
				m.ExtraFields = append(m.ExtraFields, kv)
			}
			err = errors.Wrap(err, "extra_fields")
		default:
			err = p.skipField(num, typ)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) readDescriptor(m *Descriptor) error {
	for p.more() {
		num, typ, err := p.readTag()
		if err != nil {
			return err
		}
		switch num {
		case 1: // id
			m.ID, err = p.readString(num, typ)
		case 2: // version
			m.Version, err = p.readInt64(num, typ)
		case 3: // optional
			m.Optional, err = p.readBool(num, typ)
		case 100: // extra_fields
			kv := KeyValuePair{}
			if err = p.readEmbedded(num, typ, &kv); err == nil {
				m.ExtraFields = append(m.ExtraFields, kv)
			}
		default:
			err = p.skipField(num, typ)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) readGraphProto(m *GraphProto) error {
	for p.more() {
		num, typ, err := p.readTag()
		if err != nil {
			return err
		}
		switch num {
		case 1: // id
			m.ID, err = p.readString(num, typ)
		case 2: // nodes
			node := NodeProto{}
			if err = p.readEmbedded(num, typ, &node); err == nil {
				m.Nodes = append(m.Nodes, node)
			}
			err = errors.Wrapf(err, "nodes[%d]", len(m.Nodes))
		case 100: // extra_fields
			kv := KeyValuePair{}
			if err = p.readEmbedded(num, typ, &kv); err == nil {
				m.ExtraFields = append(m.ExtraFields, kv)
			}
		default:
			err = p.skipField(num, typ)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

//nolint:gocyclo // Protobuf parsing requires field-by-field switch logic
func (p *parser) readNodeProto(m *NodeProto) error {
	for p.more() {
		num, typ, err := p.readTag()
		if err != nil {
			return err
		}
		switch num {
		case 1: // id
			m.ID, err = p.readString(num, typ)
		case 2: // inputs
			var input string
			if input, err = p.readString(num, typ); err == nil {
				m.Inputs = append(m.Inputs, input)
			}
		case 3: // operation
			m.Operation, err = p.readString(num, typ)
		case 4: // fields
			kv := KeyValuePair{}
			if err = p.readEmbedded(num, typ, &kv); err == nil {
				m.Fields = append(m.Fields, kv)
			}
			err = errors.Wrap(err, "fields")
		case 100: // extra_fields
			kv := KeyValuePair{}
			if err = p.readEmbedded(num, typ, &kv); err == nil {
				m.ExtraFields = append(m.ExtraFields, kv)
			}
		default:
			err = p.skipField(num, typ)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) readKeyValuePair(m *KeyValuePair) error {
	for p.more() {
		num, typ, err := p.readTag()
		if err != nil {
			return err
		}
		switch num {
		case 1: // key
			m.Key, err = p.readString(num, typ)
		case 2: // value
			m.Value = &Data{}
			err = errors.Wrapf(p.readEmbedded(num, typ, m.Value), "value of '%s'", m.Key)
		default:
			err = p.skipField(num, typ)
		}
		if err != nil {
			return err
		}
	}
	if m.Value == nil {
		m.Value = &Data{}
	}
	return nil
}

// readData reads the Data oneof. The last variant on the wire wins.
//
//nolint:gocognit,gocyclo,cyclop,funlen // One case per oneof member
func (p *parser) readData(m *Data) error {
	for p.more() {
		num, typ, err := p.readTag()
		if err != nil {
			return err
		}
		switch num {
		case 1: // s
			var s string
			if s, err = p.readString(num, typ); err == nil {
				*m = Data{Kind: DataKindS, S: s}
			}
		case 2: // s_list
			var list []string
			if list, err = p.readStringList(num, typ); err == nil {
				*m = Data{Kind: DataKindSList, SList: list}
			}
		case 3: // d
			var d float64
			if d, err = p.readDouble(num, typ); err == nil {
				*m = Data{Kind: DataKindD, D: d}
			}
		case 4: // d_list
			var list []float64
			if list, err = p.readDoubleList(num, typ); err == nil {
				*m = Data{Kind: DataKindDList, DList: list}
			}
		case 5: // b
			var b bool
			if b, err = p.readBool(num, typ); err == nil {
				*m = Data{Kind: DataKindB, B: b}
			}
		case 6: // b_list
			list := []bool{}
			err = p.readVarintList(num, typ, func(v uint64) {
				list = append(list, protowire.DecodeBool(v))
			})
			if err == nil {
				*m = Data{Kind: DataKindBList, BList: list}
			}
		case 7: // i
			var i int64
			if i, err = p.readInt64(num, typ); err == nil {
				*m = Data{Kind: DataKindI, I: i}
			}
		case 8: // i_list
			var list []int64
			if list, err = p.readInt64List(num, typ); err == nil {
				*m = Data{Kind: DataKindIList, IList: list}
			}
		case 9: // blob
			var blob []byte
			if blob, err = p.readBytes(num, typ); err == nil {
				*m = Data{Kind: DataKindBlob, Blob: blob}
			}
		case 100: // ref
			var ref string
			if ref, err = p.readString(num, typ); err == nil {
				*m = Data{Kind: DataKindRef, Ref: ref}
			}
		case 101: // dtype
			var v int64
			if v, err = p.readInt64(num, typ); err == nil {
				*m = Data{Kind: DataKindDType, DType: DataType(int32(v))} //nolint:gosec // G115: enum values fit in int32.
			}
		case 102: // dtype_list
			list := []DataType{}
			err = p.readVarintList(num, typ, func(v uint64) {
				list = append(list, DataType(int32(v))) //nolint:gosec // G115: enum values fit in int32.
			})
			if err == nil {
				*m = Data{Kind: DataKindDTypeList, DTypeList: list}
			}
		case 103: // dim_orders
			orders := &DimOrders{}
			if err = p.readEmbedded(num, typ, orders); err == nil {
				*m = Data{Kind: DataKindDimOrders, DimOrders: orders}
			}
		case 104: // dim_orders_list
			var list []DimOrders
			if list, err = p.readDimOrdersList(num, typ); err == nil {
				*m = Data{Kind: DataKindDimOrdersList, DimOrdersList: list}
			}
		default:
			err = p.skipField(num, typ)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) readDimOrders(m *DimOrders) error {
	for p.more() {
		num, typ, err := p.readTag()
		if err != nil {
			return err
		}
		switch num {
		case 1: // orders
			order := DimOrder{}
			if err = p.readEmbedded(num, typ, &order); err == nil {
				m.Orders = append(m.Orders, order)
			}
		default:
			err = p.skipField(num, typ)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) readDimOrder(m *DimOrder) error {
	for p.more() {
		num, typ, err := p.readTag()
		if err != nil {
			return err
		}
		switch num {
		case 1: // key
			m.Key, err = p.readInt64(num, typ)
		case 2: // value
			m.Value, err = p.readInt64List(num, typ)
		default:
			err = p.skipField(num, typ)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// List wrappers: every List* message stores its elements in field 1.

func (p *parser) readStringList(num protowire.Number, typ protowire.Type) ([]string, error) {
	sub, err := p.readSub(num, typ)
	if err != nil {
		return nil, err
	}
	list := []string{}
	for sub.more() {
		n, t, err := sub.readTag()
		if err != nil {
			return nil, err
		}
		if n != 1 {
			if err := sub.skipField(n, t); err != nil {
				return nil, err
			}
			continue
		}
		s, err := sub.readString(n, t)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, nil
}

func (p *parser) readDoubleList(num protowire.Number, typ protowire.Type) ([]float64, error) {
	sub, err := p.readSub(num, typ)
	if err != nil {
		return nil, err
	}
	list := []float64{}
	for sub.more() {
		n, t, err := sub.readTag()
		if err != nil {
			return nil, err
		}
		switch {
		case n != 1:
			err = sub.skipField(n, t)
		case t == protowire.BytesType:
			var packed []byte
			if packed, err = sub.readBytes(n, t); err != nil {
				return nil, err
			}
			for len(packed) > 0 {
				v, k := protowire.ConsumeFixed64(packed)
				if k < 0 {
					return nil, protowire.ParseError(k)
				}
				list = append(list, math.Float64frombits(v))
				packed = packed[k:]
			}
		default:
			var d float64
			if d, err = sub.readDouble(n, t); err == nil {
				list = append(list, d)
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (p *parser) readInt64List(num protowire.Number, typ protowire.Type) ([]int64, error) {
	list := []int64{}
	err := p.readVarintList(num, typ, func(v uint64) {
		list = append(list, int64(v)) //nolint:gosec // G115: Protobuf varint fits in int64.
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// readVarintList reads a List* message whose field 1 holds varints, packed or not.
func (p *parser) readVarintList(num protowire.Number, typ protowire.Type, add func(uint64)) error {
	sub, err := p.readSub(num, typ)
	if err != nil {
		return err
	}
	for sub.more() {
		n, t, err := sub.readTag()
		if err != nil {
			return err
		}
		switch {
		case n != 1:
			err = sub.skipField(n, t)
		case t == protowire.BytesType:
			var packed []byte
			if packed, err = sub.readBytes(n, t); err != nil {
				return err
			}
			for len(packed) > 0 {
				v, k := protowire.ConsumeVarint(packed)
				if k < 0 {
					return protowire.ParseError(k)
				}
				add(v)
				packed = packed[k:]
			}
		default:
			var v uint64
			if v, err = sub.readVarint(n, t); err == nil {
				add(v)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) readDimOrdersList(num protowire.Number, typ protowire.Type) ([]DimOrders, error) {
	sub, err := p.readSub(num, typ)
	if err != nil {
		return nil, err
	}
	list := []DimOrders{}
	for sub.more() {
		n, t, err := sub.readTag()
		if err != nil {
			return nil, err
		}
		if n != 1 {
			if err := sub.skipField(n, t); err != nil {
				return nil, err
			}
			continue
		}
		orders := DimOrders{}
		if err := sub.readEmbedded(n, t, &orders); err != nil {
			return nil, err
		}
		list = append(list, orders)
	}
	return list, nil
}

func (p *parser) more() bool {
	return p.pos < len(p.data)
}

// readTag reads a protobuf field tag.
func (p *parser) readTag() (protowire.Number, protowire.Type, error) {
	num, typ, n := protowire.ConsumeTag(p.data[p.pos:])
	if n < 0 {
		return 0, 0, errors.Wrapf(protowire.ParseError(n), "offset %d", p.pos)
	}
	p.pos += n
	return num, typ, nil
}

// expect checks the wire type of a field before it is decoded.
func expect(num protowire.Number, got, want protowire.Type) error {
	if got != want {
		return errors.Errorf("field %d: unexpected wire type %d", num, got)
	}
	return nil
}

func (p *parser) readVarint(num protowire.Number, typ protowire.Type) (uint64, error) {
	if err := expect(num, typ, protowire.VarintType); err != nil {
		return 0, err
	}
	v, n := protowire.ConsumeVarint(p.data[p.pos:])
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	p.pos += n
	return v, nil
}

func (p *parser) readInt64(num protowire.Number, typ protowire.Type) (int64, error) {
	v, err := p.readVarint(num, typ)
	return int64(v), err //nolint:gosec // G115: Protobuf varint fits in int64.
}

func (p *parser) readBool(num protowire.Number, typ protowire.Type) (bool, error) {
	v, err := p.readVarint(num, typ)
	return protowire.DecodeBool(v), err
}

func (p *parser) readDouble(num protowire.Number, typ protowire.Type) (float64, error) {
	if err := expect(num, typ, protowire.Fixed64Type); err != nil {
		return 0, err
	}
	v, n := protowire.ConsumeFixed64(p.data[p.pos:])
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	p.pos += n
	return math.Float64frombits(v), nil
}

// readBytes reads a length-delimited byte slice.
func (p *parser) readBytes(num protowire.Number, typ protowire.Type) ([]byte, error) {
	if err := expect(num, typ, protowire.BytesType); err != nil {
		return nil, err
	}
	b, n := protowire.ConsumeBytes(p.data[p.pos:])
	if n < 0 {
		return nil, protowire.ParseError(n)
	}
	p.pos += n
	return b, nil
}

func (p *parser) readString(num protowire.Number, typ protowire.Type) (string, error) {
	b, err := p.readBytes(num, typ)
	return string(b), err
}

// readSub returns a parser over an embedded message.
func (p *parser) readSub(num protowire.Number, typ protowire.Type) (*parser, error) {
	data, err := p.readBytes(num, typ)
	if err != nil {
		return nil, err
	}
	return &parser{data: data}, nil
}

func (p *parser) readEmbedded(num protowire.Number, typ protowire.Type, msg interface{}) error {
	sub, err := p.readSub(num, typ)
	if err != nil {
		return err
	}
	return sub.readMessage(msg)
}

// skipField skips a field based on wire type.
func (p *parser) skipField(num protowire.Number, typ protowire.Type) error {
	n := protowire.ConsumeFieldValue(num, typ, p.data[p.pos:])
	if n < 0 {
		return errors.Wrapf(protowire.ParseError(n), "field %d", num)
	}
	p.pos += n
	return nil
}
