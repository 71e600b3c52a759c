package uff

import (
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/protocolbuffers/txtpbfmt/ast"
	txtpb "github.com/protocolbuffers/txtpbfmt/parser"
)

// ParseTextFile parses a UFF text file (.pbtxt, .uff.txt).
//
//nolint:gosec // G304: Path is provided by user, file inclusion is intentional for model loading
func ParseTextFile(path string) (*MetaGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file")
	}
	return ParseText(data)
}

// ParseText parses a UFF MetaGraph from protobuf text format.
//
// The text is read into a schema-less AST first and then matched against the
// UFF message layout. Unknown field names are rejected.
func ParseText(data []byte) (*MetaGraph, error) {
	nodes, err := txtpb.Parse(data)
	if err != nil {
		return nil, err
	}
	meta := &MetaGraph{}
	if err := readTextMetaGraph(textFields(nodes), meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// textMessage reads one message body into msg.
type textMessage func(fields []*ast.Node) error

//nolint:gocyclo // One case per field
func readTextMetaGraph(fields []*ast.Node, m *MetaGraph) error {
	for _, n := range fields {
		var err error
		switch n.Name {
		case "version":
			m.Version, err = textInt64(n)
		case "descriptor_core_version":
			m.DescriptorCoreVersion, err = textInt64(n)
		case "descriptors":
			err = textEach(n, func(body []*ast.Node) error {
				d := Descriptor{}
				if err := readTextDescriptor(body, &d); err != nil {
					return err
				}
				m.Descriptors = append(m.Descriptors, d)
				return nil
			})
		case "graphs":
			err = textEach(n, func(body []*ast.Node) error {
				g := GraphProto{}
				if err := readTextGraph(body, &g); err != nil {
					return err
				}
				m.Graphs = append(m.Graphs, g)
				return nil
			})
		case "referenced_data":
			err = textEach(n, appendTextPair(&m.ReferencedData))
		case "extra_fields":
			err = textEach(n, appendTextPair(&m.ExtraFields))
		default:
			err = errUnknownTextField(n)
		}
		if err != nil {
			return errors.Wrap(err, n.Name)
		}
	}
	return nil
}

func readTextDescriptor(fields []*ast.Node, m *Descriptor) error {
	for _, n := range fields {
		var err error
		switch n.Name {
		case "id":
			m.ID, err = textString(n)
		case "version":
			m.Version, err = textInt64(n)
		case "optional":
			m.Optional, err = textBool(n)
		case "extra_fields":
			err = textEach(n, appendTextPair(&m.ExtraFields))
		default:
			err = errUnknownTextField(n)
		}
		if err != nil {
			return errors.Wrap(err, n.Name)
		}
	}
	return nil
}

func readTextGraph(fields []*ast.Node, m *GraphProto) error {
	for _, n := range fields {
		var err error
		switch n.Name {
		case "id":
			m.ID, err = textString(n)
		case "nodes":
			err = textEach(n, func(body []*ast.Node) error {
				node := NodeProto{}
				if err := readTextNode(body, &node); err != nil {
					return errors.Wrapf(err, "[%d]", len(m.Nodes))
				}
				m.Nodes = append(m.Nodes, node)
				return nil
			})
		case "extra_fields":
			err = textEach(n, appendTextPair(&m.ExtraFields))
		default:
			err = errUnknownTextField(n)
		}
		if err != nil {
			return errors.Wrap(err, n.Name)
		}
	}
	return nil
}

func readTextNode(fields []*ast.Node, m *NodeProto) error {
	for _, n := range fields {
		var err error
		switch n.Name {
		case "id":
			m.ID, err = textString(n)
		case "inputs":
			var inputs []string
			if inputs, err = textStrings(n); err == nil {
				m.Inputs = append(m.Inputs, inputs...)
			}
		case "operation":
			m.Operation, err = textString(n)
		case "fields":
			err = textEach(n, appendTextPair(&m.Fields))
		case "extra_fields":
			err = textEach(n, appendTextPair(&m.ExtraFields))
		default:
			err = errUnknownTextField(n)
		}
		if err != nil {
			return errors.Wrap(err, n.Name)
		}
	}
	return nil
}

func appendTextPair(list *[]KeyValuePair) textMessage {
	return func(body []*ast.Node) error {
		kv := KeyValuePair{Value: &Data{}}
		for _, n := range body {
			var err error
			switch n.Name {
			case "key":
				kv.Key, err = textString(n)
			case "value":
				err = textEach(n, func(body []*ast.Node) error {
					return readTextData(body, kv.Value)
				})
			default:
				err = errUnknownTextField(n)
			}
			if err != nil {
				return errors.Wrap(err, n.Name)
			}
		}
		*list = append(*list, kv)
		return nil
	}
}

//nolint:gocognit,gocyclo,cyclop,funlen // One case per oneof member
func readTextData(fields []*ast.Node, m *Data) error {
	for _, n := range fields {
		var err error
		switch n.Name {
		case "s":
			var s string
			if s, err = textString(n); err == nil {
				*m = Data{Kind: DataKindS, S: s}
			}
		case "s_list":
			list := []string{}
			err = textListMessage(n, func(v *ast.Node) error {
				items, err := textStrings(v)
				list = append(list, items...)
				return err
			})
			if err == nil {
				*m = Data{Kind: DataKindSList, SList: list}
			}
		case "d":
			var d float64
			if d, err = textDouble(n); err == nil {
				*m = Data{Kind: DataKindD, D: d}
			}
		case "d_list":
			list := []float64{}
			err = textListMessage(n, func(v *ast.Node) error {
				return eachTextValue(v, func(raw string) error {
					d, err := parseTextDouble(raw)
					list = append(list, d)
					return err
				})
			})
			if err == nil {
				*m = Data{Kind: DataKindDList, DList: list}
			}
		case "b":
			var b bool
			if b, err = textBool(n); err == nil {
				*m = Data{Kind: DataKindB, B: b}
			}
		case "b_list":
			list := []bool{}
			err = textListMessage(n, func(v *ast.Node) error {
				return eachTextValue(v, func(raw string) error {
					b, err := strconv.ParseBool(raw)
					list = append(list, b)
					return err
				})
			})
			if err == nil {
				*m = Data{Kind: DataKindBList, BList: list}
			}
		case "i":
			var i int64
			if i, err = textInt64(n); err == nil {
				*m = Data{Kind: DataKindI, I: i}
			}
		case "i_list":
			var list []int64
			if list, err = textInt64List(n); err == nil {
				*m = Data{Kind: DataKindIList, IList: list}
			}
		case "blob":
			var s string
			if s, err = textString(n); err == nil {
				*m = Data{Kind: DataKindBlob, Blob: []byte(s)}
			}
		case "ref":
			var ref string
			if ref, err = textString(n); err == nil {
				*m = Data{Kind: DataKindRef, Ref: ref}
			}
		case "dtype":
			var dt DataType
			if dt, err = textDataType(n); err == nil {
				*m = Data{Kind: DataKindDType, DType: dt}
			}
		case "dtype_list":
			list := []DataType{}
			err = textListMessage(n, func(v *ast.Node) error {
				return eachTextValue(v, func(raw string) error {
					dt, err := parseTextDataType(raw)
					list = append(list, dt)
					return err
				})
			})
			if err == nil {
				*m = Data{Kind: DataKindDTypeList, DTypeList: list}
			}
		case "dim_orders":
			orders := &DimOrders{}
			if err = textEach(n, func(body []*ast.Node) error {
				return readTextDimOrders(body, orders)
			}); err == nil {
				*m = Data{Kind: DataKindDimOrders, DimOrders: orders}
			}
		case "dim_orders_list":
			list := []DimOrders{}
			err = textEach(n, func(body []*ast.Node) error {
				for _, v := range body {
					if v.Name != "val" {
						return errUnknownTextField(v)
					}
					if err := textEach(v, func(body []*ast.Node) error {
						orders := DimOrders{}
						if err := readTextDimOrders(body, &orders); err != nil {
							return err
						}
						list = append(list, orders)
						return nil
					}); err != nil {
						return err
					}
				}
				return nil
			})
			if err == nil {
				*m = Data{Kind: DataKindDimOrdersList, DimOrdersList: list}
			}
		default:
			err = errUnknownTextField(n)
		}
		if err != nil {
			return errors.Wrap(err, n.Name)
		}
	}
	return nil
}

func readTextDimOrders(fields []*ast.Node, m *DimOrders) error {
	for _, n := range fields {
		if n.Name != "orders" {
			return errUnknownTextField(n)
		}
		err := textEach(n, func(body []*ast.Node) error {
			order := DimOrder{}
			for _, f := range body {
				var err error
				switch f.Name {
				case "key":
					order.Key, err = textInt64(f)
				case "value":
					order.Value, err = textInt64List(f)
				default:
					err = errUnknownTextField(f)
				}
				if err != nil {
					return errors.Wrap(err, f.Name)
				}
			}
			m.Orders = append(m.Orders, order)
			return nil
		})
		if err != nil {
			return errors.Wrap(err, "orders")
		}
	}
	return nil
}

func textInt64List(n *ast.Node) ([]int64, error) {
	list := []int64{}
	err := textListMessage(n, func(v *ast.Node) error {
		return eachTextValue(v, func(raw string) error {
			i, err := parseTextInt64(raw)
			list = append(list, i)
			return err
		})
	})
	return list, err
}

// textListMessage visits the "val" entries of a List* message.
func textListMessage(n *ast.Node, visit func(v *ast.Node) error) error {
	return textEach(n, func(body []*ast.Node) error {
		for _, v := range body {
			if v.Name != "val" {
				return errUnknownTextField(v)
			}
			if err := visit(v); err != nil {
				return errors.Wrap(err, "val")
			}
		}
		return nil
	})
}

// textEach calls read for every message body held by n. A field written in
// list form ("name: [{...}, {...}]") holds several bodies.
func textEach(n *ast.Node, read textMessage) error {
	if len(n.Values) > 0 {
		return errors.Errorf("expected message, got value %s", n.Values[0].Value)
	}
	if !n.ChildrenAsList {
		return read(textFields(n.Children))
	}
	for _, child := range n.Children {
		if child.Name != "" {
			return read(textFields(n.Children))
		}
		if err := read(textFields(child.Children)); err != nil {
			return err
		}
	}
	return nil
}

// textFields drops comment-only and deleted entries.
func textFields(nodes []*ast.Node) []*ast.Node {
	fields := make([]*ast.Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil || n.Deleted {
			continue
		}
		if n.Name == "" && len(n.Values) == 0 && len(n.Children) == 0 {
			continue
		}
		fields = append(fields, n)
	}
	return fields
}

func eachTextValue(n *ast.Node, visit func(raw string) error) error {
	if len(n.Children) > 0 {
		return errors.New("expected value, got message")
	}
	for _, v := range n.Values {
		if v == nil || v.Value == "" {
			continue
		}
		if err := visit(v.Value); err != nil {
			return err
		}
	}
	return nil
}

func textScalar(n *ast.Node) (string, error) {
	var raw []string
	if err := eachTextValue(n, func(v string) error {
		raw = append(raw, v)
		return nil
	}); err != nil {
		return "", err
	}
	if len(raw) != 1 {
		return "", errors.Errorf("expected a single value, got %d", len(raw))
	}
	return raw[0], nil
}

// textString reads a string field. Adjacent literals are concatenated.
func textString(n *ast.Node) (string, error) {
	var sb strings.Builder
	count := 0
	err := eachTextValue(n, func(raw string) error {
		s, err := unquoteText(raw)
		if err != nil {
			return err
		}
		sb.WriteString(s)
		count++
		return nil
	})
	if err != nil {
		return "", err
	}
	if count == 0 {
		return "", errors.New("missing string value")
	}
	return sb.String(), nil
}

// textStrings reads a repeated string field, one literal per element.
func textStrings(n *ast.Node) ([]string, error) {
	var list []string
	if !n.ValuesAsList {
		s, err := textString(n)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}
	err := eachTextValue(n, func(raw string) error {
		s, err := unquoteText(raw)
		list = append(list, s)
		return err
	})
	return list, err
}

func textInt64(n *ast.Node) (int64, error) {
	raw, err := textScalar(n)
	if err != nil {
		return 0, err
	}
	return parseTextInt64(raw)
}

func textBool(n *ast.Node) (bool, error) {
	raw, err := textScalar(n)
	if err != nil {
		return false, err
	}
	return strconv.ParseBool(raw)
}

func textDouble(n *ast.Node) (float64, error) {
	raw, err := textScalar(n)
	if err != nil {
		return 0, err
	}
	return parseTextDouble(raw)
}

func textDataType(n *ast.Node) (DataType, error) {
	raw, err := textScalar(n)
	if err != nil {
		return 0, err
	}
	return parseTextDataType(raw)
}

func parseTextInt64(raw string) (int64, error) {
	v, err := strconv.ParseInt(raw, 0, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid integer %s", raw)
	}
	return v, nil
}

func parseTextDouble(raw string) (float64, error) {
	s := strings.ToLower(raw)
	switch strings.TrimLeft(s, "+-") {
	case "inf", "infinity", "inff", "infinityf":
		if strings.HasPrefix(s, "-") {
			return math.Inf(-1), nil
		}
		return math.Inf(1), nil
	case "nan", "nanf":
		return math.NaN(), nil
	}
	if !strings.HasPrefix(s, "0x") {
		s = strings.TrimSuffix(s, "f")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid number %s", raw)
	}
	return v, nil
}

func parseTextDataType(raw string) (DataType, error) {
	if dt, ok := dataTypeNames[raw]; ok {
		return dt, nil
	}
	v, err := strconv.ParseInt(raw, 0, 32)
	if err != nil {
		return 0, errors.Errorf("invalid data type %s", raw)
	}
	return DataType(v), nil
}

func errUnknownTextField(n *ast.Node) error {
	return errors.Errorf("unknown field '%s'", n.Name)
}

// unquoteText decodes a protobuf text string literal in single or double quotes.
//
//nolint:gocognit,gocyclo,cyclop // Escape table
func unquoteText(raw string) (string, error) {
	if len(raw) < 2 || (raw[0] != '"' && raw[0] != '\'') || raw[len(raw)-1] != raw[0] {
		return "", errors.Errorf("invalid string literal %s", raw)
	}
	s := raw[1 : len(raw)-1]
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			buf = append(buf, c)
			continue
		}
		i++
		if i >= len(s) {
			return "", errors.Errorf("invalid escape at end of %s", raw)
		}
		switch c = s[i]; c {
		case 'a':
			buf = append(buf, '\a')
		case 'b':
			buf = append(buf, '\b')
		case 'f':
			buf = append(buf, '\f')
		case 'n':
			buf = append(buf, '\n')
		case 'r':
			buf = append(buf, '\r')
		case 't':
			buf = append(buf, '\t')
		case 'v':
			buf = append(buf, '\v')
		case '\\', '\'', '"', '?':
			buf = append(buf, c)
		case 'x', 'X':
			j := i + 1
			for j < len(s) && j < i+3 && isHexDigit(s[j]) {
				j++
			}
			if j == i+1 {
				return "", errors.Errorf("invalid hex escape in %s", raw)
			}
			v, _ := strconv.ParseUint(s[i+1:j], 16, 8)
			buf = append(buf, byte(v))
			i = j - 1
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			v, err := strconv.ParseUint(s[i:j], 8, 8)
			if err != nil {
				return "", errors.Errorf("invalid octal escape in %s", raw)
			}
			buf = append(buf, byte(v))
			i = j - 1
		default:
			return "", errors.Errorf("invalid escape '\\%c' in %s", c, raw)
		}
	}
	return string(buf), nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
