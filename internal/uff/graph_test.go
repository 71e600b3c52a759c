package uff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/uff/internal/uff/operators"
)

func buildGraph(t *testing.T, nodes ...NodeProto) *Graph {
	t.Helper()
	g, err := NewGraph(operators.NewRegistry(), &GraphProto{ID: "main", Nodes: nodes}, discardLogger())
	require.NoError(t, err)
	return g
}

// TestNewGraphConvPipeline builds Input -> Conv -> MarkOutput.
func TestNewGraphConvPipeline(t *testing.T) {
	conv := opNode("B", "Conv", "A")
	conv.Fields = []KeyValuePair{field("stride", iData(1))}

	g := buildGraph(t,
		inputNode("A", DataTypeFloat32, 1, 3),
		conv,
		opNode("C", OperationMarkOutput, "B"),
	)

	assert.Equal(t, "main", g.Name)

	require.Len(t, g.Inputs, 1)
	assert.Equal(t, "A", g.Inputs[0].Name)
	require.Len(t, g.Inputs[0].Values, 1)
	a := g.Inputs[0].Values[0]
	assert.Equal(t, "A", a.Name)
	require.NotNil(t, a.Type)
	assert.Equal(t, "float32[1,3]", a.Type.String())

	require.Len(t, g.Nodes, 1)
	b := g.Nodes[0]
	assert.Equal(t, "B", b.Name)
	assert.Equal(t, "Conv", b.Type.Name)
	assert.Equal(t, "Layer", b.Type.Category)
	require.Len(t, b.Inputs, 2)
	assert.Equal(t, "input", b.Inputs[0].Name)
	require.Len(t, b.Inputs[0].Values, 1)
	assert.Same(t, a, b.Inputs[0].Values[0])
	assert.Equal(t, "weights", b.Inputs[1].Name)
	assert.Empty(t, b.Inputs[1].Values)
	require.Len(t, b.Attributes, 1)
	assert.Equal(t, &Attribute{Name: "stride", Type: AttributeInt64, Value: int64(1)}, b.Attributes[0])

	require.Len(t, b.Outputs, 1)
	assert.Equal(t, "output", b.Outputs[0].Name)
	bValue := b.Outputs[0].Values[0]

	require.Len(t, g.Outputs, 1)
	assert.Equal(t, "C", g.Outputs[0].Name)
	require.Len(t, g.Outputs[0].Values, 1)
	assert.Same(t, bValue, g.Outputs[0].Values[0])
}

func TestNewGraphFoldsSingleUseConst(t *testing.T) {
	payload := float32Bytes(1, 2)
	g := buildGraph(t,
		inputNode("X", DataTypeFloat32, 2),
		constNode("W", payload, 2),
		opNode("Y", "Binary", "X", "W"),
	)

	require.Len(t, g.Nodes, 1)
	y := g.Nodes[0]
	assert.Equal(t, "Y", y.Name)
	require.Len(t, y.Inputs, 2)
	assert.Equal(t, "lhs", y.Inputs[0].Name)
	assert.Equal(t, "rhs", y.Inputs[1].Name)

	w := y.Inputs[1].Values[0]
	assert.Equal(t, "W", w.Name)
	require.NotNil(t, w.Initializer)
	assert.Equal(t, payload, w.Initializer.Values)
	assert.Equal(t, "float32[2]", w.Initializer.Type.String())
	assert.Same(t, w.Initializer.Type, w.Type)

	stored, ok := g.Value("W")
	require.True(t, ok)
	assert.Same(t, w, stored)

	names := make([]string, 0)
	for _, v := range g.Values() {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"X", "W", "Y"}, names)
}

func TestNewGraphKeepsSharedConst(t *testing.T) {
	g := buildGraph(t,
		inputNode("X", DataTypeFloat32, 2),
		constNode("W", float32Bytes(1, 2), 2),
		opNode("P", "Binary", "X", "W"),
		opNode("Q", "Binary", "P", "W"),
	)

	require.Len(t, g.Nodes, 3)
	w := g.Nodes[0]
	assert.Equal(t, "W", w.Name)
	assert.Equal(t, OperationConst, w.Type.Name)
	assert.Empty(t, w.Inputs)
	assert.Len(t, w.Attributes, 3)

	shared := w.Outputs[0].Values[0]
	assert.Nil(t, shared.Initializer)
	assert.Same(t, shared, g.Nodes[1].Inputs[1].Values[0])
	assert.Same(t, shared, g.Nodes[2].Inputs[1].Values[0])
}

func TestNewGraphConstWithoutValuesIsKept(t *testing.T) {
	c := NodeProto{
		ID:        "C",
		Operation: OperationConst,
		Fields:    []KeyValuePair{field("dtype", dtypeData(DataTypeInt32)), field("shape", iListData())},
	}
	g := buildGraph(t, c, opNode("Y", "Identity", "C"))

	require.Len(t, g.Nodes, 2)
	assert.Equal(t, "C", g.Nodes[0].Name)
	v, ok := g.Value("C")
	require.True(t, ok)
	assert.Nil(t, v.Initializer)
}

func TestNewGraphUnconsumedConstIsKept(t *testing.T) {
	g := buildGraph(t, constNode("C", float32Bytes(3), 1))

	require.Len(t, g.Nodes, 1)
	assert.Equal(t, "C", g.Nodes[0].Name)
}

func TestNewGraphUntypedInput(t *testing.T) {
	g := buildGraph(t,
		NodeProto{ID: "X", Operation: OperationInput},
		opNode("out", OperationMarkOutput, "X"),
	)

	require.Len(t, g.Inputs, 1)
	assert.Nil(t, g.Inputs[0].Values[0].Type)
	require.Len(t, g.Outputs, 1)
	assert.Same(t, g.Inputs[0].Values[0], g.Outputs[0].Values[0])
	assert.Empty(t, g.Nodes)
}

func TestNewGraphMarkOutputWithSeveralInputs(t *testing.T) {
	g := buildGraph(t,
		inputNode("X", DataTypeFloat32, 1),
		inputNode("Y", DataTypeFloat32, 1),
		opNode("out", OperationMarkOutput, "X", "Y"),
	)

	assert.Empty(t, g.Outputs)
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, OperationMarkOutput, g.Nodes[0].Type.Name)
}

func TestNewGraphUnknownOperation(t *testing.T) {
	g := buildGraph(t,
		inputNode("X", DataTypeFloat32, 1),
		inputNode("Y", DataTypeFloat32, 1),
		opNode("P", "CustomPlugin", "X", "Y"),
	)

	require.Len(t, g.Nodes, 1)
	p := g.Nodes[0]
	assert.Equal(t, "CustomPlugin", p.Type.Name)
	require.Len(t, p.Inputs, 2)
	assert.Equal(t, "input", p.Inputs[0].Name)
	assert.Equal(t, "1", p.Inputs[1].Name)
}

func TestNewGraphSharesValuesByName(t *testing.T) {
	g := buildGraph(t,
		inputNode("X", DataTypeFloat32, 4),
		opNode("A", "Activation", "X"),
		opNode("B", "Activation", "X"),
		opNode("C", "Concat", "A", "B", "X"),
		opNode("out", OperationMarkOutput, "C"),
	)

	for _, n := range g.Nodes {
		for _, arg := range append(append([]*Argument{}, n.Inputs...), n.Outputs...) {
			for _, v := range arg.Values {
				stored, ok := g.Value(v.Name)
				require.True(t, ok, v.Name)
				assert.Same(t, stored, v, "node %s argument %s", n.Name, arg.Name)
			}
		}
	}

	concat := g.Nodes[2]
	require.Len(t, concat.Inputs, 1)
	assert.Equal(t, "inputs", concat.Inputs[0].Name)
	assert.Len(t, concat.Inputs[0].Values, 3)
}

func TestNewGraphEarliestDuplicateInputWins(t *testing.T) {
	g := buildGraph(t,
		inputNode("X", DataTypeFloat32, 1),
		inputNode("X", DataTypeInt32, 1),
	)

	require.Len(t, g.Inputs, 2)
	v, ok := g.Value("X")
	require.True(t, ok)
	assert.Equal(t, "float32[1]", v.Type.String())
}

func TestNewGraphErrors(t *testing.T) {
	tests := []struct {
		name  string
		nodes []NodeProto
		want  error
	}{
		{
			name:  "empty node id",
			nodes: []NodeProto{{Operation: "Identity"}},
			want:  ErrInvalidValueIdentifier,
		},
		{
			name:  "empty input name",
			nodes: []NodeProto{opNode("Y", "Identity", "")},
			want:  ErrInvalidValueIdentifier,
		},
		{
			name: "constant with unknown data type",
			nodes: []NodeProto{
				{ID: "C", Operation: OperationConst, Fields: []KeyValuePair{
					field("dtype", dtypeData(99)),
					field("shape", iListData(1)),
					field("values", blobData([]byte{1})),
				}},
				opNode("Y", "Identity", "C"),
			},
			want: ErrUnsupportedDataType,
		},
		{
			name: "constant with string values",
			nodes: []NodeProto{
				{ID: "C", Operation: OperationConst, Fields: []KeyValuePair{
					field("dtype", dtypeData(DataTypeInt8)),
					field("shape", iListData(1)),
					field("values", sData("1")),
				}},
				opNode("Y", "Identity", "C"),
			},
			want: ErrUnsupportedValuesFormat,
		},
		{
			name: "input with scalar shape",
			nodes: []NodeProto{
				{ID: "X", Operation: OperationInput, Fields: []KeyValuePair{
					field("dtype", dtypeData(DataTypeFloat32)),
					field("shape", iData(3)),
				}},
			},
			want: ErrUnsupportedShapeFormat,
		},
		{
			name: "attribute without variant",
			nodes: []NodeProto{
				{ID: "Y", Operation: "Identity", Fields: []KeyValuePair{field("empty", &Data{})}},
			},
			want: ErrUnsupportedAttribute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGraph(operators.NewRegistry(), &GraphProto{ID: "g", Nodes: tt.nodes}, discardLogger())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
