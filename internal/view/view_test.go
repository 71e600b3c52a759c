package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/uff/internal/uff"
	"github.com/born-ml/uff/internal/uff/operators"
)

const scaleText = `version: 1
descriptor_core_version: 1
descriptors { id: "tensorflow_extension" version: 1 }
graphs {
  id: "main"
  nodes {
    id: "x"
    operation: "Input"
    fields { key: "dtype" value { dtype: DT_FLOAT32 } }
    fields { key: "shape" value { i_list { val: [1, 2] } } }
  }
  nodes {
    id: "w"
    operation: "Const"
    fields { key: "dtype" value { dtype: DT_INT8 } }
    fields { key: "shape" value { i_list { val: 2 } } }
    fields { key: "values" value { blob: "\001\002" } }
  }
  nodes {
    id: "y"
    inputs: "x"
    inputs: "w"
    operation: "Binary"
    fields { key: "func" value { s: "mul" } }
    fields { key: "axes" value { i_list { val: [0, 1] } } }
    fields { key: "bias" value { blob: "abc" } }
  }
  nodes {
    id: "out"
    inputs: "y"
    operation: "MarkOutput"
  }
}
`

func loadScale(t *testing.T) *uff.Model {
	t.Helper()
	model, err := uff.LoadFromText([]byte(scaleText))
	require.NoError(t, err)
	return model
}

func TestWriteJSONGolden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Summarize(loadScale(t))))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "scale_summary", buf.Bytes())
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, Summarize(loadScale(t))))

	var decoded ModelSummary
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "UFF v1", decoded.Format)
	require.Len(t, decoded.Graphs, 1)
	require.Len(t, decoded.Graphs[0].Nodes, 1)
	assert.Equal(t, "Binary", decoded.Graphs[0].Nodes[0].Type)
	assert.Equal(t, "<3 bytes>", decoded.Graphs[0].Nodes[0].Attributes[2].Value)
}

func TestSummarizeEmptyModel(t *testing.T) {
	s := Summarize(&uff.Model{Format: "UFF"})
	assert.NotNil(t, s.Imports)
	assert.NotNil(t, s.Graphs)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, s))
	assert.Equal(t, "{\n  \"format\": \"UFF\",\n  \"imports\": [],\n  \"graphs\": []\n}\n", buf.String())
}

func TestAttributeValueDimOrders(t *testing.T) {
	orders := &uff.DimOrders{Orders: []uff.DimOrder{{Key: -1, Value: []int64{0, 2, 1}}}}

	assert.Equal(t, map[string][]int64{"-1": {0, 2, 1}}, attributeValue(&uff.Attribute{Value: orders}))
	assert.Equal(t, map[string][]int64{}, attributeValue(&uff.Attribute{Value: (*uff.DimOrders)(nil)}))
	assert.Equal(t,
		[]map[string][]int64{{"-1": {0, 2, 1}}},
		attributeValue(&uff.Attribute{Value: []uff.DimOrders{*orders}}))
	assert.Equal(t, "same", attributeValue(&uff.Attribute{Value: "same"}))
}

func TestWriteModelTable(t *testing.T) {
	var buf bytes.Buffer
	WriteModelTable(&buf, loadScale(t))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Format:  UFF v1\nImports: tensorflow_extension v1\n"), out)
	assert.Contains(t, out, "Initializers")
	assert.Contains(t, out, "main")
	assert.Contains(t, out, "out")
}

func TestWriteNodeTable(t *testing.T) {
	var buf bytes.Buffer
	WriteNodeTable(&buf, loadScale(t).Graphs[0])
	out := buf.String()

	assert.Contains(t, out, "Binary")
	assert.Contains(t, out, "lhs=x rhs=w")
	assert.Contains(t, out, "func=mul axes=[0 1] bias=<3 bytes>")
}

func TestWriteTensorTable(t *testing.T) {
	var buf bytes.Buffer
	WriteTensorTable(&buf, loadScale(t).Graphs[0], 8)
	out := buf.String()

	assert.Contains(t, out, "int8[2]")
	assert.Contains(t, out, "[1, 2]")
}

func TestInitializers(t *testing.T) {
	values := Initializers(loadScale(t).Graphs[0])
	require.Len(t, values, 1)
	assert.Equal(t, "w", values[0].Name)
}

func TestPreview(t *testing.T) {
	int8s := &uff.Tensor{Type: &uff.TensorType{DataType: "int8"}, Values: []byte{1, 0xff, 3}}

	assert.Equal(t, "[1, -1, 3]", Preview(int8s, 8))
	assert.Equal(t, "[1, -1, ...]", Preview(int8s, 2))
	assert.Equal(t, "[...]", Preview(int8s, -1))
	assert.Equal(t, "[]", Preview(&uff.Tensor{Type: &uff.TensorType{DataType: "int8"}, Values: []byte{}}, 8))
	assert.Equal(t, "(elided)", Preview(&uff.Tensor{Type: &uff.TensorType{DataType: "float32"}}, 8))

	untyped := Preview(&uff.Tensor{Type: &uff.TensorType{DataType: "?"}, Values: []byte{1}}, 8)
	assert.True(t, strings.HasPrefix(untyped, "("), untyped)
	assert.Contains(t, untyped, "unsupported data type")
}

func TestOperationCounts(t *testing.T) {
	g := &uff.Graph{Nodes: []*uff.Node{
		{Name: "a", Type: &operators.Schema{Name: "Conv"}},
		{Name: "b", Type: &operators.Schema{Name: "Activation"}},
		{Name: "c", Type: &operators.Schema{Name: "Conv"}},
	}}
	assert.Equal(t, [][2]string{{"Activation", "1"}, {"Conv", "2"}}, OperationCounts(g))
}
