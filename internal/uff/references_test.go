package uff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReferenceTableLastEntryWins(t *testing.T) {
	table := NewReferenceTable([]KeyValuePair{
		field("w", iData(1)),
		field("b", iData(2)),
		field("w", iData(3)),
	})

	require.Len(t, table, 2)
	assert.Equal(t, int64(3), table["w"].I)
	assert.Equal(t, int64(2), table["b"].I)
}

func TestReferenceTableResolve(t *testing.T) {
	weights := blobData(float32Bytes(1, 2))
	table := NewReferenceTable([]KeyValuePair{field("conv/weights", weights)})

	graphs := []GraphProto{{
		ID: "main",
		Nodes: []NodeProto{
			{ID: "W", Operation: OperationConst, Fields: []KeyValuePair{
				field("dtype", dtypeData(DataTypeFloat32)),
				field("values", refData("conv/weights")),
				field("other", refData("missing")),
				field("plain", sData("conv/weights")),
			}},
		},
	}}

	unresolved := table.Resolve(graphs, discardLogger())
	assert.Equal(t, 1, unresolved)

	fields := graphs[0].Nodes[0].Fields
	assert.Same(t, weights, fields[1].Value)
	assert.Equal(t, DataKindRef, fields[2].Value.Kind)
	assert.Equal(t, "missing", fields[2].Value.Ref)
	assert.Equal(t, DataKindS, fields[3].Value.Kind)
	assert.Equal(t, DataKindDType, fields[0].Value.Kind)
}

func TestReferenceTableResolveEmpty(t *testing.T) {
	graphs := []GraphProto{{ID: "g", Nodes: []NodeProto{{ID: "n", Fields: []KeyValuePair{field("x", refData("k"))}}}}}
	assert.Equal(t, 1, NewReferenceTable(nil).Resolve(graphs, discardLogger()))
	assert.Equal(t, 0, NewReferenceTable(nil).Resolve(nil, discardLogger()))
}
