package uff

import (
	"github.com/sirupsen/logrus"
)

// ReferenceTable maps referenced_data keys to their values. It is built once
// per model and only read afterwards.
type ReferenceTable map[string]*Data

// NewReferenceTable indexes the referenced data. Later entries replace earlier
// ones with the same key.
func NewReferenceTable(entries []KeyValuePair) ReferenceTable {
	table := make(ReferenceTable, len(entries))
	for _, kv := range entries {
		table[kv.Key] = kv.Value
	}
	return table
}

// Resolve replaces every ref field of the graphs with the value it points to.
// A key missing from the table leaves the ref in place. It returns the number
// of unresolved references.
func (t ReferenceTable) Resolve(graphs []GraphProto, log logrus.FieldLogger) int {
	unresolved := 0
	for g := range graphs {
		for n := range graphs[g].Nodes {
			node := &graphs[g].Nodes[n]
			for f := range node.Fields {
				field := &node.Fields[f]
				if field.Value == nil || field.Value.Kind != DataKindRef {
					continue
				}
				if value, ok := t[field.Value.Ref]; ok {
					field.Value = value
					continue
				}
				unresolved++
				log.WithFields(logrus.Fields{
					"node":  node.ID,
					"field": field.Key,
					"ref":   field.Value.Ref,
				}).Debug("reference not found in referenced_data")
			}
		}
	}
	return unresolved
}
