package view

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/born-ml/uff/internal/uff"
)

// WriteModelTable prints the model header and one row per graph.
func WriteModelTable(w io.Writer, m *uff.Model) {
	fmt.Fprintf(w, "Format:  %s\n", m.Format)
	if len(m.Imports) > 0 {
		fmt.Fprintf(w, "Imports: %s\n", strings.Join(m.Imports, ", "))
	}

	table := newTable(w, []string{"Graph", "Inputs", "Outputs", "Nodes", "Initializers"})
	for _, g := range m.Graphs {
		table.Append([]string{
			g.Name,
			joinArguments(g.Inputs),
			joinArguments(g.Outputs),
			strconv.Itoa(len(g.Nodes)),
			strconv.Itoa(len(Initializers(g))),
		})
	}
	table.Render()
}

// WriteNodeTable prints one row per node of a graph.
func WriteNodeTable(w io.Writer, g *uff.Graph) {
	table := newTable(w, []string{"Node", "Operation", "Inputs", "Attributes"})
	for _, n := range g.Nodes {
		inputs := make([]string, 0, len(n.Inputs))
		for _, arg := range n.Inputs {
			inputs = append(inputs, arg.Name+"="+joinValues(arg.Values))
		}
		attrs := make([]string, 0, len(n.Attributes))
		for _, a := range n.Attributes {
			attrs = append(attrs, fmt.Sprintf("%s=%v", a.Name, attributeValue(a)))
		}
		table.Append([]string{n.Name, n.Type.Name, strings.Join(inputs, " "), strings.Join(attrs, " ")})
	}
	table.Render()
}

// WriteTensorTable prints every initializer of a graph with up to limit
// decoded elements.
func WriteTensorTable(w io.Writer, g *uff.Graph, limit int) {
	table := newTable(w, []string{"Value", "Type", "Bytes", "Preview"})
	for _, v := range Initializers(g) {
		table.Append([]string{
			v.Name,
			v.Initializer.Type.String(),
			strconv.Itoa(len(v.Initializer.Values)),
			Preview(v.Initializer, limit),
		})
	}
	table.Render()
}

// Initializers returns the values of a graph that carry a constant.
func Initializers(g *uff.Graph) []*uff.Value {
	var out []*uff.Value
	for _, v := range g.Values() {
		if v.Initializer != nil {
			out = append(out, v)
		}
	}
	return out
}

// Preview formats the first limit elements of a tensor.
func Preview(t *uff.Tensor, limit int) string {
	if t.Elided() {
		return "(elided)"
	}
	values, err := t.Float64s()
	if err != nil {
		return "(" + err.Error() + ")"
	}
	if limit < 0 {
		limit = 0
	}
	more := len(values) > limit
	if more {
		values = values[:limit]
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', 6, 64)
	}
	if more {
		parts = append(parts, "...")
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	return table
}

func joinArguments(args []*uff.Argument) string {
	names := make([]string, 0, len(args))
	for _, arg := range args {
		names = append(names, arg.Name)
	}
	return strings.Join(names, ", ")
}

func joinValues(values []*uff.Value) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = v.Name
	}
	if len(names) == 1 {
		return names[0]
	}
	return "[" + strings.Join(names, ",") + "]"
}
