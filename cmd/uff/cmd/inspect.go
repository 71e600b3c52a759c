package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/born-ml/uff/internal/uff"
	"github.com/born-ml/uff/internal/view"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "inspect FILE",
		Short:   "Print a summary of a model",
		Args:    cobra.ExactArgs(1),
		Example: `uff inspect lenet5.uff -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := a.load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch a.output() {
			case outputJSON:
				return view.WriteJSON(out, view.Summarize(model))
			case outputYAML:
				return view.WriteYAML(out, view.Summarize(model))
			default:
				view.WriteModelTable(out, model)
				return nil
			}
		},
	}
}

func newNodesCmd(a *app) *cobra.Command {
	var graph string
	cmd := &cobra.Command{
		Use:     "nodes FILE",
		Short:   "List the nodes of each graph",
		Args:    cobra.ExactArgs(1),
		Example: `uff nodes lenet5.uff --graph main`,
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := a.load(args[0])
			if err != nil {
				return err
			}
			graphs, err := selectGraphs(model, graph)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, g := range graphs {
				switch a.output() {
				case outputJSON, outputYAML:
					s := view.Summarize(&uff.Model{Format: model.Format, Imports: model.Imports, Graphs: []*uff.Graph{g}})
					if err := writeStructured(a, cmd, s.Graphs[0].Nodes); err != nil {
						return err
					}
				default:
					fmt.Fprintf(out, "Graph %s\n", g.Name)
					view.WriteNodeTable(out, g)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&graph, "graph", "", "only list nodes of this graph")
	return cmd
}

func newTensorsCmd(a *app) *cobra.Command {
	var (
		graph string
		limit int
	)
	cmd := &cobra.Command{
		Use:     "tensors FILE",
		Short:   "List folded constants with a preview of their values",
		Args:    cobra.ExactArgs(1),
		Example: `uff tensors lenet5.uff --limit 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return errors.Errorf("limit must not be negative, got %d", limit)
			}
			model, err := a.load(args[0])
			if err != nil {
				return err
			}
			graphs, err := selectGraphs(model, graph)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, g := range graphs {
				fmt.Fprintf(out, "Graph %s\n", g.Name)
				view.WriteTensorTable(out, g, limit)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&graph, "graph", "", "only list tensors of this graph")
	cmd.Flags().IntVar(&limit, "limit", 8, "number of elements to preview")
	return cmd
}

func selectGraphs(model *uff.Model, name string) ([]*uff.Graph, error) {
	if name == "" {
		return model.Graphs, nil
	}
	for _, g := range model.Graphs {
		if g.Name == name {
			return []*uff.Graph{g}, nil
		}
	}
	return nil, errors.Errorf("graph '%s' not found", name)
}

func writeStructured(a *app, cmd *cobra.Command, v interface{}) error {
	if a.output() == outputYAML {
		return view.WriteYAML(cmd.OutOrStdout(), v)
	}
	return view.WriteJSON(cmd.OutOrStdout(), v)
}
