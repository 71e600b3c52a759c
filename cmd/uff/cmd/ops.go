package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/born-ml/uff/internal/uff/operators"
)

func newOpsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List operators known to the metadata store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.registry()
			if err != nil {
				return err
			}
			if a.output() != outputTable {
				schemas := make([]*operators.Schema, 0)
				for _, op := range r.SupportedOps() {
					s, _ := r.Get(op)
					schemas = append(schemas, s)
				}
				return writeStructured(a, cmd, schemas)
			}
			for _, op := range r.SupportedOps() {
				s, _ := r.Get(op)
				names := make([]string, len(s.Inputs))
				for i, in := range s.Inputs {
					names[i] = in.Name
					if in.List {
						names[i] += "[]"
					}
					if in.Optional {
						names[i] += "?"
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s(%s)\n", op, strings.Join(names, ", "))
			}
			return nil
		},
	}
}
