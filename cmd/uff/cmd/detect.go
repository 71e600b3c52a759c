package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/born-ml/uff/internal/uff"
)

type detectResult struct {
	File      string `json:"file" yaml:"file"`
	Container string `json:"container" yaml:"container"`
	Format    string `json:"format,omitempty" yaml:"format,omitempty"`
	Graphs    int    `json:"graphs" yaml:"graphs"`
	Nodes     int    `json:"nodes" yaml:"nodes"`
}

func newDetectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "detect FILE...",
		Short:   "Report the container format of files",
		Args:    cobra.MinimumNArgs(1),
		Example: `uff detect model.uff model.pbtxt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]detectResult, 0, len(args))
			for _, path := range args {
				data, err := os.ReadFile(path) //nolint:gosec // G304: Path is provided by user
				if err != nil {
					return errors.Wrap(err, "failed to read file")
				}
				r := detectResult{File: path, Container: "unknown"}
				if format, ok := uff.Detect(path, data); ok {
					r.Container = string(format)
					if meta, err := uff.Decode(data, format); err == nil {
						info := uff.NewModelInfo(meta, format)
						r.Format, r.Graphs, r.Nodes = info.Format, info.GraphCount, info.NodeCount
					} else {
						a.log.WithField("file", path).Debug(err)
					}
				}
				results = append(results, r)
			}
			if a.output() != outputTable {
				return writeStructured(a, cmd, results)
			}
			for _, r := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", r.File, r.Container)
			}
			return nil
		},
	}
}
