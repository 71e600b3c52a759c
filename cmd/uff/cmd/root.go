package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/born-ml/uff/internal/uff"
	"github.com/born-ml/uff/internal/uff/operators"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

var supportedOutputs = []string{outputTable, outputJSON, outputYAML}

// app carries the configuration shared by every subcommand.
type app struct {
	cfgFile string
	config  *viper.Viper
	log     *logrus.Logger
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		logrus.Errorf("uff-%s: %v", version, err)
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{config: viper.New(), log: logrus.New()}

	rootCmd := &cobra.Command{
		Use:           "uff",
		Short:         "Inspect UFF (Universal Framework Format) models.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initConfig(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.uff.yaml)")
	flags.BoolP("debug", "d", false, "turn on debug logging")
	flags.String("metadata", "", "operator metadata override file (.json, .yaml)")
	flags.StringP("output", "o", outputTable, fmt.Sprintf("output format, one of %v", supportedOutputs))
	flags.Bool("parallel", false, "build graphs concurrently")
	for _, name := range []string{"debug", "metadata", "output", "parallel"} {
		if err := a.config.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(
		newInspectCmd(a),
		newNodesCmd(a),
		newTensorsCmd(a),
		newDetectCmd(a),
		newOpsCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// initConfig reads the config file and UFF_* environment variables.
func (a *app) initConfig(cmd *cobra.Command) error {
	a.config.SetEnvPrefix("UFF")
	a.config.AutomaticEnv()

	if a.cfgFile != "" {
		a.config.SetConfigFile(a.cfgFile)
		if err := a.config.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config '%s'", a.cfgFile)
		}
	} else if home, err := homedir.Dir(); err == nil {
		a.config.SetConfigFile(filepath.Join(home, ".uff.yaml"))
		if err := a.config.ReadInConfig(); err != nil && !os.IsNotExist(errors.Cause(err)) {
			a.log.Debugf("ignoring config: %v", err)
		}
	}

	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if a.config.GetBool("debug") {
		a.log.SetLevel(logrus.DebugLevel)
	}

	output := a.config.GetString("output")
	for _, o := range supportedOutputs {
		if o == output {
			return nil
		}
	}
	return errors.Errorf("output format must be one of %v, got '%s'", supportedOutputs, output)
}

func (a *app) registry() (*operators.Registry, error) {
	r := operators.NewRegistry()
	if path := a.config.GetString("metadata"); path != "" {
		if err := r.LoadFile(path); err != nil {
			return nil, err
		}
		a.log.WithField("file", path).Debug("loaded operator metadata")
	}
	return r, nil
}

func (a *app) load(path string) (*uff.Model, error) {
	r, err := a.registry()
	if err != nil {
		return nil, err
	}
	return uff.Load(path, uff.LoadOptions{
		Metadata: r,
		Parallel: a.config.GetBool("parallel"),
		Logger:   a.log.WithField("file", filepath.Base(path)),
	})
}

func (a *app) output() string {
	return a.config.GetString("output")
}
