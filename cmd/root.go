// File: cmd/root.go

package cmd

import (
	"fmt"

	"github.com/drengskapur/projcompile/pkg/config"
	"github.com/drengskapur/projcompile/pkg/logging"
	"github.com/drengskapur/projcompile/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var (
	cfgFile string
	debug   bool
	logFile string

	// settings merges flags, PROJCOMPILE_* variables and the config file.
	settings = config.New()
	logger   = zap.NewNop()
)

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   version.AppName,
	Short: "projcompile compiles a project directory into size-bounded documents",
	Long: `projcompile concatenates the text files of a project into one or more
markdown, HTML or JSON Lines documents with a directory tree and per-file
metadata, and splits codebases into token-bounded chunks for LLM input.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.Setup(debug, logFile, version.AppName, version.Get().Version)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l

		if err := config.LoadDotEnv(); err != nil {
			logger.Warn("Failed to load .env file", zap.Error(err))
		}
		used, err := config.Load(settings, cfgFile)
		if err != nil {
			return err
		}
		if used != "" {
			logger.Debug("Using config file", zap.String("file", used))
		}
		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return RootCmd.Execute()
}

// Logger returns the logger configured for the running command.
func Logger() *zap.Logger {
	return logger
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default $HOME/.config/projcompile/projcompile.yaml or ./projcompile.yaml)")
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	RootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this file")
}

// bindFlag ties a flag to a settings key so that the flag, when set, wins
// over the environment and the config file.
func bindFlag(flags *pflag.FlagSet, name, key string) {
	if err := settings.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(fmt.Sprintf("binding flag %q: %v", name, err))
	}
}
