// Command gosora is a demonstration CLI for the Sora video generation client.
// It drives the full workflow: submit a job, poll it to completion, download
// the resulting media, and clean the job up. All constraint and lifecycle
// logic lives in the sora package; this binary only orchestrates.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rashedtalukder/gosora/sora"
)

var (
	configPath string
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:           "gosora",
		Short:         "Generate videos with the Azure OpenAI Sora API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default: environment)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newGenerateCmd(),
		newListCmd(),
		newStatusCmd(),
		newDeleteCmd(),
		newDownloadCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newLogger builds a development logger, at debug level when --verbose.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

// newClient resolves configuration from --config or the environment and
// constructs the client shared by every subcommand.
func newClient(logger *zap.Logger) (*sora.Client, error) {
	cfg := sora.ConfigFromEnv()
	if configPath != "" {
		fileCfg, err := sora.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	return sora.NewClient(cfg, logger)
}
