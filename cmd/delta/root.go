package main

import (
	"fmt"
	"os"

	"github.com/aretw0/delta/internal/cli"
	"github.com/aretw0/delta/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "delta",
	Short: "delta runs and edits small automation algorithms",
	Long: `delta runs algorithms written in a small imperative language (if, while,
for, set, input, print) and manages a local library of them, optionally
synchronized with a remote catalog.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// cfg is loaded before any command runs; flags override it.
var cfg *config.Config

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to the configuration file (default delta.yaml)")
	pf.String("env-file", ".env", "Path to a .env file")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.String("log-file", "", "Also write JSON logs to this file")
	pf.String("store", "", "Store backend: memory, file, loam or redis")
	pf.String("store-path", "", "Directory of the file and loam stores")
	pf.String("remote", "", "Base URL of the sync server")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	loaded, err := config.Load(path, envFile)
	if err != nil {
		return err
	}

	overrides := map[string]*string{
		"log-level":  &loaded.LogLevel,
		"log-file":   &loaded.LogFile,
		"store":      &loaded.Store.Backend,
		"store-path": &loaded.Store.Path,
		"remote":     &loaded.Remote.URL,
	}
	for name, target := range overrides {
		if cmd.Flags().Changed(name) {
			*target, _ = cmd.Flags().GetString(name)
		}
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// openStack builds the engine for a command. Callers close it.
func openStack() (*cli.Stack, error) {
	return cli.Build(cfg, os.Stderr)
}
