package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vidbin/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "vidbin",
		Short: "Vidbin is a minimal video-sharing service over object storage",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if warning := configureLoggerForCLI(logLevel, cfg.LogLevel); warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newSrvCmd(cfg),
		newCheckCmd(cfg),
		newConfigCmd(cfg),
	)

	return cmd
}
