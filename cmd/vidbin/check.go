package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vidbin/internal/config"
)

const checkTimeout = 15 * time.Second

func newCheckCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify storage configuration and connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
			defer cancel()

			if err := store.EnsureBucket(ctx); err != nil {
				return fmt.Errorf("storage check failed: %w", err)
			}

			fmt.Printf("ok: bucket %q is reachable\n", config.BucketName)
			return nil
		},
	}
}
