package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"vidbin/internal/blobstore"
	"vidbin/internal/config"
	"vidbin/internal/server"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "srv",
		Short: "Run the vidbin API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}

			logger := slog.Default().With("component", "server")

			addr, err := server.ListenAddr(cfg.APIURL)
			if err != nil {
				return err
			}

			store, err := openStore(cfg)
			if err != nil {
				return err
			}

			srv := server.New(addr, store, logger)
			srv.SetVersion(version)
			return srv.ListenAndServe()
		},
	}
}

func openStore(cfg *config.Config) (blobstore.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		// Volatile; useful for trying the UI without an object store.
		slog.Default().Warn("using in-memory storage backend; uploads do not persist")
		return blobstore.NewMemory(), nil
	case config.BackendMinio, "":
		conn, err := cfg.StorageConnection()
		if err != nil {
			return nil, err
		}
		return blobstore.NewMinio(blobstore.MinioConfig{
			Endpoint:  conn.Endpoint,
			AccessKey: conn.AccessKey,
			SecretKey: conn.SecretKey,
			UseSSL:    conn.UseSSL,
			Bucket:    config.BucketName,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
