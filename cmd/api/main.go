package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yigit/studentrecords/internal/pkg/logger"
	"github.com/yigit/studentrecords/internal/server"
)

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:           "api",
		Short:         "Serve the student records API, pages and marks form",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := server.NewServer(configPath)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to initialize server")
				return err
			}

			if err := srv.Run(); err != nil {
				logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
				return err
			}

			logger.Info().Msg("Application finished gracefully.")
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", filepath.Join("configs", "config.yaml"), "path to the YAML config file")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
