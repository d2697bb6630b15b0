package cmd

import (
	"github.com/spf13/cobra"
	"github.com/they4kman/minefield/game"
	"github.com/they4kman/minefield/server"
)

func newServeCmd(config *Config) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve single-player games over HTTP and websockets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, err := config.catalog()
			if err != nil {
				return err
			}

			serverConfig := server.NewConfig()
			serverConfig.Addr = config.Addr
			serverConfig.AllowedOrigins = config.AllowedOrigins

			return server.New(serverConfig, presets, game.NewRand(config.seed())).Run(cmd.Context())
		},
	}

	serveCmd.Flags().StringVar(&config.Addr, "addr", config.Addr, "Address to listen on")
	serveCmd.Flags().StringSliceVar(&config.AllowedOrigins, "allowed-origins", config.AllowedOrigins, "Origins allowed by CORS")
	serveCmd.Flags().Int64Var(&config.Seed, "seed", config.Seed, "Seed for mine placement (0 picks one from the clock)")

	return serveCmd
}
