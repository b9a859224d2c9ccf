package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-docfmt/internal/server"
)

func newServeCommand(a *app) *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if address != "" {
				a.cfg.Server.Address = address
			}
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			srv, err := server.New(cmd.Context(), a.cfg.Server, orch, server.WithLogger(a.log))
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "listen address (overrides server.address)")
	return cmd
}
