package main

import (
	"github.com/spf13/cobra"

	"OptEdge/pkg/server"
)

func serveCmd(load runtimeLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the scan API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := load()
			if err != nil {
				return err
			}
			app := server.New(rt.Server, rt.Logger, rt.Config.Server.ShutdownTimeout, server.CloseFunc(cleanup))
			return app.Run(cmd.Context())
		},
	}
}
