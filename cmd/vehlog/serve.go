package main

import (
	"vehlog/internal/di"
	"vehlog/internal/structures"

	"github.com/spf13/cobra"
)

func newServeCmd(flags *structures.CliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := di.InitApp(flags)
			if err != nil {
				return codeError(3, "%s", err)
			}
			defer cleanup()
			return app.Run(cmd.Context())
		},
	}
}
