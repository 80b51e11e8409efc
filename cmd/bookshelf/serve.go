package main

import (
	"github.com/spf13/cobra"

	"github.com/five82/bookshelf/internal/app"
)

func newServeCmd(configPath *string) *cobra.Command {
	var opts app.ServeOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local books API for development",
		Long: `Starts a books REST API backed by SQLite. Covers are stored next to the
database and served under /covers/.`,
		Example: `  # Listen on the default 127.0.0.1:5000
  bookshelf serve

  # Keep data somewhere else
  bookshelf serve --addr :8080 --data-dir ./data`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ConfigPath = *configPath
			return app.Serve(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default 127.0.0.1:5000)")
	cmd.Flags().StringVar(&opts.DataDir, "data-dir", "", "database and cover directory (default ~/.local/share/bookshelf)")
	return cmd
}
