package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/five82/bookshelf/internal/app"
)

func newRootCmd() *cobra.Command {
	var opts app.Options

	cmd := &cobra.Command{
		Use:   "bookshelf",
		Short: "Manage a book collection from the terminal",
		Long: `bookshelf lists the books held by a books REST API as a grid of cover
cards and lets you add, edit and delete them.`,
		Example: `  # Use the API from config.toml or BOOKSHELF_API_URL
  bookshelf

  # Point at another backend
  bookshelf --api http://books.lan:5000`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env is optional.
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/bookshelf/config.toml)")
	cmd.Flags().StringVar(&opts.APIURL, "api", "", "books API base URL")
	cmd.Flags().StringVar(&opts.PrefsPath, "prefs", "", "preferences file (default ~/.config/bookshelf/prefs.toml)")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "log file (default ~/.local/state/bookshelf/bookshelf.log)")

	cmd.AddCommand(newServeCmd(&opts.ConfigPath))
	return cmd
}
