// Command wishwall runs the birthday-wall server.
package main

import (
	"github.com/spf13/cobra"

	"github.com/eringen/wishwall"
	"github.com/eringen/wishwall/views"
)

// version is set at build time via ldflags.
var version = "dev"

var flagConfigDir string

var rootCmd = &cobra.Command{
	Use:     "wishwall",
	Short:   "Wishwall is a shareable birthday-wall server",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := wishwall.LoadConfig(flagConfigDir)
		if err != nil {
			return err
		}

		v := views.New(views.Config{
			SiteName: cfg.SiteName,
			BaseURL:  cfg.BaseURL,
		})

		app := wishwall.New(cfg, wishwall.ViewFuncs{
			Home:        v.Home,
			Wall:        v.Wall,
			SubmitForm:  v.SubmitForm,
			AdminPanel:  v.AdminPanel,
			NotFound:    v.NotFound,
			ServerError: v.ServerError,
		})
		defer app.Close()

		return app.Start()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "directory containing config.yaml (default: working directory)")
	rootCmd.AddCommand(serveCmd)
}
