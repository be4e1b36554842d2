package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"github.com/eringen/pubfolio"
	"github.com/eringen/pubfolio/views"
)

var watchFlag bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	Long: `serve loads the content and data directories and starts the HTTP server.
With --watch, edits to reviews and data files show up without a restart.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig.site()
		if cmd.Flags().Changed("watch") {
			cfg.Watch = watchFlag
		}

		app := pubfolio.New(cfg, views.Default(cfg), pubfolio.WithStaticDir(appConfig.StaticDir))
		defer app.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Infof("serving %s on %s", cfg.URL, cfg.Addr)
		return app.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&watchFlag, "watch", false, "reload content when files change")
}
