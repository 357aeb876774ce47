package main

import (
	"os/signal"
	"syscall"

	"github.com/rgimusa/storefront/internal/adminapi"
	"github.com/rgimusa/storefront/internal/app"
	"github.com/rgimusa/storefront/internal/storeapi"
	"github.com/rgimusa/storefront/internal/webserver"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront http api",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "override web.port")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if servePort > 0 {
		cfg.Web.Port = servePort
	}

	application := app.NewApplication(cfg)
	if err := application.Init(cfg, true); err != nil {
		return err
	}
	defer application.Release()

	srv := webserver.NewWebServer(cfg)
	storeapi.New(application.State(), application.Catalog(), application.Searcher(), cfg.Checkout).Register(srv)
	adminapi.New(application.Workflow()).Register(srv)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	zap.L().Info("storefront started", zap.String("version", Version))
	return srv.Start(ctx)
}
