package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"gateway-manager/core/config"
	"gateway-manager/core/gateway"
	"gateway-manager/core/loader"
	"gateway-manager/core/logger"
	"gateway-manager/core/metrics"
	"gateway-manager/core/middleware/auth"
	"gateway-manager/core/middleware/rayid"
	"gateway-manager/core/reconcile"
	"gateway-manager/core/source"

	"gateway-manager/feature/status"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the status API server",
	Long: `Starts the HTTP server exposing the read-only account status endpoints
and prometheus metrics. Sync workflows keep running through the CLI
commands; the server never mutates the account.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Initialize Gateway Client
		client, err := gateway.NewClient(cfg.Gateway)
		if err != nil {
			logg.Fatal("Failed to create gateway client", zap.Error(err))
		}
		fetcher := source.NewFetcher(cfg.Source)
		orchestrator := reconcile.NewOrchestrator(client, fetcher, logg)

		// 4. Register Metrics
		metrics.Init()

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 6. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(status.NewFeature(client, orchestrator, logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 2.5 Metrics (Public)
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 7. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
