// Command hxserve runs the read-only HX container inspector: an HTTP
// server exposing container info, entry listings, and WAV extraction.
package main

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/haruki-hx/libhx/internal/api"
	"github.com/haruki-hx/libhx/internal/config"
	"github.com/haruki-hx/libhx/internal/hxlog"
)

func main() {
	cfg := config.Load("libhx.yaml")
	mainLogger := hxlog.NewLogger("Main", cfg.LogLevel, os.Stdout)

	if !cfg.Inspector.Enabled {
		mainLogger.Errorf("inspector disabled in libhx.yaml (set inspector.enabled: true)")
		os.Exit(1)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 30 * 1024 * 1024,
	})
	app.Use(logger.New())

	api.RegisterRoutes(app)

	mainLogger.Infof("starting inspector on %s", cfg.Inspector.Addr)
	if err := app.Listen(cfg.Inspector.Addr); err != nil {
		mainLogger.Errorf("failed to start HTTP server: %v", err)
		os.Exit(1)
	}
}
