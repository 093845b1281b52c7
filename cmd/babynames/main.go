package main

import (
	"context"
	"os"
	"os/signal"

	"babynames/internal/app"
	"babynames/internal/config"
	"babynames/internal/console"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

func main() {
	logger := log.New("babynames")
	logger.SetOutput(os.Stderr)
	logger.SetHeader("${time_rfc3339} ${level} ${prefix}")

	// 1. Config (.env is optional)
	if err := godotenv.Load(".env"); err != nil {
		logger.Debugf(".env file not loaded: %v", err)
	}
	cfg, err := config.New()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	lvl, _ := config.ParseLogLevel(cfg.LogLevel)
	logger.SetLevel(lvl)

	// 2. Terminal
	out, pal := console.Stdout(os.Stdout, cfg.Color)
	if !console.Enabled(os.Stderr, cfg.Color) {
		logger.DisableColor()
	}

	// 3. Run the pipeline until the user quits
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx, cfg, os.Stdin, out, app.Deps{Logger: logger, Palette: pal}); err != nil {
		logger.Fatalf("babynames: %v", err)
	}
}
