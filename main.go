package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsupa/turbo-template/cmd"
	"github.com/jsupa/turbo-template/config"
	"github.com/jsupa/turbo-template/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	var configPath, port string
	flag.StringVar(&configPath, "config", "", "Path to the config file")
	flag.StringVar(&port, "port", "", "Server port (overrides config)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if port != "" {
		cfg.Server.Port = port
	}

	if err := logger.Init(&cfg.Log, &cfg.App); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := cmd.NewBuilder(cfg).Build()
	if err := app.Run(ctx); err != nil {
		logger.Error("Application exited with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
