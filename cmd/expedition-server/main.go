package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/marquage/expedition/internal/config"
	"github.com/marquage/expedition/internal/logging"
	"github.com/marquage/expedition/internal/server"
	"github.com/marquage/expedition/internal/source"
	"github.com/marquage/expedition/pkg/api"
)

var configPath string

func init() {
	flag.StringVar(&configPath, "config", "", "Path to the YAML config file")
}

func main() {
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Loading config: %v", err)
	}

	logger := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	logging.SetLogger(logger)

	options := api.DefaultOptions()
	options.Variant = cfg.Report.Variant
	options.VariantsFile = cfg.Report.VariantsFile
	options.LogoPath = cfg.Report.Logo
	options.FontPath = cfg.Report.Font
	options.ResourcePaths = append(options.ResourcePaths, cfg.Report.ResourcePaths...)
	options.Author = cfg.Report.Author
	options.ShowPageTotal = cfg.Report.ShowPageTotal
	options.Compress = cfg.Report.Compress
	options.Debug = !cfg.IsProduction()

	gen, err := api.NewWithOptions(options)
	if err != nil {
		log.Fatalf("Creating generator: %v", err)
	}

	var src source.Source
	if cfg.Source.File != "" {
		src = source.File{Path: cfg.Source.File}
	}

	webserver := server.NewWebServer(cfg, gen, src, logger)
	if err := webserver.Start(); err != nil {
		log.Fatalf("Starting web server: %v", err)
	}
	logger.Info("report server ready",
		"addr", webserver.Addr(),
		"env", cfg.Env,
		"variant", gen.Variant().Name)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := webserver.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "err", err)
		os.Exit(1)
	}
}
