package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"

	"github.com/Kush-Singh-26/devserve/internal/config"
	"github.com/Kush-Singh-26/devserve/internal/console"
	"github.com/Kush-Singh-26/devserve/internal/server"
)

func serve(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	con := console.New(stdout)

	// Parse flags manually from args to keep them scoped to this subcommand
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Config file (yaml or toml)")
	host := fs.String("host", "", "The host/IP to bind to")
	port := fs.Int("port", 8000, "The port to listen on")
	dir := fs.String("dir", ".", "The directory to serve")
	watch := fs.Bool("watch", false, "Enable live reload")
	compress := fs.Bool("compress", true, "gzip responses when accepted")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		con.Error("Error: %v", err)
		return 1
	}

	// Explicit flags win over the config file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = *host
		case "port":
			cfg.Port = *port
		case "dir":
			cfg.Root = *dir
		case "watch":
			cfg.Watch = *watch
		case "compress":
			cfg.Compress = *compress
		}
	})
	if err := cfg.Validate(); err != nil {
		con.Error("Error: %v", err)
		return 1
	}

	logger := newLogger(stderr, cfg.LogLevel)

	err = server.Run(ctx, cfg, stdout, server.WithLogger(logger))
	var bindErr *server.BindError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &bindErr):
		con.Error("Error: cannot start server on port %d: %v", cfg.Port, bindErr.Err)
		return 1
	default:
		con.Error("Error: %v", err)
		return 1
	}
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
