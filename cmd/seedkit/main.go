package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

var CLI struct {
	Plan    string `short:"p" help:"Seed plan file path" default:"seed.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Apply struct {
		Database    string `short:"d" help:"Target SQLite database path" default:"seed.db"`
		NatsURL     string `help:"Publish applied events to this NATS server" env:"SEEDKIT_NATS_URL"`
		NatsSubject string `help:"Subject for applied events" default:"seedkit.applied"`
	} `cmd:"" help:"Apply the seed plan to the target database"`

	Validate struct{} `cmd:"" help:"Validate the seed plan against an in-memory database without touching any target"`

	Watch struct {
		Database      string `short:"d" help:"Target SQLite database path" default:"seed.db"`
		NatsURL       string `help:"Publish applied events to this NATS server" env:"SEEDKIT_NATS_URL"`
		NatsSubject   string `help:"Subject for applied events" default:"seedkit.applied"`
		MetricsListen string `help:"Serve Prometheus metrics on this address (e.g. :9109)"`
	} `cmd:"" help:"Apply the seed plan, then re-apply whenever it changes"`
}

func main() {
	// Not all setups have one; flags and env vars cover the rest.
	_ = godotenv.Load(".env", ".env.local")

	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "apply":
		if err := runApply(context.Background(), CLI.Plan, CLI.Apply.Database, CLI.Apply.NatsURL, CLI.Apply.NatsSubject); err != nil {
			slog.Error("Apply failed", "error", err)
			os.Exit(1)
		}
	case "validate":
		if err := runValidate(context.Background(), CLI.Plan); err != nil {
			slog.Error("Validation failed", "error", err)
			os.Exit(1)
		}
	case "watch":
		sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := runWatch(sigCtx, CLI.Plan, CLI.Watch.Database, CLI.Watch.NatsURL, CLI.Watch.NatsSubject, CLI.Watch.MetricsListen); err != nil {
			slog.Error("Watch failed", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Unknown command", "command", ctx.Command())
		os.Exit(1)
	}
}
