package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/dmitrijs2005/vcdash/internal/client/cli"
	"github.com/dmitrijs2005/vcdash/internal/client/config"
	"github.com/dmitrijs2005/vcdash/internal/logging"
	"github.com/dmitrijs2005/vcdash/internal/telemetry"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli.Completion(time.Now()).Complete(path.Base(os.Args[0]))

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	cfg, err := config.LoadConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return int(subcommands.ExitUsageError)
	}

	level := "warn"
	if cfg.Verbose {
		level = "debug"
	}
	log := logging.New(os.Stderr, level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown := telemetry.Setup(ctx, "vcdash", cfg.OTLPEndpoint, log)
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			log.Warn(sctx, "telemetry shutdown", "error", err)
		}
	}()

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "cannot start", "error", err)
		return int(subcommands.ExitFailure)
	}
	defer app.Close()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cli.Register(commander, app)
	return int(commander.Execute(ctx))
}
