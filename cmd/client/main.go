package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/celar/internal/client/api"
	"github.com/iudanet/celar/internal/client/cli"
	"github.com/iudanet/celar/internal/client/iocli"
	"github.com/iudanet/celar/internal/client/storage/boltdb"
)

const defaultServerURL = "http://localhost:8000"

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(os.Args[1:], iocli.NewStdio()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdio iocli.IO) error {
	fs := flag.NewFlagSet("celar-client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	showVersion := fs.Bool("version", false, "Show version information")
	serverURL := fs.String("server", "", "Server URL")
	dbPath := fs.String("db", "celar-client.db", "Path to local session database")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		printVersion(stdio)
		return nil
	}

	rest := fs.Args()
	if len(rest) == 0 {
		cli.New(stdio, nil, nil, "").PrintUsage()
		return errors.New("missing command")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	// без -server используем сервер сохраненной сессии
	server := *serverURL
	if server == "" {
		server = defaultServerURL
		if auth, err := store.GetAuth(ctx); err == nil && auth.ServerURL != "" {
			server = auth.ServerURL
		}
	}

	c := cli.New(stdio, api.NewClient(server), store, server)
	return c.Run(ctx, rest[0], rest[1:])
}

func printVersion(stdio iocli.IO) {
	stdio.Printf("Celar Client\n")
	stdio.Printf("Version:    %s\n", Version)
	stdio.Printf("Build Date: %s\n", BuildDate)
	stdio.Printf("Git Commit: %s\n", GitCommit)
}
