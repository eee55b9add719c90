package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/iudanet/dashsync/internal/client/api"
	"github.com/iudanet/dashsync/internal/client/cli"
	"github.com/iudanet/dashsync/internal/client/iocli"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Коды выхода
const (
	exitOK       = 0
	exitError    = 1
	exitUsage    = 2
	exitConflict = 3
	exitNotSaved = 4
)

func main() {
	defaultServer := os.Getenv(cli.EnvServer)
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}

	fs := pflag.NewFlagSet("dashsync", pflag.ExitOnError)
	showVersion := fs.Bool("version", false, "Show version information")
	serverURL := fs.String("server", defaultServer, "Server URL (env "+cli.EnvServer+")")
	token := fs.String("token", "", "Access token (env "+cli.EnvToken+")")
	file := fs.StringP("file", "f", "-", "State document for save, - reads stdin")
	timeout := fs.Duration("timeout", api.DefaultTimeout, "Timeout of one command")
	_ = fs.Parse(os.Args[1:])

	if *showVersion {
		printVersion()
		os.Exit(exitOK)
	}

	term := iocli.NewStdioWithOutput(os.Stderr)

	// Получаем команду
	args := fs.Args()
	if len(args) != 2 {
		cli.PrintUsage(term)
		os.Exit(exitUsage)
	}

	accessToken, err := cli.ResolveToken(*token, os.Getenv, term)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitUsage)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)

	runner := cli.NewRunner(api.NewClient(*serverURL, accessToken), iocli.NewStdio(), os.Stdin)
	err = runner.Run(ctx, args[0], args[1], *file)
	cancel()
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	switch {
	case errors.Is(err, cli.ErrUsage):
		return exitUsage
	case errors.Is(err, cli.ErrConflict):
		return exitConflict
	case errors.Is(err, cli.ErrNotSaved):
		return exitNotSaved
	default:
		return exitError
	}
}

func printVersion() {
	fmt.Printf("Dashsync Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
