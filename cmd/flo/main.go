// Package main is the entry point for the flo build tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/flo/cmd/flo/commands"
	"go.trai.ch/flo/internal/adapters/telemetry"
	"go.trai.ch/flo/internal/app"
	"go.trai.ch/flo/internal/core/domain"
	_ "go.trai.ch/flo/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stderr io.Writer,
	provider ComponentProvider,
) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdown := telemetry.InitProvider()
	defer func() {
		_ = shutdown(context.WithoutCancel(ctx))
	}()

	components, _, err := provider(ctx)
	if err != nil {
		// The logger is not available if initialization failed.
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}

	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(os.Stdout, stderr)

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrExecutionFailed) {
			// Per-task errors were already reported by the scheduler.
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
