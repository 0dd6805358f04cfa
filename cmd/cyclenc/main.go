// Package main provides the cyclenc command.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/arloliu/cyclenc/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if err != nil {
		os.Exit(1)
	}
}
