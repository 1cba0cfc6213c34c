// Package main is the productctl entry point: a web console and command line for a
// json-server style products API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/abgdnv/productctl/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], cli.StdStreams())
	stop()
	os.Exit(code)
}
