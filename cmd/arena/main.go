// Command arena is the operator CLI: rank a vote log or generate a synthetic one.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/arena/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	os.Exit(code)
}
