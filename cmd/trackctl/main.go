package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/trackboard/internal/trackctl"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := trackctl.Main(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
