package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gymdesk/internal/client/cli"
	"github.com/dmitrijs2005/gymdesk/internal/client/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	args := os.Args[1:]
	cfg, err := config.LoadConfig(args)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	newApp := func(ctx context.Context, in io.Reader, out io.Writer) (*cli.App, error) {
		return cli.NewApp(ctx, cfg, in, out)
	}

	code := cli.Execute(ctx, newApp, args, os.Stderr)
	stop()
	os.Exit(code)
}
