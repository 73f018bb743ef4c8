package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/krsnavtr-code/Pass-Manager/internal/client/cli"
	"github.com/krsnavtr-code/Pass-Manager/internal/client/config"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig(os.Args[1:])
	app := cli.NewApp(cfg)

	app.Run(ctx)

}
