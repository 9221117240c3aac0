package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/GuitarSoul/putty-sessions/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cli.NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		cli.PrintError(root.ErrOrStderr(), err)
		stop()
		os.Exit(1)
	}
}
