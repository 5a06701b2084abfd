package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"usuarios-api/cmd/api/app"
	"usuarios-api/cmd/api/server"
)

func main() {
	ctx, stop := server.WithSignal(context.Background())

	a, err := app.New(ctx)
	if err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		stop()
		a.Logger.Fatal("application exited with error", zap.Error(err))
	}
	stop()
}
