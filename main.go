package main

import (
	"context"

	"github.com/locvowork/hr_data_bridge/internal/bootstrap"
	"github.com/locvowork/hr_data_bridge/internal/logger"
)

func main() {
	ctx := context.Background()

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		panic(err)
	}

	logger.InfoLog(ctx, "Starting HR data bridge API")
	if err := app.Run(); err != nil {
		logger.ErrorLog(ctx, "Server stopped: %v", err)
		panic(err)
	}
}
