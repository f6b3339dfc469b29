package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yigit/placement/internal/pkg/logger"
	"github.com/yigit/placement/internal/server"
)

// @title Placement Portal API
// @version 1.0
// @description Placement drives, registrations, offers, analytics and consolidated sheets

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize placement API")
		os.Exit(1)
	}

	if err := srv.Run(ctx); err != nil {
		stop()
		logger.Error().Err(err).Msg("Placement API stopped with errors")
		os.Exit(1)
	}

	logger.Info().Msg("Placement API stopped")
}
