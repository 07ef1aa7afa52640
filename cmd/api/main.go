package main

import (
	"os"

	"github.com/gamage-recruiters/platform/internal/pkg/logger"
	"github.com/gamage-recruiters/platform/internal/server"
)

// @title Gamage Recruiters API
// @version 1.0
// @description Backend API for the Gamage Recruiters job platform

// @contact.name API Support
// @contact.email support@gamagerecruiters.lk

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token; the session cookie is accepted as well

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until a shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
