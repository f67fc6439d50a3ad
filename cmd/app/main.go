package main

import (
	"estatehub/config"
	"estatehub/di"
	"estatehub/shared/logger"
)

// @title						EstateHub API
// @version					1.0
// @description				Residential estate backend: facility bookings, fees, reports, visitors and announcements.
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)
	logger.SetOutput(cfg)

	http := di.InitializeService()
	http.Serve()
}
