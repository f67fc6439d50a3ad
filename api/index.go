package handler

import (
	"estatehub/config"
	"estatehub/di"
	"estatehub/shared/logger"
	"net/http"
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)
	logger.SetOutput(cfg)

	handler := di.InitializeService()
	handler.ServeHTTP(w, r)
}
