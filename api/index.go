package handler

import (
	"net/http"
	"sync"

	"hotel/config"
	"hotel/di"
	_ "hotel/docs"
	"hotel/shared/logger"
	hotelHTTP "hotel/transport/http"
)

var (
	once   sync.Once
	server *hotelHTTP.HTTP
)

// Handler is the serverless entry point. The dependency graph is built once
// per warm instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		logger.SetupLogger(config.Get())
		server = di.InitializeService()
	})

	server.ServeHTTP(w, r)
}
