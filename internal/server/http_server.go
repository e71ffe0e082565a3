package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/mixenapp/mixen-backend/internal/app"
)

// Registrar is a common interface for all HTTP service registrars.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter assembles the chi router: global middleware plus every
// provided service registrar.
func NewRouter(appCtx *app.AppContext, registrars ...Registrar) chi.Router {
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	mux.Use(RequestLogger(appCtx))

	for _, r := range registrars {
		r.Register(mux)
	}

	return mux
}

// StartHTTPServer boots the HTTP server with all provided services registered.
func StartHTTPServer(appCtx *app.AppContext, registrars ...Registrar) error {
	addr := fmt.Sprintf("%s:%s", appCtx.Cfg.HTTP.Host, appCtx.Cfg.HTTP.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: NewRouter(appCtx, registrars...),
	}

	return srv.ListenAndServe()
}
