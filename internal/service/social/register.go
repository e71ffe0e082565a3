package social

import (
	"github.com/go-chi/chi/v5"

	"github.com/mixenapp/mixen-backend/internal/app"
	"github.com/mixenapp/mixen-backend/internal/server"
)

// Registrar ties the social service into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the social service.
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the swipe/like/match endpoints. All of them require
// an approved profile.
func (r *Registrar) Register(router chi.Router) {
	service := NewService(r.appCtx)

	router.Group(func(g chi.Router) {
		g.Use(server.RequireAuth(r.appCtx))
		g.Use(server.RequireApproved(r.appCtx))

		g.Get("/swipe/", service.Swipe)
		g.Post("/like/", service.Like)
		g.Get("/matches/", service.Matches)
		g.Get("/view-likes/", service.ViewLikes)
	})
}
