package chat

import (
	"github.com/go-chi/chi/v5"

	"github.com/mixenapp/mixen-backend/internal/app"
	"github.com/mixenapp/mixen-backend/internal/server"
)

// Registrar ties the chat service into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the chat service.
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the messaging endpoint behind the approved gate.
func (r *Registrar) Register(router chi.Router) {
	service := NewService(r.appCtx)

	router.Group(func(g chi.Router) {
		g.Use(server.RequireAuth(r.appCtx))
		g.Use(server.RequireApproved(r.appCtx))

		g.Post("/send-message/", service.SendMessage)
	})
}
