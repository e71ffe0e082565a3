package admin

import (
	"github.com/go-chi/chi/v5"

	"github.com/mixenapp/mixen-backend/internal/app"
	"github.com/mixenapp/mixen-backend/internal/server"
)

// Registrar ties the admin review console into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the admin service.
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the review-queue endpoints under /admin, restricted
// to admin accounts.
func (r *Registrar) Register(router chi.Router) {
	service := NewService(r.appCtx)

	router.Route("/admin", func(g chi.Router) {
		g.Use(server.RequireAuth(r.appCtx))
		g.Use(server.RequireAdmin(r.appCtx))

		g.Get("/profiles/", service.ListProfiles)
		g.Get("/rejection-reasons/", service.Reasons)
		g.Post("/profiles/approve/", service.BulkApprove)
		g.Post("/profiles/reject/", service.BulkReject)
		g.Post("/profiles/reject-one/", service.RejectOne)
	})
}
