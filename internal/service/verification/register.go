package verification

import (
	"github.com/go-chi/chi/v5"

	"github.com/mixenapp/mixen-backend/internal/app"
	"github.com/mixenapp/mixen-backend/internal/server"
)

// Registrar ties the verification service into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the verification service.
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the media-upload and review endpoints. They require
// a logged-in account but not an approved one: drafts and rejected
// profiles must be able to (re)submit.
func (r *Registrar) Register(router chi.Router) {
	service := NewService(r.appCtx)

	router.Group(func(g chi.Router) {
		g.Use(server.RequireAuth(r.appCtx))

		g.Post("/upload-images/", service.UploadImage)
		g.Post("/upload-video/", service.UploadVideo)
		g.Post("/submit-review/", service.SubmitReview)
		g.Get("/status/", service.Status)
	})
}
