package account

import (
	"github.com/go-chi/chi/v5"

	"github.com/mixenapp/mixen-backend/internal/app"
)

// Registrar ties the account service into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the account service.
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the public auth endpoints. No auth middleware here.
func (r *Registrar) Register(router chi.Router) {
	service := NewService(r.appCtx)
	router.Post("/register/", service.Register)
	router.Post("/login/", service.Login)
}
