package accesscode

import (
	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/natije-api/internal/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.AuthMiddleware)

	r.Post("/redeem", h.Redeem)
	return r
}
