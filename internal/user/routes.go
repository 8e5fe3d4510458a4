package user

import (
	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/natije-api/internal/auth"
)

func Routes(h *Handler, logout *auth.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/token", h.Token)
	r.Post("/token/refresh", h.RefreshToken)
	r.Post("/token/verify", h.VerifyToken)
	r.Post("/google/login", h.GoogleLogin)

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Get("/logout", logout.Logout)
		r.Post("/logout", logout.Logout)

		r.Get("/me", h.GetUser)
		r.Get("/profile", h.GetProfile)
		r.Patch("/profile", h.UpdateProfile)
		r.Put("/profile", h.UpdateProfile)
		r.Delete("/profile", h.DeleteProfile)
	})
	return r
}
