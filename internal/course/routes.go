package course

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/natije-api/internal/auth"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(auth.OptionalAuth)

	r.Get("/", h.ListCourses)
	r.With(auth.AuthMiddleware).Post("/", h.CreateCourse)

	r.Route("/{name}", func(r chi.Router) {
		r.Get("/edit", h.GetCourse)
		r.With(auth.AuthMiddleware).Patch("/edit", h.UpdateCourse)
		r.With(auth.AuthMiddleware).Delete("/edit", h.DeleteCourse)

		r.Get("/themes", h.ListThemes)
		r.With(auth.AuthMiddleware).Post("/themes", h.CreateTheme)

		r.Route("/themes/{theme}", func(r chi.Router) {
			r.Get("/", h.GetTheme)
			r.With(auth.AuthMiddleware).Patch("/", h.UpdateTheme)
			r.With(auth.AuthMiddleware).Delete("/", h.DeleteTheme)
			r.With(auth.AuthMiddleware).Post("/lessons", h.CreateLesson)

			r.Route("/lessons/{lessonID}", func(r chi.Router) {
				r.Get("/", h.GetLesson)

				r.Group(func(r chi.Router) {
					r.Use(auth.AuthMiddleware)

					r.Patch("/", h.UpdateLesson)
					r.Delete("/", h.DeleteLesson)
					r.Post("/materials", h.CreateMaterial)
					r.Get("/materials/{materialID}", h.GetMaterial)
					r.Patch("/materials/{materialID}", h.UpdateMaterial)
					r.Delete("/materials/{materialID}", h.DeleteMaterial)
				})
			})
		})
	})
	return r
}
