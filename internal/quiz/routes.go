package quiz

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/natije-api/internal/auth"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(auth.OptionalAuth)

	r.Get("/", h.ListQuizzes)
	r.Get("/{id}/questions", h.Overview)
	r.Get("/{id}/questions/{questionID}", h.GetQuestion)

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Post("/", h.CreateQuiz)
		r.Patch("/{id}", h.UpdateQuiz)
		r.Delete("/{id}", h.DeleteQuiz)

		r.Post("/{id}/questions", h.CreateQuestion)
		r.Patch("/{id}/questions/{questionID}", h.UpdateQuestion)
		r.Delete("/{id}/questions/{questionID}", h.DeleteQuestion)
		r.Post("/{id}/questions/{questionID}/variants", h.CreateVariant)

		r.Patch("/variants/{variantID}", h.UpdateVariant)
		r.Delete("/variants/{variantID}", h.DeleteVariant)

		r.Post("/{id}/answers/{questionID}", h.SubmitAnswer)

		r.Get("/results/{id}", h.Score)
		r.Post("/results/{id}", h.Score)
	})
	return r
}
