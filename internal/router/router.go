package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/saulo-duarte/natije-api/docs"
	"github.com/saulo-duarte/natije-api/internal/accesscode"
	"github.com/saulo-duarte/natije-api/internal/aiquiz"
	"github.com/saulo-duarte/natije-api/internal/auth"
	"github.com/saulo-duarte/natije-api/internal/course"
	"github.com/saulo-duarte/natije-api/internal/middlewares"
	"github.com/saulo-duarte/natije-api/internal/quiz"
	"github.com/saulo-duarte/natije-api/internal/user"
)

type RouterConfig struct {
	UserHandler       *user.Handler
	LogoutHandler     *auth.Handler
	AccessCodeHandler *accesscode.Handler
	CourseHandler     *course.Handler
	QuizHandler       *quiz.Handler
	AIQuizHandler     *aiquiz.Handler
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middlewares.CorsMiddleware)
	r.Use(middlewares.Metrics)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Handle("/metrics", middlewares.MetricsHandler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/users", func(r chi.Router) {
		r.Mount("/codes", accesscode.Routes(cfg.AccessCodeHandler))
		r.Mount("/", user.Routes(cfg.UserHandler, cfg.LogoutHandler))
	})
	r.Mount("/courses", course.Routes(cfg.CourseHandler))
	r.Mount("/quizzes", quiz.Routes(cfg.QuizHandler))
	r.Mount("/ai-quiz", aiquiz.Routes(cfg.AIQuizHandler))

	return r
}
