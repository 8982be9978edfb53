package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/saulo-duarte/quizard/internal/aiquiz"
	"github.com/saulo-duarte/quizard/internal/attempt"
	"github.com/saulo-duarte/quizard/internal/auth"
	"github.com/saulo-duarte/quizard/internal/classroom"
	"github.com/saulo-duarte/quizard/internal/dashboard"
	"github.com/saulo-duarte/quizard/internal/engagement"
	"github.com/saulo-duarte/quizard/internal/identity"
	"github.com/saulo-duarte/quizard/internal/presenter"
	"github.com/saulo-duarte/quizard/internal/quiz"
	"github.com/saulo-duarte/quizard/internal/subject"
	"github.com/saulo-duarte/quizard/internal/user"
)

const requestTimeout = 30 * time.Second

type RouterConfig struct {
	Holder            *identity.Holder
	UserHandler       *user.Handler
	LogoutHandler     *auth.Handler
	SubjectHandler    *subject.Handler
	QuizHandler       *quiz.Handler
	AttemptHandler    *attempt.Handler
	ClassroomHandler  *classroom.Handler
	EngagementHandler *engagement.Handler
	DashboardHandler  *dashboard.Handler
	AIQuizHandler     *aiquiz.Handler
	ScreenHandler     *presenter.Handler
	Events            http.Handler
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.With(middleware.Timeout(requestTimeout)).
		Mount("/auth", user.AuthRoutes(cfg.UserHandler, cfg.LogoutHandler, auth.AuthMiddleware(cfg.Holder)))

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware(cfg.Holder))
		r.Handle("/ws", cfg.Events)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Use(auth.AuthMiddleware(cfg.Holder))

		r.Mount("/screen", presenter.Routes(cfg.ScreenHandler))
		r.Mount("/users", user.Routes(cfg.UserHandler))
		r.Mount("/subjects", subject.Routes(cfg.SubjectHandler))
		r.Mount("/quizzes", quiz.Routes(cfg.QuizHandler))
		r.Mount("/attempts", attempt.Routes(cfg.AttemptHandler))
		r.Mount("/classes", classroom.Routes(cfg.ClassroomHandler))
		r.Mount("/engagement", engagement.Routes(cfg.EngagementHandler))
		r.Mount("/dashboard", dashboard.Routes(cfg.DashboardHandler))
		r.Mount("/ai-quiz", aiquiz.Routes(cfg.AIQuizHandler))
	})
	return r
}
