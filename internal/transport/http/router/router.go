package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Signup(w http.ResponseWriter, r *http.Request)
	Signin(w http.ResponseWriter, r *http.Request)
	VerifyUser(w http.ResponseWriter, r *http.Request)
	ResetPassword(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health HealthHandler
	Auth   AuthHandler

	AuthMW func(http.Handler) http.Handler

	// Outermost middleware, applied to every route.
	RequestID  func(http.Handler) http.Handler
	HTTPLogger func(http.Handler) http.Handler
	CORS       func(http.Handler) http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}

	r := chi.NewRouter()

	if deps.RequestID != nil {
		r.Use(deps.RequestID)
	}
	if deps.HTTPLogger != nil {
		r.Use(deps.HTTPLogger)
	}
	if deps.CORS != nil {
		r.Use(deps.CORS)
	}

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", deps.Auth.Signup)
		r.Post("/signin", deps.Auth.Signin)
		r.Post("/verify-user", deps.Auth.VerifyUser)
		r.Post("/reset-password", deps.Auth.ResetPassword)

		r.With(deps.AuthMW).Get("/me", deps.Auth.Me)
	})

	return r, nil
}
