package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Middleware is a standard http middleware.
type Middleware = func(http.Handler) http.Handler

// Registrar is a common interface for all HTTP service registrars.
// Each service mounts its own routes, wrapping the ones that need a
// resolved caller identity in the auth middleware it receives.
type Registrar interface {
	Register(r chi.Router, auth Middleware)
}
