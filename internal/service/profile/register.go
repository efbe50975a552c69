package profile

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/harrygamon/Socials/internal/app"
	apierr "github.com/harrygamon/Socials/internal/errors"
	"github.com/harrygamon/Socials/internal/httputil"
	"github.com/harrygamon/Socials/internal/middleware"
	"github.com/harrygamon/Socials/internal/server"
)

// Registrar ties the profile service into the HTTP server.
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the profile service.
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register mounts the profile routes. Public profiles are readable by
// anyone; /me requires the caller's identity.
func (reg *Registrar) Register(r chi.Router, auth server.Middleware) {
	svc := NewService(reg.appCtx)

	r.With(auth).Get("/api/users/me", handleMe(svc))
	r.With(auth).Patch("/api/users/me", handleUpdate(svc))
	r.Get("/api/users/{id}", handleGet(svc))
}

func handleMe(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := svc.Me(r.Context(), middleware.UserID(r.Context()))
		if err != nil {
			httputil.RespondError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, map[string]any{"user": user})
	}
}

func handleUpdate(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var edit Edit
		if err := httputil.DecodeJSON(r, &edit); err != nil {
			httputil.RespondError(w, err)
			return
		}

		user, err := svc.Update(r.Context(), middleware.UserID(r.Context()), edit)
		if err != nil {
			httputil.RespondError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, map[string]any{"user": user})
	}
}

func handleGet(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id == 0 {
			httputil.RespondError(w, apierr.InvalidRequest("user id must be a valid id"))
			return
		}

		user, err := svc.Get(r.Context(), id)
		if err != nil {
			httputil.RespondError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, map[string]any{"user": user})
	}
}
