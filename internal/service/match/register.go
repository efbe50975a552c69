package match

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harrygamon/Socials/internal/app"
	apierr "github.com/harrygamon/Socials/internal/errors"
	"github.com/harrygamon/Socials/internal/httputil"
	"github.com/harrygamon/Socials/internal/middleware"
	"github.com/harrygamon/Socials/internal/server"
)

// Registrar ties the match service into the HTTP server.
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the match service.
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register mounts the match routes. Every match operation acts as the
// caller, so the whole group sits behind auth.
func (reg *Registrar) Register(r chi.Router, auth server.Middleware) {
	svc := NewService(reg.appCtx)

	r.Route("/api/match", func(r chi.Router) {
		r.Use(auth)
		r.Post("/action", handleAction(svc))
		r.Get("/potential", handlePotential(svc))
		r.Get("/list", handleList(svc))
	})
}

type actionRequest struct {
	ToUserID uint64 `json:"toUserId"`
	Liked    *bool  `json:"liked"`
}

func handleAction(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req actionRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.RespondError(w, err)
			return
		}
		if req.Liked == nil {
			httputil.RespondError(w, apierr.InvalidRequest("liked is required"))
			return
		}

		result, err := svc.RecordAction(r.Context(), middleware.UserID(r.Context()), req.ToUserID, *req.Liked)
		if err != nil {
			httputil.RespondError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, result)
	}
}

func handlePotential(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles, err := svc.PotentialTargets(r.Context(), middleware.UserID(r.Context()))
		if err != nil {
			httputil.RespondError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, profiles)
	}
}

func handleList(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := svc.Matches(r.Context(), middleware.UserID(r.Context()))
		if err != nil {
			httputil.RespondError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, map[string]any{"matches": matches})
	}
}
