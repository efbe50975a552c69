package engagement

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

// Registrar ties the engagement service into the HTTP server.
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the engagement service.
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register mounts the engagement routes. Reading comments is public;
// liking and commenting require a caller identity. Routes are registered
// flat because several services share the /api/posts prefix.
func (reg *Registrar) Register(r chi.Router, auth server.Middleware) {
	svc := NewService(reg.appCtx)

	r.Get("/api/posts/{id}/comment", handleListComments(svc))
	r.Get("/api/posts/{id}/likes", handleLikeCount(svc))
	r.With(auth).Post("/api/posts/{id}/like", handleToggleLike(svc))
	r.With(auth).Post("/api/posts/{id}/comment", handleAddComment(svc))
}

func postIDFromURL(r *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apierr.InvalidRequest("post id must be a valid id")
	}
	return id, nil
}

func handleToggleLike(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := postIDFromURL(r)
		if err != nil {
			httputil.RespondError(w, err)
			return
		}

		result, err := svc.ToggleLike(r.Context(), middleware.UserID(r.Context()), postID)
		if err != nil {
			httputil.RespondError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, result)
	}
}

type addCommentRequest struct {
	Content string `json:"content"`
}

func handleAddComment(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := postIDFromURL(r)
		if err != nil {
			httputil.RespondError(w, err)
			return
		}

		var req addCommentRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.RespondError(w, err)
			return
		}

		comment, err := svc.AddComment(r.Context(), middleware.UserID(r.Context()), postID, req.Content)
		if err != nil {
			httputil.RespondError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, map[string]any{"comment": comment})
	}
}

func handleLikeCount(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := postIDFromURL(r)
		if err != nil {
			httputil.RespondError(w, err)
			return
		}

		count, err := svc.LikeCount(r.Context(), postID)
		if err != nil {
			httputil.RespondError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, map[string]any{"likeCount": count})
	}
}

func handleListComments(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := postIDFromURL(r)
		if err != nil {
			httputil.RespondError(w, err)
			return
		}

		comments, err := svc.Comments(r.Context(), postID)
		if err != nil {
			httputil.RespondError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, map[string]any{"comments": comments})
	}
}
