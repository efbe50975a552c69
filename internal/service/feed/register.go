package feed

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

// Registrar ties the feed service into the HTTP server.
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the feed service.
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register mounts the feed routes. Reads are public; creating and
// deleting require the caller's identity. Flat registration because the
// /api/posts prefix is shared with engagement and trending.
func (reg *Registrar) Register(r chi.Router, auth server.Middleware) {
	svc := NewService(reg.appCtx)

	r.Get("/api/posts", handleList(svc))
	r.Get("/api/posts/{id}", handleGet(svc))
	r.With(auth).Post("/api/posts", handleCreate(svc))
	r.With(auth).Delete("/api/posts/{id}", handleDelete(svc))
}

type createPostRequest struct {
	Content string   `json:"content"`
	Images  []string `json:"images"`
}

func handleCreate(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPostRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.RespondError(w, err)
			return
		}

		post, err := svc.CreatePost(r.Context(), middleware.UserID(r.Context()), req.Content, req.Images)
		if err != nil {
			httputil.RespondError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, map[string]any{"post": post})
	}
}

func handleGet(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := postIDFromURL(r)
		if err != nil {
			httputil.RespondError(w, err)
			return
		}

		post, err := svc.GetPost(r.Context(), id)
		if err != nil {
			httputil.RespondError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, map[string]any{"post": post})
	}
}

func handleList(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		var cursor *string
		if c := r.URL.Query().Get("cursor"); c != "" {
			cursor = &c
		}

		page, err := svc.ListPosts(r.Context(), cursor, limit)
		if err != nil {
			httputil.RespondError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, page)
	}
}

func handleDelete(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := postIDFromURL(r)
		if err != nil {
			httputil.RespondError(w, err)
			return
		}

		if err := svc.DeletePost(r.Context(), middleware.UserID(r.Context()), id); err != nil {
			httputil.RespondError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

func postIDFromURL(r *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apierr.InvalidRequest("post id must be a valid id")
	}
	return id, nil
}
