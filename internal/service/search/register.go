package search

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/harrygamon/Socials/internal/app"
	apierr "github.com/harrygamon/Socials/internal/errors"
	"github.com/harrygamon/Socials/internal/httputil"
	"github.com/harrygamon/Socials/internal/server"
	"github.com/harrygamon/Socials/internal/service/trending"
)

// Registrar ties the search service into the HTTP server.
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the search service.
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register mounts the search route. A pure read, public.
func (reg *Registrar) Register(r chi.Router, _ server.Middleware) {
	svc := NewService(reg.appCtx)
	r.Get("/api/search", handleSearch(svc))
}

func handleSearch(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		query := params.Get("query")

		switch kind := params.Get("type"); kind {
		case "", "user":
			filter := UserFilter{
				Gender:   params.Get("gender"),
				Location: params.Get("location"),
			}
			if v := params.Get("ageMin"); v != "" {
				n, err := strconv.Atoi(v)
				if err != nil {
					httputil.RespondError(w, apierr.InvalidRequest("ageMin must be a number"))
					return
				}
				filter.AgeMin = n
			}
			if v := params.Get("ageMax"); v != "" {
				n, err := strconv.Atoi(v)
				if err != nil {
					httputil.RespondError(w, apierr.InvalidRequest("ageMax must be a number"))
					return
				}
				filter.AgeMax = n
			}

			results, err := svc.Users(r.Context(), query, filter)
			if err != nil {
				httputil.RespondError(w, err)
				return
			}
			httputil.RespondJSON(w, http.StatusOK, map[string]any{"results": results})

		case "post":
			window, err := trending.ParseWindow(params.Get("date"))
			if err != nil {
				httputil.RespondError(w, err)
				return
			}
			contentType, err := trending.ParseContentType(params.Get("contentType"))
			if err != nil {
				httputil.RespondError(w, err)
				return
			}

			results, err := svc.Posts(r.Context(), query, window, contentType)
			if err != nil {
				httputil.RespondError(w, err)
				return
			}
			httputil.RespondJSON(w, http.StatusOK, map[string]any{"results": results})

		default:
			httputil.RespondError(w, apierr.InvalidRequest("type must be user or post"))
		}
	}
}
