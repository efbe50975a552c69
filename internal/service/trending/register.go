package trending

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harrygamon/Socials/internal/app"
	"github.com/harrygamon/Socials/internal/httputil"
	"github.com/harrygamon/Socials/internal/server"
)

// Registrar ties the trending service into the HTTP server.
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the trending service.
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register mounts the trending route. A pure read, public.
func (reg *Registrar) Register(r chi.Router, _ server.Middleware) {
	svc := NewService(reg.appCtx)
	r.Get("/api/posts/trending", handleTrending(svc))
}

func handleTrending(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		window, err := ParseWindow(r.URL.Query().Get("date"))
		if err != nil {
			httputil.RespondError(w, err)
			return
		}
		contentType, err := ParseContentType(r.URL.Query().Get("contentType"))
		if err != nil {
			httputil.RespondError(w, err)
			return
		}

		posts, err := svc.Rank(r.Context(), window, contentType)
		if err != nil {
			httputil.RespondError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, map[string]any{"posts": posts})
	}
}
