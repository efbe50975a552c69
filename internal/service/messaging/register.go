package messaging

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

// Registrar ties the messaging service into the HTTP server.
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the messaging service.
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register mounts the messaging routes, all behind auth.
func (reg *Registrar) Register(r chi.Router, auth server.Middleware) {
	svc := NewService(reg.appCtx)

	r.With(auth).Post("/api/messages", handleSend(svc))
	r.With(auth).Get("/api/conversations/{id}/messages", handleHistory(svc))
}

type sendRequest struct {
	ConversationID uint64 `json:"conversationId"`
	Content        string `json:"content"`
}

func handleSend(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sendRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.RespondError(w, err)
			return
		}

		msg, err := svc.Send(r.Context(), middleware.UserID(r.Context()), req.ConversationID, req.Content)
		if err != nil {
			httputil.RespondError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, map[string]any{"message": msg})
	}
}

func handleHistory(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id == 0 {
			httputil.RespondError(w, apierr.InvalidRequest("conversation id must be a valid id"))
			return
		}

		messages, err := svc.History(r.Context(), middleware.UserID(r.Context()), id)
		if err != nil {
			httputil.RespondError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, map[string]any{"messages": messages})
	}
}
