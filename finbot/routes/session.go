package routes

import (
	"encoding/json"
	"net/http"

	"finbot/finbot/config"
	"finbot/finbot/controllers"
	"finbot/finbot/middlewares"

	"github.com/go-chi/chi/v5"
)

func SessionRoutes(ctrl *controllers.SessionController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares.AuthMiddleware(cfg))

	// GET /sessions/new : start a new conversation thread
	r.Get("/new", func(w http.ResponseWriter, r *http.Request) {
		providerID := r.Context().Value(middlewares.ProviderIDKey).(string)
		session, err := ctrl.CreateSession(r.Context(), providerID)
		if err != nil {
			writeError(w, err)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "New Session Created",
			"session": session,
		})
	})

	// GET /sessions : list the caller's sessions
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		providerID := r.Context().Value(middlewares.ProviderIDKey).(string)
		sessions, err := ctrl.ListSessions(r.Context(), providerID)
		if err != nil {
			writeError(w, err)
			return
		}
		json.NewEncoder(w).Encode(sessions)
	})

	// DELETE /sessions : wipe the caller's sessions and turns
	r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
		providerID := r.Context().Value(middlewares.ProviderIDKey).(string)
		if err := ctrl.DeleteAllSessionsForUser(r.Context(), providerID); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}
