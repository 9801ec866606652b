package routes

import (
	"encoding/json"
	"io"
	"net/http"

	"finbot/finbot/controllers"
	"finbot/finbot/utils/types"

	"github.com/go-chi/chi/v5"
)

func WebhookRoutes(ctrl *controllers.WebhookController) chi.Router {
	r := chi.NewRouter()

	// POST /webhooks/clerk : identity-provider user lifecycle events
	r.Post("/clerk", func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := ctrl.VerifySignature(
			payload,
			r.Header.Get("svix-id"),
			r.Header.Get("svix-timestamp"),
			r.Header.Get("svix-signature"),
		); err != nil {
			http.Error(w, "Webhook verification failed!", http.StatusBadRequest)
			return
		}

		var evt types.UserEvent
		if err := json.Unmarshal(payload, &evt); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := ctrl.HandleEvent(r.Context(), evt); err != nil {
			writeError(w, err)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "Webhook received"})
	})

	return r
}
