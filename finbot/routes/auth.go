package routes

import (
	"encoding/json"
	"net/http"

	"finbot/finbot/controllers"
	"finbot/finbot/utils/types"

	"github.com/go-chi/chi/v5"
)

func AuthRoutes(ctrl *controllers.AuthController) chi.Router {
	r := chi.NewRouter()

	// POST /auth/login : JWT for a provisioned user
	r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
		var req types.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		token, err := ctrl.Login(r.Context(), req.Username)
		if err != nil {
			writeError(w, err)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": token})
	})

	return r
}
