package routes

import (
	"encoding/json"
	"net/http"

	"finbot/finbot/config"
	"finbot/finbot/controllers"
	"finbot/finbot/middlewares"
	"finbot/finbot/utils/types"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func ChatRoutes(ctrl *controllers.ChatController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		// POST /chat/{session_id} : ask a query in a session
		gr.Post("/{session_id}", func(w http.ResponseWriter, r *http.Request) {
			sessionID, err := uuid.Parse(chi.URLParam(r, "session_id"))
			if err != nil {
				http.Error(w, "invalid session id", http.StatusBadRequest)
				return
			}
			var req types.ChatRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			providerID := r.Context().Value(middlewares.ProviderIDKey).(string)
			answer, err := ctrl.AskQuery(r.Context(), providerID, sessionID, req.Query)
			if err != nil {
				writeError(w, err)
				return
			}
			json.NewEncoder(w).Encode(answer)
		})

		// GET /chat/{session_id}/messages : all turns for a session
		gr.Get("/{session_id}/messages", func(w http.ResponseWriter, r *http.Request) {
			sessionID, err := uuid.Parse(chi.URLParam(r, "session_id"))
			if err != nil {
				http.Error(w, "invalid session id", http.StatusBadRequest)
				return
			}
			turns, err := ctrl.GetAllChatsForSession(r.Context(), sessionID)
			if err != nil {
				writeError(w, err)
				return
			}
			json.NewEncoder(w).Encode(turns)
		})

		// DELETE /chat/{session_id}/messages : clear turns and reset summary
		gr.Delete("/{session_id}/messages", func(w http.ResponseWriter, r *http.Request) {
			sessionID, err := uuid.Parse(chi.URLParam(r, "session_id"))
			if err != nil {
				http.Error(w, "invalid session id", http.StatusBadRequest)
				return
			}
			if err := ctrl.DeleteAllChatsForSession(r.Context(), sessionID); err != nil {
				writeError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})

	// Websocket variant: one query in, one answer out. Token travels in the
	// first message since browsers can't set headers on websocket upgrades.
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		ctx := r.Context()
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			conn.Close(websocket.StatusUnsupportedData, "unsupported data")
			return
		}
		var input struct {
			Token     string `json:"token"`
			SessionID string `json:"session_id"`
			Query     string `json:"query"`
		}
		if err := json.Unmarshal(data, &input); err != nil {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid json"}`))
			return
		}

		token, err := jwt.Parse(input.Token, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid token"}`))
			conn.Close(websocket.StatusPolicyViolation, "invalid token")
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid claims"}`))
			conn.Close(websocket.StatusPolicyViolation, "invalid claims")
			return
		}
		providerID, ok := claims["provider_id"].(string)
		if !ok {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid provider_id"}`))
			conn.Close(websocket.StatusPolicyViolation, "invalid provider_id")
			return
		}
		sessionID, err := uuid.Parse(input.SessionID)
		if err != nil {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid session id"}`))
			return
		}

		answer, err := ctrl.AskQuery(ctx, providerID, sessionID, input.Query)
		if err != nil {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"`+err.Error()+`"}`))
			conn.Close(websocket.StatusInternalError, "query error")
			return
		}
		payload, _ := json.Marshal(answer)
		conn.Write(ctx, websocket.MessageText, payload)
		conn.Close(websocket.StatusNormalClosure, "")
	})
	return r
}
