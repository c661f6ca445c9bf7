package websocket

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/derdine/forum-service/internal/utils/jwt"
	"github.com/derdine/forum-service/internal/utils/response"
	wsClient "github.com/derdine/forum-service/internal/websocket"
)

// WebSocketHandler upgrades to the realtime event stream
// @Summary Subscribe to forum events
// @Description Streams thread.liked, reply.created and reply.liked events addressed to the user. Pass a session token; userId is only honoured when authorization is not enforced.
// @Tags events
// @Param token query string false "Session token from login"
// @Param userId query string false "User ID (development only)"
// @Success 101 "Switching Protocols"
// @Failure 401 {object} response.Response "Unauthorized"
// @Router /ws [get]
func WebSocketHandler(hub *wsClient.Hub, jwtSecret string, allowUserID bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var userID string

		if token := r.URL.Query().Get("token"); token != "" {
			subject, err := jwt.ExtractUserIDFromToken(token, jwtSecret)
			if err != nil {
				slog.Warn("WebSocket connection attempted with invalid token", slog.String("error", err.Error()))
				response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("Invalid token")))
				return
			}
			userID = subject
		} else if allowUserID {
			userID = r.URL.Query().Get("userId")
		}

		if userID == "" {
			slog.Warn("WebSocket connection attempted without identity")
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("Token required")))
			return
		}

		conn, err := wsClient.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("Failed to upgrade WebSocket connection", slog.String("error", err.Error()))
			return
		}

		wsClient.NewClient(conn, userID, hub).Start()

		slog.Info("WebSocket connection established", slog.String("user_id", userID))
	}
}
