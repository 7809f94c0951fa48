/*
Package handler provides the HTTP handlers and routing setup for the Gemhub game server.

This file contains the HandleWebSocket function, which upgrades the HTTP
connection to WebSocket and starts the client session lifecycle.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"gemhub/internal/app/session"
	"gemhub/internal/pkg/logx"
)

// HandleWebSocket creates an HTTP HandlerFunc that upgrades the connection and
// runs the session pumps. All lobby interaction happens over the socket
// afterwards, so no parameters beyond the origin check are required here.
func HandleWebSocket(upgrader websocket.Upgrader, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := session.NewClient(deps.Hub, conn, deps.Dispatcher)
		deps.Hub.Register(client)

		go client.WritePump()

		logx.Info("WebSocket connection established", "connection_id", client.ID())

		client.ReadPump()
	}
}
