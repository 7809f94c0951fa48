/*
Package handler provides the HTTP handlers and routing setup for the Gemhub game server.

This file defines the main Router, applying middleware like logging and CORS
before delegating requests to the health, lobby listing, and WebSocket handlers.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"gemhub/internal/app/lobby"
	"gemhub/internal/pkg/logx"
	"gemhub/internal/pkg/resp"
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It configures CORS against the allowed-origin list and applies global middleware.
func Router(deps *AppDeps) http.Handler {
	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "Gemhub Game Server",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Get("/rooms", HandleListRooms(deps))

	r.Get("/ws", HandleWebSocket(wsUpgrader, deps))

	return r
}

// roomListing is the JSON shape of one room on the lobby listing endpoint.
type roomListing struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Status      lobby.RoomStatus `json:"status"`
	MemberCount int              `json:"memberCount"`
	Capacity    int              `json:"capacity"`
}

// HandleListRooms returns a point-in-time snapshot of all open rooms.
func HandleListRooms(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms := deps.Registry.AllRooms()

		listings := make([]roomListing, 0, len(rooms))
		for _, room := range rooms {
			listings = append(listings, roomListing{
				ID:          room.ID.String(),
				Name:        room.Name,
				Status:      room.Status,
				MemberCount: room.MemberCount(),
				Capacity:    lobby.RoomCapacity,
			})
		}

		resp.RespondSuccess(w, r, map[string]any{
			"rooms": listings,
		})
	}
}
