package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cargolink/freight-service/internal/middleware"
	"github.com/cargolink/freight-service/internal/socket"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

type WSHandler struct {
	logger   *slog.Logger
	hub      *socket.Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(logger *slog.Logger, hub *socket.Hub) *WSHandler {
	return &WSHandler{
		logger: logger.With(slog.String("handler", "ws")),
		hub:    hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *WSHandler) Init(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Actor)
		r.Get("/ws", h.Serve)
	})
}

// Serve upgrades the request and keeps the connection registered in the hub
// until the client goes away. The read loop only services control frames;
// notifications flow one way, server to client.
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("upgrade failed", slog.Any("error", err))
		return
	}

	h.hub.Register(actor.UserID, conn)
	defer func() {
		h.hub.Unregister(actor.UserID, conn)
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}
