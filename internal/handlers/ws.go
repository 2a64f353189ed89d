package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hackhub-dev/hackhub/internal/apierr"
	"github.com/hackhub-dev/hackhub/internal/services"
	"github.com/hackhub-dev/hackhub/internal/types"
	"github.com/hackhub-dev/hackhub/internal/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// RankingsHub pushes leaderboard updates to clients watching a hackathon.
// A refresh is broadcast whenever a jury member submits a final evaluation.
type RankingsHub struct {
	logger      *zap.SugaredLogger
	evaluations *services.EvaluationService

	mu      sync.RWMutex
	clients map[uint]map[*websocket.Conn]bool
}

func NewRankingsHub(logger *zap.SugaredLogger, evaluations *services.EvaluationService) *RankingsHub {
	return &RankingsHub{
		logger:      logger,
		evaluations: evaluations,
		clients:     make(map[uint]map[*websocket.Conn]bool),
	}
}

// Broadcast recomputes the hackathon's rankings and pushes them to every
// connected client.
func (hub *RankingsHub) Broadcast(hackathonID uint) {
	hub.mu.RLock()
	clients, exists := hub.clients[hackathonID]
	if !exists || len(clients) == 0 {
		hub.mu.RUnlock()
		return
	}

	// Copy so the lock is not held while writing to sockets
	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	hub.mu.RUnlock()

	rankings, err := hub.evaluations.Rankings(hackathonID)

	if err != nil {
		hub.logger.Errorw("failed to compute rankings for broadcast", "hackathonID", hackathonID, "err", err)
		return
	}

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			hub.logger.Warnw("failed to set write deadline for broadcast", "err", err)
			continue
		}

		err := conn.WriteJSON(gin.H{
			"type":         "refresh",
			"hackathon_id": hackathonID,
			"rankings":     rankings,
		})

		if err != nil {
			hub.logger.Warnw("failed to broadcast rankings", "hackathonID", hackathonID, "err", err)
			hub.remove(hackathonID, conn)
			conn.Close()
		}
	}
}

// Serve upgrades the request and streams ranking refreshes for one hackathon
// until the client goes away.
func (hub *RankingsHub) Serve(ctx *gin.Context) {
	hackathonID, err := utils.GetHackathonID(ctx)

	if err != nil {
		apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.BadRequest)
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		hub.logger.Warnw("websocket upgrade failed", "err", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		hub.logger.Warnw("failed to set initial read deadline", "err", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	hub.mu.Lock()
	if hub.clients[hackathonID] == nil {
		hub.clients[hackathonID] = make(map[*websocket.Conn]bool)
	}
	hub.clients[hackathonID][conn] = true
	hub.mu.Unlock()

	defer func() {
		hub.remove(hackathonID, conn)
		conn.Close()

		hub.logger.Debugw("websocket connection closed", "hackathonID", hackathonID)
	}()

	// Initial snapshot so clients render without a separate fetch
	rankings, err := hub.evaluations.Rankings(hackathonID)

	if err != nil {
		hub.logger.Warnw("failed to compute initial rankings", "hackathonID", hackathonID, "err", err)
		return
	}

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return
	}

	err = conn.WriteJSON(gin.H{
		"type":         "connected",
		"hackathon_id": hackathonID,
		"rankings":     rankings,
	})

	if err != nil {
		hub.logger.Warnw("failed to send rankings snapshot", "hackathonID", hackathonID, "err", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			break
		}

		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				hub.logger.Warnw("websocket error", "hackathonID", hackathonID, "err", err)
			}
			break
		}
	}
}

func (hub *RankingsHub) remove(hackathonID uint, conn *websocket.Conn) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	if clients, exists := hub.clients[hackathonID]; exists {
		delete(clients, conn)

		if len(clients) == 0 {
			delete(hub.clients, hackathonID)
		}
	}
}
