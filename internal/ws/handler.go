// Package ws serves the per-user notification websocket.
package ws

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/notify"
)

type Preferences interface {
	Enabled(ctx context.Context, userID int64) (bool, error)
}

type Handler struct {
	prefs    Preferences
	pubsub   notify.PubSub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewHandler(prefs Preferences, pubsub notify.PubSub, logger *zap.Logger) *Handler {
	return &Handler{
		prefs:  prefs,
		pubsub: pubsub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// ServeHTTP joins the connection to the user's group. Users with notifications disabled are
// refused before the upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(r)["user_id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	enabled, err := h.prefs.Enabled(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to check notification preference", zap.Int64("user_id", userID), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !enabled {
		http.Error(w, "notifications disabled", http.StatusForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", zap.Int64("user_id", userID), zap.Error(err))
		return
	}

	c := newClient(conn, h.pubsub, userID, h.logger)
	h.pubsub.Subscribe(userID, c)
	metrics.WebsocketConnections.Inc()
	h.logger.Debug("Notification connection opened", zap.Int64("user_id", userID))

	go c.writePump()
	go c.readPump()
}
