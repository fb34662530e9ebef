package restapi

import (
	"net/http"
	"time"

	"alph_dashboard/internal/app/port"
	"alph_dashboard/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	streamBuffer = 32
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
)

// NotificationHandler serves the notification list and its websocket stream.
type NotificationHandler struct {
	feed     port.NotificationFeed
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewNotificationHandler creates a new instance of NotificationHandler. checkOrigin may be nil to accept any origin.
func NewNotificationHandler(feed port.NotificationFeed, checkOrigin func(r *http.Request) bool, logger *zap.Logger) *NotificationHandler {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &NotificationHandler{
		feed: feed,
		upgrader: websocket.Upgrader{
			CheckOrigin:     checkOrigin,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.Named("NotificationStream"),
	}
}

// List handles GET /api/v1/notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": h.feed.Active()})
}

// Dismiss handles DELETE /api/v1/notifications/:id.
func (h *NotificationHandler) Dismiss(c *gin.Context) {
	if !h.feed.Dismiss(c.Param("id")) {
		c.AbortWithStatusJSON(http.StatusNotFound, APIErrorResponse{Error: "notification not found", Code: "not_found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Stream handles GET /api/v1/notifications/ws. Active notifications are replayed first, then
// every new one is pushed as a JSON text frame. A slow client loses messages rather than
// blocking the publisher.
func (h *NotificationHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket connection", zap.Error(err))
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			h.logger.Debug("Closing WebSocket connection failed", zap.Error(err))
		}
	}()

	out := make(chan entity.Notification, streamBuffer)
	unsubscribe, err := h.feed.Subscribe(func(n entity.Notification) {
		select {
		case out <- n:
		default:
			h.logger.Warn("Notification stream buffer full, dropping message", zap.String("id", n.ID))
		}
	})
	if err != nil {
		h.logger.Error("Failed to subscribe to notifications", zap.Error(err))
		return
	}
	defer unsubscribe()

	remote := conn.RemoteAddr().String()
	h.logger.Info("WebSocket connection established", zap.String("remote_addr", remote))

	// The reader only detects the peer going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Warn("WebSocket connection closed unexpectedly", zap.Error(err))
				}
				return
			}
		}
	}()

	for _, n := range h.feed.Active() {
		if err := h.write(conn, n); err != nil {
			return
		}
	}

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			h.logger.Info("WebSocket connection closed", zap.String("remote_addr", remote))
			return
		case <-c.Request.Context().Done():
			return
		case n := <-out:
			if err := h.write(conn, n); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *NotificationHandler) write(conn *websocket.Conn, n entity.Notification) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(n); err != nil {
		h.logger.Debug("Failed to write notification", zap.String("id", n.ID), zap.Error(err))
		return err
	}
	return nil
}
