// Package notification implements the user notification sink: notifications are kept
// until their duration elapses and fanned out to live subscribers (the websocket stream).
package notification

import (
	"sort"
	"sync"
	"time"

	"alph_dashboard/internal/domain/entity"
	"alph_dashboard/internal/pkg/metrics"

	evbus "github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const topicNotification = "notification:new"

// Hub implements port.NotificationSink and port.NotificationFeed.
type Hub struct {
	store           *cache.Cache // id -> entity.Notification, expires after DurationMs
	bus             evbus.Bus
	logger          *zap.Logger
	defaultDuration time.Duration

	mu          sync.RWMutex
	subscribers map[string]func(entity.Notification)
}

// NewHub creates a hub. defaultDuration applies to notifications that do not set DurationMs.
func NewHub(defaultDuration time.Duration, logger *zap.Logger) *Hub {
	if defaultDuration <= 0 {
		defaultDuration = entity.DefaultNotificationDurationMs * time.Millisecond
	}
	h := &Hub{
		store:           cache.New(cache.NoExpiration, time.Second),
		bus:             evbus.New(),
		logger:          logger.Named("NotificationHub"),
		defaultDuration: defaultDuration,
		subscribers:     make(map[string]func(entity.Notification)),
	}

	// Handlers never fail, so Subscribe only errors on a non-func argument.
	_ = h.bus.Subscribe(topicNotification, h.record)
	_ = h.bus.Subscribe(topicNotification, h.log)
	_ = h.bus.Subscribe(topicNotification, h.dispatch)
	return h
}

// Notify implements port.NotificationSink.
func (h *Hub) Notify(n entity.Notification) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.DurationMs <= 0 {
		n.DurationMs = h.defaultDuration.Milliseconds()
	}
	if n.Severity == "" {
		n.Severity = entity.SeverityInfo
	}
	h.bus.Publish(topicNotification, n)
}

func (h *Hub) record(n entity.Notification) {
	h.store.Set(n.ID, n, time.Duration(n.DurationMs)*time.Millisecond)
	metrics.Notifications.WithLabelValues(string(n.Severity)).Inc()
}

func (h *Hub) log(n entity.Notification) {
	fields := []zap.Field{
		zap.String("id", n.ID),
		zap.String("title", n.Title),
		zap.String("description", n.Description),
		zap.String("severity", string(n.Severity)),
	}
	if n.Severity == entity.SeverityError {
		h.logger.Warn("Notification", fields...)
		return
	}
	h.logger.Info("Notification", fields...)
}

func (h *Hub) dispatch(n entity.Notification) {
	h.mu.RLock()
	handlers := make([]func(entity.Notification), 0, len(h.subscribers))
	for _, fn := range h.subscribers {
		handlers = append(handlers, fn)
	}
	h.mu.RUnlock()

	for _, fn := range handlers {
		fn(n)
	}
}

// Active returns the notifications that have not been dismissed or expired, oldest first.
func (h *Hub) Active() []entity.Notification {
	items := h.store.Items()
	out := make([]entity.Notification, 0, len(items))
	for _, item := range items {
		if n, ok := item.Object.(entity.Notification); ok {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Dismiss removes a notification before it expires.
func (h *Hub) Dismiss(id string) bool {
	if _, ok := h.store.Get(id); !ok {
		return false
	}
	h.store.Delete(id)
	return true
}

// Subscribe registers handler for every new notification. handler runs on the
// publisher's goroutine and must not block.
func (h *Hub) Subscribe(handler func(entity.Notification)) (func(), error) {
	id := uuid.NewString()
	h.mu.Lock()
	h.subscribers[id] = handler
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subscribers, id)
		h.mu.Unlock()
	}, nil
}
