package port

import "alph_dashboard/internal/domain/entity"

// NotificationSink surfaces user-visible messages.
type NotificationSink interface {
	Notify(n entity.Notification)
}

// NotificationFeed is the read side of the notification hub.
type NotificationFeed interface {
	Active() []entity.Notification
	Dismiss(id string) bool
	Subscribe(handler func(entity.Notification)) (unsubscribe func(), err error)
}
