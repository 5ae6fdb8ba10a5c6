package service

import (
	"context"
)

// Topics for role-scoped push notifications.
const (
	TopicAdmins       = "admins"
	TopicSHGDidis     = "shg-didis"
	TopicDeliveryBoys = "delivery-boys"
	TopicUserPrefix   = "user-" // per-user topic, suffixed with the user ID
)

// NotificationService defines the interface for push notification services
type NotificationService interface {
	// SendToTopic sends a push notification to every device subscribed to the topic.
	SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error
}
