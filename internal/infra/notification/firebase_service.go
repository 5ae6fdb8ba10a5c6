package notification

import (
	"context"
	"fmt"
	"log/slog"

	"acharwala/config"
	"acharwala/internal/domain/service"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

type firebaseService struct {
	client *messaging.Client
}

// noopService is used when Firebase is not configured; pushes are
// logged and dropped so the rest of the system stays functional.
type noopService struct {
	logger *slog.Logger
}

func (s *noopService) SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error {
	s.logger.Debug("push notifications disabled, dropping message",
		slog.String("topic", topic),
		slog.String("title", title),
	)

	return nil
}

// NewNotificationService creates the push notification service. With no
// Firebase configuration it degrades to a logging no-op.
func NewNotificationService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.NotificationService, error) {
	if cfg.Firebase == nil || cfg.Firebase.CredentialsPath == "" {
		logger.Info("Firebase not configured, push notifications disabled")

		return &noopService{logger: logger}, nil
	}

	opt := option.WithCredentialsFile(cfg.Firebase.CredentialsPath)
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID}, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	return &firebaseService{
		client: client,
	}, nil
}

// SendToTopic sends a push notification to every device subscribed to the topic.
func (s *firebaseService) SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error {
	message := &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := s.client.Send(ctx, message); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	return nil
}
