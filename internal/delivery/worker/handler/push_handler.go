package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"acharwala/config"
	deliverycontext "acharwala/internal/delivery/context"
	"acharwala/internal/domain/constants"
	"acharwala/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// retryableError wraps an error to indicate it should trigger a Pub/Sub retry
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *retryableError) Unwrap() error {
	return e.err
}

func newRetryableError(err error) error {
	return &retryableError{err: err}
}

func isRetryableError(err error) bool {
	var re *retryableError

	return errors.As(err, &re)
}

// PushHandler consumes domain events pushed by Pub/Sub and fans them
// out as push notifications to the affected topics.
type PushHandler struct {
	verifyPushAuth  bool
	logger          *slog.Logger
	notificationSvc service.NotificationService
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config          *config.Config
	Logger          *slog.Logger
	NotificationSvc service.NotificationService
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	// Push auth is only enforced for the Google provider outside development
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	return &PushHandler{
		verifyPushAuth:  verifyPushAuth,
		logger:          params.Logger,
		notificationSvc: params.NotificationSvc,
	}
}

// HandlePush handles incoming Pub/Sub push messages
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	var event service.DomainEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("[Worker] Failed to parse domain event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	requestID := h.extractRequestID(ctx, &pushMsg, &event)
	reqLogger := h.logger.With(slog.String("request_id", requestID))
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	reqLogger.Info("[Worker] Processing domain event", slog.String("type", event.Type))

	if err := h.processEvent(ctx, &event); err != nil {
		reqLogger.Error("[Worker] Failed to process domain event",
			slog.String("type", event.Type),
			slog.Any("error", err),
			slog.Bool("retryable", isRetryableError(err)),
		)
		// 503 triggers a Pub/Sub redelivery; anything else is dropped
		// deliberately to avoid infinite retries on bad payloads.
		if isRetryableError(err) {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	return c.NoContent(http.StatusOK)
}

// extractRequestID extracts request_id from message attributes, event, or generates a new one
func (h *PushHandler) extractRequestID(ctx context.Context, pushMsg *PubSubMessage, event *service.DomainEvent) string {
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}
	if event.RequestID != "" {
		return event.RequestID
	}
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// processEvent routes a domain event to the interested push topics.
func (h *PushHandler) processEvent(ctx context.Context, event *service.DomainEvent) error {
	title, body, topics := h.fanout(event)
	if len(topics) == 0 {
		deliverycontext.GetLoggerOrDefault(ctx, h.logger).Info("[Worker] Event has no subscribers",
			slog.String("type", event.Type))

		return nil
	}

	for _, topic := range topics {
		if err := h.notificationSvc.SendToTopic(ctx, topic, title, body, event.Payload); err != nil {
			return newRetryableError(errors.WithStack(err))
		}
	}

	return nil
}

// fanout maps an event type to the notification content and the topics
// that should hear about it.
func (h *PushHandler) fanout(event *service.DomainEvent) (title, body string, topics []string) {
	orderNumber := event.Payload["order_number"]
	userTopic := ""
	if userID := event.Payload["user_id"]; userID != "" {
		userTopic = service.TopicUserPrefix + userID
	}

	switch event.Type {
	case service.EventOrderPlaced:
		return "New order", fmt.Sprintf("Order %s has been placed", orderNumber),
			[]string{service.TopicAdmins}
	case service.EventOrderCancelled:
		return "Order cancelled", fmt.Sprintf("Order %s has been cancelled", orderNumber),
			[]string{service.TopicAdmins}
	case service.EventOrderStatusMoved:
		if userTopic == "" {
			return "", "", nil
		}

		return "Order update", fmt.Sprintf("Order %s is now %s", orderNumber, event.Payload["to"]),
			[]string{userTopic}
	case service.EventPaymentSettled:
		if userTopic == "" {
			return "", "", nil
		}

		return "Payment received", fmt.Sprintf("Payment for order %s was received", orderNumber),
			[]string{userTopic}
	case service.EventDidiApplied:
		return "New Didi application", "A new SHG Didi onboarding application was submitted",
			[]string{service.TopicAdmins}
	case service.EventDidiApproved:
		if userTopic == "" {
			return "", "", nil
		}

		return "Application approved", "Your SHG Didi application has been approved",
			[]string{userTopic}
	case service.EventDidiRejected:
		if userTopic == "" {
			return "", "", nil
		}

		return "Application update", "Your SHG Didi application was not approved",
			[]string{userTopic}
	case service.EventTrainingCompleted:
		return "Training completed", "A Didi has completed the training curriculum",
			[]string{service.TopicAdmins}
	default:
		return "", "", nil
	}
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// The audience must match the URL of this push endpoint.
	scheme := "https"
	if req.TLS == nil {
		scheme = "http" // For local development
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	ctx := req.Context()
	payload, err := idtoken.Validate(ctx, token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
