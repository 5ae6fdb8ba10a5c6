package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"acharwala/internal/domain/entity"
	"acharwala/internal/domain/repository"
	"acharwala/internal/domain/service"
	"acharwala/internal/infra/persistence/postgres"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var errInvalidStubToken = errors.New("unknown token")

// newTestDB opens a private in-memory database with the full schema.
// The pool is pinned to a single connection because every sqlite
// in-memory connection is its own database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, postgres.AutoMigrate(db))

	return db
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestUser persists a verified, active account and returns it.
func createTestUser(t *testing.T, userRepo repository.UserRepository, email string, role entity.Role) *entity.User {
	t.Helper()

	user := entity.NewUser("Test User", email, "9999999999", "hashed:secret", role)
	user.EmailVerified = true
	require.NoError(t, userRepo.Create(context.Background(), user))

	return user
}

// --- Stub services ---

// stubHasher hashes by prefixing, which keeps assertions readable.
type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (stubHasher) Check(password, hash string) bool { return "hashed:"+password == hash }

// stubTokenService issues opaque tokens and remembers the claims it
// minted for them, which is all the auth flows need.
type stubTokenService struct {
	mu     sync.Mutex
	claims map[string]*service.Claims
}

func newStubTokenService() *stubTokenService {
	return &stubTokenService{claims: make(map[string]*service.Claims)}
}

func (s *stubTokenService) GenerateTokens(userID uuid.UUID, roles []string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	access := "access-" + uuid.NewString()
	refresh := "refresh-" + uuid.NewString()
	s.claims[access] = &service.Claims{UserID: userID, Roles: roles, Type: "access"}
	s.claims[refresh] = &service.Claims{UserID: userID, Type: "refresh"}

	return access, refresh, nil
}

func (s *stubTokenService) ValidateToken(tokenString string) (*service.Claims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	claims, ok := s.claims[tokenString]
	if !ok {
		return nil, errInvalidStubToken
	}

	return claims, nil
}

func (s *stubTokenService) GetRefreshTokenDuration() time.Duration { return time.Hour }

// stubMailer records the last code sent to each address.
type stubMailer struct {
	mu    sync.Mutex
	codes map[string]string
	sent  int
}

func newStubMailer() *stubMailer {
	return &stubMailer{codes: make(map[string]string)}
}

func (m *stubMailer) SendOTP(_ context.Context, to, _, code, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[to] = code
	m.sent++

	return nil
}

func (m *stubMailer) lastCode(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.codes[to]
}

// stubPublisher collects published events for assertions.
type stubPublisher struct {
	mu     sync.Mutex
	events []*service.DomainEvent
}

func (p *stubPublisher) Publish(_ context.Context, event *service.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)

	return nil
}

func (p *stubPublisher) Close() error { return nil }

func (p *stubPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	types := make([]string, 0, len(p.events))
	for _, event := range p.events {
		types = append(types, event.Type)
	}

	return types
}

// stubNotifier collects sent notifications for assertions.
type sentNotification struct {
	Topic string
	Title string
	Body  string
}

type stubNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *stubNotifier) SendToTopic(_ context.Context, topic, title, body string, _ map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{Topic: topic, Title: title, Body: body})

	return nil
}

func (n *stubNotifier) topics() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	topics := make([]string, 0, len(n.sent))
	for _, notification := range n.sent {
		topics = append(topics, notification.Topic)
	}

	return topics
}

// stubStorage pretends to store objects under /uploads/.
type stubStorage struct {
	mu    sync.Mutex
	saved []string
}

func (s *stubStorage) Save(_ context.Context, fileName, _ string, content io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, content); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, fileName)

	return "/uploads/" + fileName, nil
}

func (s *stubStorage) Delete(_ context.Context, _ string) error { return nil }

// stubQRService returns a fixed payload instead of a real PNG.
type stubQRService struct{}

func (stubQRService) GeneratePNG(_ string) ([]byte, error) { return []byte("png-bytes"), nil }
