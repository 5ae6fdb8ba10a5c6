package postgres

import (
	"context"
	"testing"

	"acharwala/internal/domain/entity"
	"acharwala/internal/domain/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))

	return db
}

func newTestOrder(t *testing.T, repo repository.OrderRepository) *entity.Order {
	t.Helper()

	address := entity.Address{
		StreetAddress: "12 Bazaar Road",
		City:          "Ranchi",
		State:         "Jharkhand",
		PostalCode:    "834001",
		Country:       "India",
		ContactNumber: "+919876543210",
		RecipientName: "Asha Kumari",
	}

	order := entity.NewOrder(uuid.New(), address, entity.Address{}, "COD")
	order.TotalAmount = decimal.NewFromInt(500)
	order.FinalAmount = decimal.NewFromInt(550)
	require.NoError(t, repo.Create(context.Background(), order))

	return order
}

func TestOrderRepository_UpdateBumpsVersion(t *testing.T) {
	repo := NewOrderRepository(newRepoTestDB(t))
	ctx := context.Background()

	order := newTestOrder(t, repo)
	assert.Equal(t, int64(0), order.Version)

	order.CompletePayment("txn_001")
	require.NoError(t, repo.Update(ctx, order))
	assert.Equal(t, int64(1), order.Version)

	stored, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version)
	assert.Equal(t, entity.OrderStatusConfirmed, stored.Status)
	assert.Equal(t, "txn_001", stored.TransactionID)
}

func TestOrderRepository_FindByPaymentID(t *testing.T) {
	repo := NewOrderRepository(newRepoTestDB(t))
	ctx := context.Background()

	order := newTestOrder(t, repo)
	newTestOrder(t, repo)

	found, err := repo.FindByPaymentID(ctx, order.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	assert.Equal(t, order.OrderNumber, found.OrderNumber)

	_, err = repo.FindByPaymentID(ctx, "PAY-2026-deadbeef")
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestOrderRepository_UpdateRejectsStaleVersion(t *testing.T) {
	repo := NewOrderRepository(newRepoTestDB(t))
	ctx := context.Background()

	order := newTestOrder(t, repo)

	first, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)

	first.CompletePayment("txn_001")
	require.NoError(t, repo.Update(ctx, first))

	second.Status = entity.OrderStatusCancelled
	err = repo.Update(ctx, second)
	assert.ErrorIs(t, err, repository.ErrOrderVersionConflict)

	// A fresh read picks up the winning write and can retry.
	retry, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusConfirmed, retry.Status)
	retry.Cancel()
	require.NoError(t, repo.Update(ctx, retry))
	assert.Equal(t, int64(2), retry.Version)
}

func TestOrderRepository_UpdateKeepsImmutableColumns(t *testing.T) {
	repo := NewOrderRepository(newRepoTestDB(t))
	ctx := context.Background()

	order := newTestOrder(t, repo)
	originalNumber := order.OrderNumber
	originalUser := order.UserID

	order.OrderNumber = "ORD-0000-tamper"
	order.UserID = uuid.New()
	require.NoError(t, repo.Update(ctx, order))

	stored, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, originalNumber, stored.OrderNumber)
	assert.Equal(t, originalUser, stored.UserID)
}
