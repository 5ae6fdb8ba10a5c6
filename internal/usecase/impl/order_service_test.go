package impl

import (
	"context"
	"testing"

	"acharwala/config"
	"acharwala/internal/domain/entity"
	domainerrors "acharwala/internal/domain/errors"
	"acharwala/internal/domain/repository"
	"acharwala/internal/infra/persistence/postgres"
	"acharwala/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	svc         usecase.OrderUsecase
	cartSvc     usecase.CartUsecase
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	didiRepo    repository.DidiRepository
	publisher   *stubPublisher
	notifier    *stubNotifier
	customer    *entity.User
	ctx         context.Context
}

var testShippingAddress = entity.Address{
	StreetAddress: "12 Market Road",
	City:          "Ranchi",
	State:         "Jharkhand",
	PostalCode:    "834001",
	Country:       "India",
	ContactNumber: "9876543210",
	RecipientName: "Sunita Devi",
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	db := newTestDB(t)
	userRepo := postgres.NewUserRepository(db)
	productRepo := postgres.NewProductRepository(db)
	didiRepo := postgres.NewDidiRepository(db)
	cartRepo := postgres.NewCartRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	publisher := &stubPublisher{}
	notifier := &stubNotifier{}

	cfg := &config.Config{Shipping: &config.ShippingConfig{DefaultCharge: "50"}}

	svc := NewOrderService(OrderServiceParams{
		TxManager:   postgres.NewTransactionManager(db),
		OrderRepo:   orderRepo,
		CartRepo:    cartRepo,
		ProductRepo: productRepo,
		DidiRepo:    didiRepo,
		UserRepo:    userRepo,
		Publisher:   publisher,
		Notifier:    notifier,
		Config:      cfg,
		Logger:      newTestLogger(),
	})

	cartSvc := NewCartService(CartServiceParams{
		CartRepo:    cartRepo,
		ProductRepo: productRepo,
		Logger:      newTestLogger(),
	})

	return &orderFixture{
		svc:         svc,
		cartSvc:     cartSvc,
		userRepo:    userRepo,
		productRepo: productRepo,
		didiRepo:    didiRepo,
		publisher:   publisher,
		notifier:    notifier,
		customer:    createTestUser(t, userRepo, "customer@example.com", entity.RoleCustomer),
		ctx:         context.Background(),
	}
}

func (f *orderFixture) createProduct(t *testing.T, name string, price int64, stock int) *entity.Product {
	t.Helper()

	product := entity.NewProduct(name, "Achar", "Gram Vikas SHG", decimal.NewFromInt(price), stock)
	require.NoError(t, f.productRepo.Create(f.ctx, product))

	return product
}

func (f *orderFixture) addToCart(t *testing.T, userID uuid.UUID, product *entity.Product, quantity int) {
	t.Helper()

	_, err := f.cartSvc.AddItem(f.ctx, userID, usecase.AddCartItemInput{ProductID: product.ID, Quantity: quantity})
	require.NoError(t, err)
}

func (f *orderFixture) checkout(t *testing.T, userID uuid.UUID) *entity.Order {
	t.Helper()

	order, err := f.svc.Checkout(f.ctx, userID, usecase.CheckoutInput{
		ShippingAddress: testShippingAddress,
		PaymentMethod:   "UPI",
	})
	require.NoError(t, err)

	return order
}

func (f *orderFixture) stockOf(t *testing.T, productID uuid.UUID) int {
	t.Helper()

	product, err := f.productRepo.FindByID(f.ctx, productID)
	require.NoError(t, err)

	return product.StockQuantity
}

func TestOrderService_Checkout(t *testing.T) {
	f := newOrderFixture(t)
	mango := f.createProduct(t, "Mango Pickle", 250, 10)
	papad := f.createProduct(t, "Masala Papad", 80, 5)
	f.addToCart(t, f.customer.ID, mango, 2)
	f.addToCart(t, f.customer.ID, papad, 1)

	order := f.checkout(t, f.customer.ID)

	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Equal(t, entity.PaymentStatusPending, order.PaymentStatus)
	assert.Len(t, order.Items, 2)
	assert.True(t, decimal.NewFromInt(580).Equal(order.TotalAmount), "got %s", order.TotalAmount)
	assert.True(t, decimal.NewFromInt(630).Equal(order.FinalAmount), "got %s", order.FinalAmount)
	assert.NotEmpty(t, order.OrderNumber)
	// Billing falls back to shipping when not provided.
	assert.Equal(t, testShippingAddress, order.BillingAddress)

	assert.Equal(t, 8, f.stockOf(t, mango.ID))
	assert.Equal(t, 4, f.stockOf(t, papad.ID))

	cart, err := f.cartSvc.GetCart(f.ctx, f.customer.ID)
	require.NoError(t, err)
	assert.True(t, cart.Cart.IsEmpty())

	assert.Contains(t, f.publisher.eventTypes(), "order.placed")
	assert.Contains(t, f.notifier.topics(), "admins")
}

func TestOrderService_CheckoutEmptyCart(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.Checkout(f.ctx, f.customer.ID, usecase.CheckoutInput{
		ShippingAddress: testShippingAddress,
		PaymentMethod:   "UPI",
	})
	assert.ErrorIs(t, err, domainerrors.ErrCartEmpty)
}

func TestOrderService_CheckoutRequiresShippingAddress(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.Checkout(f.ctx, f.customer.ID, usecase.CheckoutInput{PaymentMethod: "UPI"})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestOrderService_CheckoutRollsBackOnInsufficientStock(t *testing.T) {
	f := newOrderFixture(t)
	mango := f.createProduct(t, "Mango Pickle", 250, 5)
	scarce := f.createProduct(t, "Scarce Chutney", 120, 3)
	f.addToCart(t, f.customer.ID, mango, 2)
	f.addToCart(t, f.customer.ID, scarce, 3)

	// Someone else buys the scarce jars between carting and checkout.
	require.NoError(t, f.productRepo.AdjustStock(f.ctx, scarce.ID, -2))

	_, err := f.svc.Checkout(f.ctx, f.customer.ID, usecase.CheckoutInput{
		ShippingAddress: testShippingAddress,
		PaymentMethod:   "UPI",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientStock)

	// The mango reservation made before the failing line was rolled back.
	assert.Equal(t, 5, f.stockOf(t, mango.ID))
	assert.Equal(t, 1, f.stockOf(t, scarce.ID))

	// The cart is untouched so the user can fix it and retry.
	cart, err := f.cartSvc.GetCart(f.ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Cart.Items, 2)
}

func TestOrderService_CancelRestoresStock(t *testing.T) {
	f := newOrderFixture(t)
	mango := f.createProduct(t, "Mango Pickle", 250, 10)
	f.addToCart(t, f.customer.ID, mango, 4)
	order := f.checkout(t, f.customer.ID)
	require.Equal(t, 6, f.stockOf(t, mango.ID))

	principal := entity.Principal{UserID: f.customer.ID, Role: entity.RoleCustomer}
	cancelled, err := f.svc.CancelOrder(f.ctx, principal, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, entity.PaymentStatusRefunded, cancelled.PaymentStatus)
	assert.Equal(t, 10, f.stockOf(t, mango.ID))
	assert.Contains(t, f.publisher.eventTypes(), "order.cancelled")

	// A cancelled order cannot be cancelled again.
	_, err = f.svc.CancelOrder(f.ctx, principal, order.ID)
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotCancellable)
}

func TestOrderService_CancelDeniedForOtherCustomer(t *testing.T) {
	f := newOrderFixture(t)
	mango := f.createProduct(t, "Mango Pickle", 250, 10)
	f.addToCart(t, f.customer.ID, mango, 1)
	order := f.checkout(t, f.customer.ID)

	stranger := createTestUser(t, f.userRepo, "stranger@example.com", entity.RoleCustomer)
	_, err := f.svc.CancelOrder(f.ctx, entity.Principal{UserID: stranger.ID, Role: entity.RoleCustomer}, order.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestOrderService_CancelRejectedAfterShipping(t *testing.T) {
	f := newOrderFixture(t)
	mango := f.createProduct(t, "Mango Pickle", 250, 10)
	f.addToCart(t, f.customer.ID, mango, 1)
	order := f.checkout(t, f.customer.ID)

	_, err := f.svc.UpdateStatus(f.ctx, order.ID, entity.OrderStatusShipped)
	require.NoError(t, err)

	principal := entity.Principal{UserID: f.customer.ID, Role: entity.RoleCustomer}
	_, err = f.svc.CancelOrder(f.ctx, principal, order.ID)
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotCancellable)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	f := newOrderFixture(t)
	mango := f.createProduct(t, "Mango Pickle", 250, 10)
	f.addToCart(t, f.customer.ID, mango, 1)
	order := f.checkout(t, f.customer.ID)

	updated, err := f.svc.UpdateStatus(f.ctx, order.ID, entity.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusConfirmed, updated.Status)
	assert.Contains(t, f.publisher.eventTypes(), "order.status_changed")
	assert.Contains(t, f.notifier.topics(), "user-"+f.customer.ID.String())

	// Backward moves are illegal.
	_, err = f.svc.UpdateStatus(f.ctx, order.ID, entity.OrderStatusPending)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidStatusTransition)

	// Forward moves may skip stages.
	updated, err = f.svc.UpdateStatus(f.ctx, order.ID, entity.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDelivered, updated.Status)

	// Delivered is terminal.
	_, err = f.svc.UpdateStatus(f.ctx, order.ID, entity.OrderStatusShipped)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidStatusTransition)
}

func TestOrderService_CompletePayment(t *testing.T) {
	f := newOrderFixture(t)
	mango := f.createProduct(t, "Mango Pickle", 250, 10)
	f.addToCart(t, f.customer.ID, mango, 1)
	order := f.checkout(t, f.customer.ID)

	// Checkout issued the payment reference the gateway settles against.
	require.NotEmpty(t, order.PaymentID)

	paid, err := f.svc.CompletePayment(f.ctx, order.PaymentID, usecase.CompletePaymentInput{
		TransactionID: "txn_456",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusSuccess, paid.PaymentStatus)
	assert.Equal(t, entity.OrderStatusConfirmed, paid.Status)
	assert.Equal(t, order.ID, paid.ID)
	assert.Equal(t, "txn_456", paid.TransactionID)
	assert.Contains(t, f.publisher.eventTypes(), "payment.settled")

	_, err = f.svc.CompletePayment(f.ctx, order.PaymentID, usecase.CompletePaymentInput{TransactionID: "txn_789"})
	assert.ErrorIs(t, err, domainerrors.ErrPaymentAlreadySettled)

	_, err = f.svc.CompletePayment(f.ctx, "PAY-2026-deadbeef", usecase.CompletePaymentInput{})
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
}

func TestOrderService_FailPaymentRestoresStock(t *testing.T) {
	f := newOrderFixture(t)
	mango := f.createProduct(t, "Mango Pickle", 250, 10)
	f.addToCart(t, f.customer.ID, mango, 3)
	order := f.checkout(t, f.customer.ID)
	require.Equal(t, 7, f.stockOf(t, mango.ID))

	failed, err := f.svc.FailPayment(f.ctx, order.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusFailed, failed.PaymentStatus)
	assert.Equal(t, entity.OrderStatusFailed, failed.Status)
	assert.Equal(t, 10, f.stockOf(t, mango.ID))
}

func TestOrderService_AssignSHG(t *testing.T) {
	f := newOrderFixture(t)
	mango := f.createProduct(t, "Mango Pickle", 250, 10)
	f.addToCart(t, f.customer.ID, mango, 1)
	order := f.checkout(t, f.customer.ID)

	didiUser := createTestUser(t, f.userRepo, "didi@example.com", entity.RoleSHGDidi)
	profile := entity.NewDidiProfile(didiUser.ID, "123412341234", 23.36, 85.33, "Ranchi")
	require.NoError(t, f.didiRepo.Create(f.ctx, profile))

	// A pending application cannot take orders.
	_, err := f.svc.AssignSHG(f.ctx, order.ID, profile.ID)
	assert.ErrorIs(t, err, domainerrors.ErrDidiNotApproved)

	profile.Approve()
	require.NoError(t, f.didiRepo.Update(f.ctx, profile))

	assigned, err := f.svc.AssignSHG(f.ctx, order.ID, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, assigned.AssignedSHGID)
	assert.Equal(t, entity.OrderStatusProcessing, assigned.Status)
	assert.Contains(t, f.notifier.topics(), "user-"+didiUser.ID.String())

	// The Didi now sees the order in her assignment list.
	orders, err := f.svc.ListAssignedOrders(f.ctx, entity.Principal{UserID: didiUser.ID, Role: entity.RoleSHGDidi})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}

func TestOrderService_AssignDeliveryBoy(t *testing.T) {
	f := newOrderFixture(t)
	mango := f.createProduct(t, "Mango Pickle", 250, 10)
	f.addToCart(t, f.customer.ID, mango, 1)
	order := f.checkout(t, f.customer.ID)

	agent := createTestUser(t, f.userRepo, "agent@example.com", entity.RoleDeliveryBoy)
	assigned, err := f.svc.AssignDeliveryBoy(f.ctx, order.ID, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, agent.ID, assigned.DeliveryBoyID)
	assert.Equal(t, entity.OrderStatusOutForDelivery, assigned.Status)

	orders, err := f.svc.ListAssignedOrders(f.ctx, entity.Principal{UserID: agent.ID, Role: entity.RoleDeliveryBoy})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	// Only delivery agents can be assigned.
	_, err = f.svc.AssignDeliveryBoy(f.ctx, order.ID, f.customer.ID)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestOrderService_ReadScoping(t *testing.T) {
	f := newOrderFixture(t)
	mango := f.createProduct(t, "Mango Pickle", 250, 10)
	f.addToCart(t, f.customer.ID, mango, 1)
	order := f.checkout(t, f.customer.ID)

	owner := entity.Principal{UserID: f.customer.ID, Role: entity.RoleCustomer}
	got, err := f.svc.GetOrder(f.ctx, owner, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	byNumber, err := f.svc.GetOrderByNumber(f.ctx, owner, order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.ID, byNumber.ID)

	stranger := createTestUser(t, f.userRepo, "stranger@example.com", entity.RoleCustomer)
	_, err = f.svc.GetOrder(f.ctx, entity.Principal{UserID: stranger.ID, Role: entity.RoleCustomer}, order.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	admin := entity.Principal{UserID: uuid.New(), Role: entity.RoleAdmin}
	_, err = f.svc.GetOrder(f.ctx, admin, order.ID)
	require.NoError(t, err)

	mine, err := f.svc.ListMyOrders(f.ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestOrderService_ListOrdersFilter(t *testing.T) {
	f := newOrderFixture(t)
	mango := f.createProduct(t, "Mango Pickle", 250, 10)
	f.addToCart(t, f.customer.ID, mango, 1)
	first := f.checkout(t, f.customer.ID)

	f.addToCart(t, f.customer.ID, mango, 1)
	second := f.checkout(t, f.customer.ID)

	_, err := f.svc.UpdateStatus(f.ctx, second.ID, entity.OrderStatusConfirmed)
	require.NoError(t, err)

	pending, err := f.svc.ListOrders(f.ctx, usecase.ListOrdersInput{Status: entity.OrderStatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)

	all, err := f.svc.ListOrders(f.ctx, usecase.ListOrdersInput{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
