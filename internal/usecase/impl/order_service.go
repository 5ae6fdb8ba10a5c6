package impl

import (
	"context"
	"log/slog"
	"time"

	"acharwala/config"
	deliverycontext "acharwala/internal/delivery/context"
	"acharwala/internal/domain/entity"
	domainerrors "acharwala/internal/domain/errors"
	"acharwala/internal/domain/repository"
	"acharwala/internal/domain/service"
	"acharwala/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager      repository.TransactionManager
	orderRepo      repository.OrderRepository
	cartRepo       repository.CartRepository
	productRepo    repository.ProductRepository
	didiRepo       repository.DidiRepository
	userRepo       repository.UserRepository
	publisher      service.EventPublisher
	notifier       service.NotificationService
	shippingCharge decimal.Decimal
	logger         *slog.Logger
}

// OrderServiceParams holds dependencies for orderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	OrderRepo   repository.OrderRepository
	CartRepo    repository.CartRepository
	ProductRepo repository.ProductRepository
	DidiRepo    repository.DidiRepository
	UserRepo    repository.UserRepository
	Publisher   service.EventPublisher
	Notifier    service.NotificationService
	Config      *config.Config
	Logger      *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	shippingCharge := decimal.Zero
	if params.Config != nil && params.Config.Shipping != nil && params.Config.Shipping.DefaultCharge != "" {
		if charge, err := decimal.NewFromString(params.Config.Shipping.DefaultCharge); err == nil {
			shippingCharge = charge
		}
	}

	return &orderService{
		txManager:      params.TxManager,
		orderRepo:      params.OrderRepo,
		cartRepo:       params.CartRepo,
		productRepo:    params.ProductRepo,
		didiRepo:       params.DidiRepo,
		userRepo:       params.UserRepo,
		publisher:      params.Publisher,
		notifier:       params.Notifier,
		shippingCharge: shippingCharge,
		logger:         params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Checkout atomically converts the user's cart into an order. Stock is
// reserved per line with conditional decrements inside the same
// transaction that writes the order, so a failing line rolls back
// every reservation made before it.
func (srv *orderService) Checkout(ctx context.Context, userID uuid.UUID, input usecase.CheckoutInput) (*entity.Order, error) {
	if input.ShippingAddress.IsZero() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("shipping address is required")
	}

	var order *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.NewCartRepository()
		productRepo := repoFactory.NewProductRepository()
		orderRepo := repoFactory.NewOrderRepository()

		cart, err := cartRepo.FindByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrCartNotFound) {
				return domainerrors.ErrCartEmpty
			}

			return errors.Wrap(err, "failed to find cart")
		}
		if cart.IsEmpty() {
			return domainerrors.ErrCartEmpty
		}

		order = entity.NewOrder(userID, input.ShippingAddress, input.BillingAddress, input.PaymentMethod)

		for _, item := range cart.Items {
			product, err := productRepo.FindByID(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, repository.ErrProductNotFound) {
					return domainerrors.ErrProductNotFound.WrapMessage(item.ProductName)
				}

				return errors.Wrap(err, "failed to find product")
			}
			if !product.Available {
				return domainerrors.ErrProductUnavailable.WrapMessage(product.Name)
			}

			if err := productRepo.AdjustStock(ctx, product.ID, -item.Quantity); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					return domainerrors.ErrInsufficientStock.WrapMessage(product.Name)
				}

				return errors.Wrap(err, "failed to reserve stock")
			}

			order.AddItem(entity.NewOrderItemFromCart(order.ID, item, product))
		}

		order.ApplyCharges(decimal.Zero, decimal.Zero, srv.shippingCharge)

		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}

		return cartRepo.DeleteItems(ctx, cart.ID)
	})
	if err != nil {
		srv.log(ctx).Error("Checkout failed", slog.Any("userID", userID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Order placed", slog.Any("orderID", order.ID), slog.String("orderNumber", order.OrderNumber))

	srv.publish(ctx, service.EventOrderPlaced, map[string]string{
		"order_id":     order.ID.String(),
		"order_number": order.OrderNumber,
		"user_id":      userID.String(),
		"final_amount": order.FinalAmount.StringFixed(2),
	})
	srv.notify(ctx, service.TopicAdmins, "New order placed",
		"Order "+order.OrderNumber+" is awaiting confirmation",
		map[string]string{"order_id": order.ID.String()})

	return order, nil
}

// GetOrder retrieves an order the principal is allowed to see.
func (srv *orderService) GetOrder(ctx context.Context, principal entity.Principal, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := srv.authorizeRead(ctx, principal, order); err != nil {
		return nil, err
	}

	return order, nil
}

// GetOrderByNumber retrieves an order by its human-readable reference.
func (srv *orderService) GetOrderByNumber(ctx context.Context, principal entity.Principal, orderNumber string) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	if err := srv.authorizeRead(ctx, principal, order); err != nil {
		return nil, err
	}

	return order, nil
}

// ListMyOrders retrieves the acting customer's orders, newest first.
func (srv *orderService) ListMyOrders(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

// ListOrders retrieves orders matching the filter. Admin only.
func (srv *orderService) ListOrders(ctx context.Context, input usecase.ListOrdersInput) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.List(ctx, repository.OrderFilter{
		Status:        input.Status,
		PaymentStatus: input.PaymentStatus,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

// ListAssignedOrders retrieves orders assigned to the acting SHG Didi
// or delivery agent, depending on their role.
func (srv *orderService) ListAssignedOrders(ctx context.Context, principal entity.Principal) ([]*entity.Order, error) {
	switch principal.Role {
	case entity.RoleSHGDidi:
		profile, err := srv.didiRepo.FindByUserID(ctx, principal.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrDidiProfileNotFound) {
				return nil, domainerrors.ErrDidiProfileNotFound
			}

			return nil, errors.Wrap(err, "failed to find didi profile")
		}

		return srv.orderRepo.ListByAssignedSHG(ctx, profile.ID)
	case entity.RoleDeliveryBoy:
		return srv.orderRepo.ListByDeliveryBoy(ctx, principal.UserID)
	default:
		return nil, domainerrors.ErrForbidden
	}
}

// CancelOrder cancels a not-yet-shipped order, marks the payment
// refunded and restores the reserved stock.
func (srv *orderService) CancelOrder(ctx context.Context, principal entity.Principal, orderID uuid.UUID) (*entity.Order, error) {
	var order *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.NewOrderRepository()
		productRepo := repoFactory.NewProductRepository()

		var err error
		order, err = orderRepo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return domainerrors.ErrOrderNotFound
			}

			return errors.Wrap(err, "failed to find order")
		}

		if !principal.CanAccess(order.UserID) {
			return domainerrors.ErrForbidden
		}
		if !order.IsCancellable() {
			return domainerrors.ErrOrderNotCancellable
		}

		for _, item := range order.Items {
			if err := productRepo.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
				// The product may have been deleted since checkout.
				if errors.Is(err, repository.ErrProductNotFound) {
					continue
				}

				return errors.Wrap(err, "failed to restore stock")
			}
		}

		order.Cancel()

		return srv.updateGuarded(ctx, orderRepo, order)
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Order cancelled", slog.Any("orderID", order.ID))

	srv.publish(ctx, service.EventOrderCancelled, map[string]string{
		"order_id":     order.ID.String(),
		"order_number": order.OrderNumber,
		"user_id":      order.UserID.String(),
	})

	return order, nil
}

// UpdateStatus moves an order along its fulfilment lifecycle. Illegal
// transitions are rejected. Admin only.
func (srv *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, next entity.OrderStatus) (*entity.Order, error) {
	order, err := srv.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, domainerrors.ErrInvalidStatusTransition.
			WrapMessage(string(order.Status) + " -> " + string(next))
	}

	previous := order.Status
	order.Status = next
	order.UpdatedAt = time.Now()

	if err := srv.updateGuarded(ctx, srv.orderRepo, order); err != nil {
		return nil, err
	}

	srv.publish(ctx, service.EventOrderStatusMoved, map[string]string{
		"order_id":     order.ID.String(),
		"order_number": order.OrderNumber,
		"user_id":      order.UserID.String(),
		"from":         string(previous),
		"to":           string(next),
	})
	srv.notify(ctx, service.TopicUserPrefix+order.UserID.String(), "Order update",
		"Order "+order.OrderNumber+" is now "+string(next),
		map[string]string{"order_id": order.ID.String()})

	return order, nil
}

// CompletePayment records a successful payment and confirms the
// order. Settlement callbacks carry the gateway payment reference,
// not the order id.
func (srv *orderService) CompletePayment(ctx context.Context, paymentID string, input usecase.CompletePaymentInput) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByPaymentID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by payment id")
	}
	if order.PaymentStatus != entity.PaymentStatusPending {
		return nil, domainerrors.ErrPaymentAlreadySettled
	}

	order.CompletePayment(input.TransactionID)

	if err := srv.updateGuarded(ctx, srv.orderRepo, order); err != nil {
		return nil, err
	}

	srv.publish(ctx, service.EventPaymentSettled, map[string]string{
		"order_id":       order.ID.String(),
		"order_number":   order.OrderNumber,
		"user_id":        order.UserID.String(),
		"payment_id":     order.PaymentID,
		"payment_status": string(entity.PaymentStatusSuccess),
		"transaction_id": input.TransactionID,
	})

	return order, nil
}

// FailPayment records a failed payment, fails the order and restores
// the reserved stock.
func (srv *orderService) FailPayment(ctx context.Context, paymentID string) (*entity.Order, error) {
	var order *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.NewOrderRepository()
		productRepo := repoFactory.NewProductRepository()

		var err error
		order, err = orderRepo.FindByPaymentID(ctx, paymentID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return domainerrors.ErrOrderNotFound
			}

			return errors.Wrap(err, "failed to find order by payment id")
		}
		if order.PaymentStatus != entity.PaymentStatusPending {
			return domainerrors.ErrPaymentAlreadySettled
		}

		for _, item := range order.Items {
			if err := productRepo.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, repository.ErrProductNotFound) {
					continue
				}

				return errors.Wrap(err, "failed to restore stock")
			}
		}

		order.FailPayment()

		return srv.updateGuarded(ctx, orderRepo, order)
	})
	if err != nil {
		return nil, err
	}

	srv.publish(ctx, service.EventPaymentSettled, map[string]string{
		"order_id":       order.ID.String(),
		"payment_id":     order.PaymentID,
		"payment_status": string(entity.PaymentStatusFailed),
	})

	return order, nil
}

// AssignSHG hands the order to an approved SHG Didi for preparation
// and notifies her. Admin only.
func (srv *orderService) AssignSHG(ctx context.Context, orderID, didiProfileID uuid.UUID) (*entity.Order, error) {
	order, err := srv.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	profile, err := srv.didiRepo.FindByID(ctx, didiProfileID)
	if err != nil {
		if errors.Is(err, repository.ErrDidiProfileNotFound) {
			return nil, domainerrors.ErrDidiProfileNotFound
		}

		return nil, errors.Wrap(err, "failed to find didi profile")
	}
	if !profile.IsApproved() {
		return nil, domainerrors.ErrDidiNotApproved
	}

	order.AssignSHG(profile.ID)

	if err := srv.updateGuarded(ctx, srv.orderRepo, order); err != nil {
		return nil, err
	}

	srv.notify(ctx, service.TopicUserPrefix+profile.UserID.String(), "New order assigned",
		"Order "+order.OrderNumber+" has been assigned to you for preparation",
		map[string]string{"order_id": order.ID.String()})

	return order, nil
}

// AssignDeliveryBoy hands the order to a delivery agent and notifies
// them. Admin only.
func (srv *orderService) AssignDeliveryBoy(ctx context.Context, orderID, deliveryBoyID uuid.UUID) (*entity.Order, error) {
	order, err := srv.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	agent, err := srv.userRepo.FindByID(ctx, deliveryBoyID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find delivery agent")
	}
	if agent.Role != entity.RoleDeliveryBoy {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("user is not a delivery agent")
	}

	order.AssignDeliveryBoy(agent.ID)

	if err := srv.updateGuarded(ctx, srv.orderRepo, order); err != nil {
		return nil, err
	}

	srv.notify(ctx, service.TopicUserPrefix+agent.ID.String(), "New delivery assigned",
		"Order "+order.OrderNumber+" is ready for delivery",
		map[string]string{"order_id": order.ID.String()})

	return order, nil
}

func (srv *orderService) findOrder(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	return order, nil
}

// authorizeRead decides whether the principal may read the order:
// admins always, the owning customer, the assigned delivery agent, and
// the assigned SHG Didi through her profile.
func (srv *orderService) authorizeRead(ctx context.Context, principal entity.Principal, order *entity.Order) error {
	if principal.CanAccess(order.UserID) {
		return nil
	}
	if principal.Role == entity.RoleDeliveryBoy && order.DeliveryBoyID == principal.UserID {
		return nil
	}
	if principal.Role == entity.RoleSHGDidi && order.AssignedSHGID != uuid.Nil {
		profile, err := srv.didiRepo.FindByUserID(ctx, principal.UserID)
		if err == nil && profile.ID == order.AssignedSHGID {
			return nil
		}
	}

	return domainerrors.ErrForbidden
}

// updateGuarded persists an order and maps the optimistic-lock
// conflict onto its domain error.
func (srv *orderService) updateGuarded(ctx context.Context, orderRepo repository.OrderRepository, order *entity.Order) error {
	if err := orderRepo.Update(ctx, order); err != nil {
		if errors.Is(err, repository.ErrOrderVersionConflict) {
			return domainerrors.ErrOrderVersionConflict
		}

		return err
	}

	return nil
}

// publish emits a domain event, tolerating bus failures.
func (srv *orderService) publish(ctx context.Context, eventType string, payload map[string]string) {
	event := &service.DomainEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		Type:       eventType,
		OccurredAt: time.Now(),
		Payload:    payload,
	}
	if err := srv.publisher.Publish(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish event", slog.String("type", eventType), slog.Any("error", err))
	}
}

// notify sends a push notification, tolerating delivery failures.
func (srv *orderService) notify(ctx context.Context, topic, title, body string, data map[string]string) {
	if err := srv.notifier.SendToTopic(ctx, topic, title, body, data); err != nil {
		srv.log(ctx).Warn("Failed to send notification", slog.String("topic", topic), slog.Any("error", err))
	}
}
