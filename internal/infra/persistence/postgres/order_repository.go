package postgres

import (
	"context"

	"acharwala/internal/domain/entity"
	domainerrors "acharwala/internal/domain/errors"
	"acharwala/internal/domain/repository"
	"acharwala/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// orderRepository implements the repository.OrderRepository interface.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{
		db: db,
	}
}

// FindByID retrieves a single order with its items.
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel

	if err := repo.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by id")
	}

	return toOrderDomain(&orderM), nil
}

// FindByOrderNumber retrieves a single order by its human-readable reference.
func (repo *orderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	var orderM model.OrderModel

	if err := repo.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", orderNumber).
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by order number")
	}

	return toOrderDomain(&orderM), nil
}

// FindByPaymentID retrieves a single order by its gateway payment reference.
func (repo *orderRepository) FindByPaymentID(ctx context.Context, paymentID string) (*entity.Order, error) {
	var orderM model.OrderModel

	if err := repo.db.WithContext(ctx).
		Preload("Items").
		Where("payment_id = ?", paymentID).
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by payment id")
	}

	return toOrderDomain(&orderM), nil
}

// ListByUser retrieves a customer's orders, newest first.
func (repo *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	return repo.list(ctx, repo.db.WithContext(ctx).Where("user_id = ?", userID), "failed to list orders by user")
}

// List retrieves orders matching the filter, newest first.
func (repo *orderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	query := repo.db.WithContext(ctx)
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", string(filter.PaymentStatus))
	}

	return repo.list(ctx, query, "failed to list orders")
}

// ListByAssignedSHG retrieves orders assigned to an SHG Didi.
func (repo *orderRepository) ListByAssignedSHG(ctx context.Context, shgID uuid.UUID) ([]*entity.Order, error) {
	return repo.list(ctx, repo.db.WithContext(ctx).Where("assigned_shg_id = ?", shgID), "failed to list orders by assigned shg")
}

// ListByDeliveryBoy retrieves orders assigned to a delivery agent.
func (repo *orderRepository) ListByDeliveryBoy(ctx context.Context, deliveryBoyID uuid.UUID) ([]*entity.Order, error) {
	return repo.list(ctx, repo.db.WithContext(ctx).Where("delivery_boy_id = ?", deliveryBoyID), "failed to list orders by delivery boy")
}

func (repo *orderRepository) list(_ context.Context, query *gorm.DB, wrapMsg string) ([]*entity.Order, error) {
	var orderModels []*model.OrderModel

	if err := query.
		Preload("Items").
		Order("order_date DESC").
		Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	orders := make([]*entity.Order, 0, len(orderModels))
	for _, orderM := range orderModels {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders, nil
}

// Create persists a new order together with its items.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("order number already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	return nil
}

// Update persists order changes guarded by the optimistic version
// counter. The row is only written when the stored version still
// matches the version that was read; a zero row count means a
// concurrent writer won and the caller must re-read and retry.
func (repo *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)
	readVersion := orderM.Version
	orderM.Version = readVersion + 1

	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ? AND version = ?", orderM.ID, readVersion).
		Select("*").
		Omit("id", "order_number", "user_id", "order_date", "Items").
		Updates(orderM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderVersionConflict
	}

	order.Version = readVersion + 1

	return nil
}

// --- Mapper Functions ---

// toOrderDomain converts a GORM OrderModel to a domain Order entity.
func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	items := make([]entity.OrderItem, 0, len(data.Items))
	for _, itemM := range data.Items {
		items = append(items, entity.OrderItem{
			ID:                 itemM.ID,
			OrderID:            itemM.OrderID,
			ProductID:          itemM.ProductID,
			ProductName:        itemM.ProductName,
			ProductDescription: itemM.ProductDescription,
			UnitPrice:          itemM.UnitPrice,
			Quantity:           itemM.Quantity,
			OilType:            itemM.OilType,
			Ingredients:        itemM.Ingredients,
			DiscountAmount:     itemM.DiscountAmount,
			TotalPrice:         itemM.TotalPrice,
			CustomizationNotes: itemM.CustomizationNotes,
			ImageURL:           itemM.ImageURL,
		})
	}

	order := &entity.Order{
		ID:             data.ID,
		OrderNumber:    data.OrderNumber,
		UserID:         data.UserID,
		Status:         entity.OrderStatus(data.Status),
		PaymentStatus:  entity.PaymentStatus(data.PaymentStatus),
		TotalAmount:    data.TotalAmount,
		DiscountAmount: data.DiscountAmount,
		TaxAmount:      data.TaxAmount,
		ShippingCharge: data.ShippingCharge,
		FinalAmount:    data.FinalAmount,
		ShippingAddress: entity.Address{
			StreetAddress: data.ShippingStreetAddress,
			City:          data.ShippingCity,
			State:         data.ShippingState,
			PostalCode:    data.ShippingPostalCode,
			Country:       data.ShippingCountry,
			Landmark:      data.ShippingLandmark,
			ContactNumber: data.ShippingContactNumber,
			RecipientName: data.ShippingRecipientName,
		},
		BillingAddress: entity.Address{
			StreetAddress: data.BillingStreetAddress,
			City:          data.BillingCity,
			State:         data.BillingState,
			PostalCode:    data.BillingPostalCode,
			Country:       data.BillingCountry,
			Landmark:      data.BillingLandmark,
			ContactNumber: data.BillingContactNumber,
			RecipientName: data.BillingRecipientName,
		},
		PaymentMethod: data.PaymentMethod,
		PaymentID:     data.PaymentID,
		TransactionID: data.TransactionID,
		Items:         items,
		Version:       data.Version,
		OrderDate:     data.OrderDate,
		UpdatedAt:     data.UpdatedAt,
	}

	if data.AssignedSHGID != nil {
		order.AssignedSHGID = *data.AssignedSHGID
	}
	if data.DeliveryBoyID != nil {
		order.DeliveryBoyID = *data.DeliveryBoyID
	}

	return order
}

// fromOrderDomain converts a domain Order entity to a GORM OrderModel.
func fromOrderDomain(data *entity.Order) *model.OrderModel {
	if data == nil {
		return nil
	}

	items := make([]model.OrderItemModel, 0, len(data.Items))
	for _, item := range data.Items {
		items = append(items, model.OrderItemModel{
			ID:                 item.ID,
			OrderID:            data.ID,
			ProductID:          item.ProductID,
			ProductName:        item.ProductName,
			ProductDescription: item.ProductDescription,
			UnitPrice:          item.UnitPrice,
			Quantity:           item.Quantity,
			OilType:            item.OilType,
			Ingredients:        item.Ingredients,
			DiscountAmount:     item.DiscountAmount,
			TotalPrice:         item.TotalPrice,
			CustomizationNotes: item.CustomizationNotes,
			ImageURL:           item.ImageURL,
		})
	}

	orderM := &model.OrderModel{
		ID:             data.ID,
		OrderNumber:    data.OrderNumber,
		UserID:         data.UserID,
		Status:         string(data.Status),
		PaymentStatus:  string(data.PaymentStatus),
		PaymentMethod:  data.PaymentMethod,
		PaymentID:      data.PaymentID,
		TransactionID:  data.TransactionID,
		TotalAmount:    data.TotalAmount,
		DiscountAmount: data.DiscountAmount,
		TaxAmount:      data.TaxAmount,
		ShippingCharge: data.ShippingCharge,
		FinalAmount:    data.FinalAmount,

		ShippingStreetAddress: data.ShippingAddress.StreetAddress,
		ShippingCity:          data.ShippingAddress.City,
		ShippingState:         data.ShippingAddress.State,
		ShippingPostalCode:    data.ShippingAddress.PostalCode,
		ShippingCountry:       data.ShippingAddress.Country,
		ShippingLandmark:      data.ShippingAddress.Landmark,
		ShippingContactNumber: data.ShippingAddress.ContactNumber,
		ShippingRecipientName: data.ShippingAddress.RecipientName,

		BillingStreetAddress: data.BillingAddress.StreetAddress,
		BillingCity:          data.BillingAddress.City,
		BillingState:         data.BillingAddress.State,
		BillingPostalCode:    data.BillingAddress.PostalCode,
		BillingCountry:       data.BillingAddress.Country,
		BillingLandmark:      data.BillingAddress.Landmark,
		BillingContactNumber: data.BillingAddress.ContactNumber,
		BillingRecipientName: data.BillingAddress.RecipientName,

		Items:     items,
		Version:   data.Version,
		OrderDate: data.OrderDate,
		UpdatedAt: data.UpdatedAt,
	}

	if data.AssignedSHGID != uuid.Nil {
		shgID := data.AssignedSHGID
		orderM.AssignedSHGID = &shgID
	}
	if data.DeliveryBoyID != uuid.Nil {
		deliveryBoyID := data.DeliveryBoyID
		orderM.DeliveryBoyID = &deliveryBoyID
	}

	return orderM
}
