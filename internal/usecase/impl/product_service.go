package impl

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"acharwala/config"
	deliverycontext "acharwala/internal/delivery/context"
	"acharwala/internal/domain/entity"
	domainerrors "acharwala/internal/domain/errors"
	"acharwala/internal/domain/repository"
	"acharwala/internal/domain/service"
	"acharwala/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// productService implements the ProductUsecase interface.
type productService struct {
	productRepo repository.ProductRepository
	qrService   service.QRCodeService
	storage     service.FileStorage
	baseURL     string
	logger      *slog.Logger
}

// ProductServiceParams holds dependencies for productService, injected by Fx.
type ProductServiceParams struct {
	fx.In

	ProductRepo repository.ProductRepository
	QRService   service.QRCodeService
	Storage     service.FileStorage
	Config      *config.Config
	Logger      *slog.Logger
}

// NewProductService is the constructor for productService.
func NewProductService(params ProductServiceParams) usecase.ProductUsecase {
	baseURL := ""
	if params.Config != nil {
		baseURL = strings.TrimRight(params.Config.HTTP.BaseURL, "/")
	}

	return &productService{
		productRepo: params.ProductRepo,
		qrService:   params.QRService,
		storage:     params.Storage,
		baseURL:     baseURL,
		logger:      params.Logger,
	}
}

func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetProduct retrieves a single catalogue product.
func (srv *productService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	return product, nil
}

// ListProducts retrieves catalogue products matching the filter, newest first.
func (srv *productService) ListProducts(ctx context.Context, input usecase.ListProductsInput) ([]*entity.Product, error) {
	products, err := srv.productRepo.List(ctx, repository.ProductFilter{
		Category:      input.Category,
		Brand:         input.Brand,
		Search:        input.Search,
		OnlyAvailable: input.OnlyAvailable,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

// CreateProduct lists a new product and generates its traceability QR code.
func (srv *productService) CreateProduct(ctx context.Context, input usecase.CreateProductInput) (*entity.Product, error) {
	if input.StockQuantity < 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("stock quantity cannot be negative")
	}

	product := entity.NewProduct(input.Name, input.Category, input.Brand, input.Price, input.StockQuantity)
	product.Description = input.Description
	product.Discount = input.Discount
	product.OilType = input.OilType
	product.Ingredients = input.Ingredients
	product.ManufacturingDate = input.ManufacturingDate
	product.ExpiryDate = input.ExpiryDate

	if err := product.Validate(); err != nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage(err.Error())
	}

	if url, err := srv.generateTraceabilityQR(ctx, product); err != nil {
		// QR generation is best effort; the product page works without it.
		srv.log(ctx).Warn("Failed to generate product QR code", slog.Any("productID", product.ID), slog.Any("error", err))
	} else {
		product.QRCodeURL = url
	}

	if err := srv.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Product listed", slog.Any("productID", product.ID), slog.String("name", product.Name))

	return product, nil
}

// UpdateProduct modifies an existing product.
func (srv *productService) UpdateProduct(ctx context.Context, id uuid.UUID, input usecase.UpdateProductInput) (*entity.Product, error) {
	product, err := srv.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.StockQuantity < 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("stock quantity cannot be negative")
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Category = input.Category
	product.Brand = input.Brand
	product.Price = input.Price
	product.Discount = input.Discount
	product.OilType = input.OilType
	product.Ingredients = input.Ingredients
	product.ManufacturingDate = input.ManufacturingDate
	product.ExpiryDate = input.ExpiryDate
	product.StockQuantity = input.StockQuantity
	product.Available = input.Available && input.StockQuantity > 0

	if err := product.Validate(); err != nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage(err.Error())
	}

	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct removes a product from the catalogue.
func (srv *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := srv.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return domainerrors.ErrProductNotFound
		}

		return errors.Wrap(err, "failed to delete product")
	}

	srv.log(ctx).Info("Product removed", slog.Any("productID", id))

	return nil
}

// UploadProductImage stores a product image and records its URL.
func (srv *productService) UploadProductImage(ctx context.Context, id uuid.UUID, upload usecase.UploadFileInput) (*entity.Product, error) {
	product, err := srv.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := srv.storage.Save(ctx, upload.FileName, upload.ContentType, upload.Content)
	if err != nil {
		return nil, errors.Wrap(err, "failed to store product image")
	}

	if product.ImageURL != "" {
		if err := srv.storage.Delete(ctx, product.ImageURL); err != nil {
			srv.log(ctx).Warn("Failed to remove previous product image", slog.Any("productID", id), slog.Any("error", err))
		}
	}

	product.ImageURL = url
	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// AdjustStock changes a product's stock by delta, which may be negative.
func (srv *productService) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	err := srv.productRepo.AdjustStock(ctx, id, delta)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return domainerrors.ErrProductNotFound
		}
		if errors.Is(err, repository.ErrInsufficientStock) {
			return domainerrors.ErrInsufficientStock
		}

		return errors.Wrap(err, "failed to adjust stock")
	}

	return nil
}

// generateTraceabilityQR encodes the public product page URL into a PNG
// and stores it, returning the stored image's URL.
func (srv *productService) generateTraceabilityQR(ctx context.Context, product *entity.Product) (string, error) {
	content := fmt.Sprintf("%s/api/products/%s", srv.baseURL, product.ID)

	png, err := srv.qrService.GeneratePNG(content)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode QR code")
	}

	url, err := srv.storage.Save(ctx, fmt.Sprintf("qr_product_%s.png", product.ID), "image/png", bytes.NewReader(png))
	if err != nil {
		return "", errors.Wrap(err, "failed to store QR code image")
	}

	return url, nil
}
