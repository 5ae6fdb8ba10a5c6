package handler

import (
	"log/slog"
	"net/http"

	"acharwala/internal/delivery/http/response"
	"acharwala/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// ProductHandlerParams holds dependencies for ProductHandler, injected by Fx.
type ProductHandlerParams struct {
	fx.In

	ProductUC usecase.ProductUsecase
	Logger    *slog.Logger
}

// ProductHandler holds dependencies for catalogue handlers.
type ProductHandler struct {
	productUC usecase.ProductUsecase
	logger    *slog.Logger
}

// NewProductHandler is the constructor for ProductHandler.
func NewProductHandler(params ProductHandlerParams) *ProductHandler {
	return &ProductHandler{
		productUC: params.ProductUC,
		logger:    params.Logger,
	}
}

// ProductRequest represents the request body for creating or updating a product.
type ProductRequest struct {
	Name              string          `json:"name" validate:"required"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	Brand             string          `json:"brand"`
	Price             decimal.Decimal `json:"price" validate:"required"`
	Discount          decimal.Decimal `json:"discount"`
	OilType           string          `json:"oil_type"`
	Ingredients       []string        `json:"ingredients"`
	ManufacturingDate string          `json:"manufacturing_date"`
	ExpiryDate        string          `json:"expiry_date"`
	StockQuantity     int             `json:"stock_quantity" validate:"min=0"`
	Available         bool            `json:"available"`
}

// AdjustStockRequest represents the request body for a stock adjustment.
type AdjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// ListProducts retrieves catalogue products matching the query filters.
func (h *ProductHandler) ListProducts(c echo.Context) error {
	input := usecase.ListProductsInput{
		Category:      c.QueryParam("category"),
		Brand:         c.QueryParam("brand"),
		Search:        c.QueryParam("search"),
		OnlyAvailable: c.QueryParam("available") == "true",
	}

	products, err := h.productUC.ListProducts(c.Request().Context(), input)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, products, "Products retrieved successfully")
}

// GetProduct retrieves a single catalogue product.
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	product, err := h.productUC.GetProduct(c.Request().Context(), id)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, product, "Product retrieved successfully")
}

// CreateProduct lists a new catalogue product. Admin only.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	product, err := h.productUC.CreateProduct(c.Request().Context(), usecase.CreateProductInput{
		Name:              req.Name,
		Description:       req.Description,
		Category:          req.Category,
		Brand:             req.Brand,
		Price:             req.Price,
		Discount:          req.Discount,
		OilType:           req.OilType,
		Ingredients:       req.Ingredients,
		ManufacturingDate: req.ManufacturingDate,
		ExpiryDate:        req.ExpiryDate,
		StockQuantity:     req.StockQuantity,
	})
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, product, "Product created successfully")
}

// UpdateProduct modifies an existing product. Admin only.
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	product, err := h.productUC.UpdateProduct(c.Request().Context(), id, usecase.UpdateProductInput{
		Name:              req.Name,
		Description:       req.Description,
		Category:          req.Category,
		Brand:             req.Brand,
		Price:             req.Price,
		Discount:          req.Discount,
		OilType:           req.OilType,
		Ingredients:       req.Ingredients,
		ManufacturingDate: req.ManufacturingDate,
		ExpiryDate:        req.ExpiryDate,
		StockQuantity:     req.StockQuantity,
		Available:         req.Available,
	})
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, product, "Product updated successfully")
}

// DeleteProduct removes a product from the catalogue. Admin only.
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.productUC.DeleteProduct(c.Request().Context(), id); err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Product deleted successfully")
}

// UploadImage stores a product image from a multipart form. Admin only.
func (h *ProductHandler) UploadImage(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Missing image file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Unreadable image file")
	}
	defer file.Close()

	product, err := h.productUC.UploadProductImage(c.Request().Context(), id, usecase.UploadFileInput{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     file,
	})
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, product, "Product image uploaded successfully")
}

// AdjustStock changes a product's stock by a signed delta. Admin only.
func (h *ProductHandler) AdjustStock(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req AdjustStockRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid stock input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	if err := h.productUC.AdjustStock(c.Request().Context(), id, req.Delta); err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Stock adjusted successfully")
}
