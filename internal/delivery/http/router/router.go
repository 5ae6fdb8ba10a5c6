// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"acharwala/internal/delivery/http/middleware"
	"acharwala/internal/delivery/http/router/handler"
	"acharwala/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler     *handler.AuthHandler
	ProductHandler  *handler.ProductHandler
	CartHandler     *handler.CartHandler
	OrderHandler    *handler.OrderHandler
	RecipeHandler   *handler.RecipeHandler
	DidiHandler     *handler.DidiHandler
	LocationHandler *handler.LocationHandler
	TrainingHandler *handler.TrainingHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	authed := r.params.AuthMiddleware.Authenticate
	adminOnly := r.params.AuthMiddleware.RequireRole(entity.RoleAdmin)
	didiOnly := r.params.AuthMiddleware.RequireRole(entity.RoleSHGDidi)

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api")

	// Account and session routes
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", r.params.AuthHandler.Signup)
		authGroup.POST("/verify-otp", r.params.AuthHandler.VerifyOTP)
		authGroup.POST("/resend-otp", r.params.AuthHandler.ResendOTP)
		authGroup.POST("/login", r.params.AuthHandler.Login)
		authGroup.POST("/refresh", r.params.AuthHandler.Refresh)
		authGroup.POST("/logout", r.params.AuthHandler.Logout)
		authGroup.POST("/forgot-password", r.params.AuthHandler.ForgotPassword)
		authGroup.POST("/reset-password", r.params.AuthHandler.ResetPassword)
		authGroup.GET("/profile", r.params.AuthHandler.GetProfile, authed)
	}

	// Catalogue routes. Reads are public, writes are admin only.
	productGroup := api.Group("/products")
	{
		productGroup.GET("", r.params.ProductHandler.ListProducts)
		productGroup.GET("/:id", r.params.ProductHandler.GetProduct)
		productGroup.POST("", r.params.ProductHandler.CreateProduct, authed, adminOnly)
		productGroup.PUT("/:id", r.params.ProductHandler.UpdateProduct, authed, adminOnly)
		productGroup.DELETE("/:id", r.params.ProductHandler.DeleteProduct, authed, adminOnly)
		productGroup.POST("/:id/image", r.params.ProductHandler.UploadImage, authed, adminOnly)
		productGroup.POST("/:id/stock", r.params.ProductHandler.AdjustStock, authed, adminOnly)
	}

	// Cart routes, always scoped to the acting user
	cartGroup := api.Group("/cart", authed)
	{
		cartGroup.GET("", r.params.CartHandler.GetCart)
		cartGroup.DELETE("", r.params.CartHandler.ClearCart)
		cartGroup.POST("/items", r.params.CartHandler.AddItem)
		cartGroup.PUT("/items/:id", r.params.CartHandler.UpdateItem)
		cartGroup.DELETE("/items/:id", r.params.CartHandler.RemoveItem)
		cartGroup.POST("/merge", r.params.CartHandler.MergeCart)
	}

	// Order lifecycle routes
	orderGroup := api.Group("/orders", authed)
	{
		orderGroup.POST("/checkout", r.params.OrderHandler.Checkout)
		orderGroup.GET("", r.params.OrderHandler.ListMyOrders)
		orderGroup.GET("/assigned", r.params.OrderHandler.ListAssignedOrders)
		orderGroup.GET("/number/:number", r.params.OrderHandler.GetOrderByNumber)
		orderGroup.GET("/:id", r.params.OrderHandler.GetOrder)
		orderGroup.POST("/:id/cancel", r.params.OrderHandler.CancelOrder)
		orderGroup.POST("/payment/:paymentId/complete", r.params.OrderHandler.CompletePayment)
		orderGroup.POST("/payment/:paymentId/fail", r.params.OrderHandler.FailPayment)
	}

	// Custom recipe routes. The shared-token lookup is public.
	recipeGroup := api.Group("/recipes")
	{
		recipeGroup.GET("/shared/:token", r.params.RecipeHandler.GetSharedRecipe)
		recipeGroup.POST("/quote", r.params.RecipeHandler.QuoteRecipe)
		recipeGroup.POST("", r.params.RecipeHandler.CreateRecipe, authed)
		recipeGroup.GET("", r.params.RecipeHandler.ListMyRecipes, authed)
		recipeGroup.GET("/:id", r.params.RecipeHandler.GetRecipe, authed)
		recipeGroup.PUT("/:id", r.params.RecipeHandler.UpdateRecipe, authed)
		recipeGroup.DELETE("/:id", r.params.RecipeHandler.DeleteRecipe, authed)
		recipeGroup.POST("/:id/save", r.params.RecipeHandler.SaveRecipe, authed)
		recipeGroup.POST("/:id/share", r.params.RecipeHandler.ShareRecipe, authed)
	}

	// The original API shipped the Didi features under a v1 prefix
	// while everything else stayed unversioned. Kept as-is.
	apiV1 := e.Group("/api/v1")

	// SHG Didi routes
	didiGroup := apiV1.Group("/didi", authed)
	{
		didiGroup.POST("/apply", r.params.DidiHandler.Apply)
		didiGroup.GET("/profile", r.params.DidiHandler.GetMyProfile)
		didiGroup.GET("/dashboard", r.params.DidiHandler.Dashboard, didiOnly)
		didiGroup.POST("/location/ping", r.params.LocationHandler.RecordPing, didiOnly)
	}

	// Didi training journey
	trainingGroup := apiV1.Group("/training", authed)
	{
		trainingGroup.GET("/curriculum", r.params.TrainingHandler.Curriculum, didiOnly)
		trainingGroup.POST("/progress/:id", r.params.TrainingHandler.RecordProgress, didiOnly)
	}

	// Admin routes
	adminGroup := api.Group("/admin", authed, adminOnly)
	{
		adminGroup.GET("/orders", r.params.OrderHandler.ListOrders)
		adminGroup.PUT("/orders/:id/status", r.params.OrderHandler.UpdateStatus)
		adminGroup.POST("/orders/:id/assign-shg", r.params.OrderHandler.AssignSHG)
		adminGroup.POST("/orders/:id/assign-delivery", r.params.OrderHandler.AssignDeliveryBoy)

		adminGroup.GET("/didis", r.params.DidiHandler.ListApplications)
		adminGroup.POST("/didis/:id/approve", r.params.DidiHandler.Approve)
		adminGroup.POST("/didis/:id/reject", r.params.DidiHandler.Reject)
		adminGroup.POST("/didis/:id/suspend", r.params.DidiHandler.Suspend)
		adminGroup.GET("/didis/:id/location/latest", r.params.LocationHandler.LatestLocation)
		adminGroup.GET("/didis/:id/location/trail", r.params.LocationHandler.Trail)

		adminGroup.POST("/training", r.params.TrainingHandler.CreateContent)
		adminGroup.PUT("/training/:id", r.params.TrainingHandler.UpdateContent)
	}
}
