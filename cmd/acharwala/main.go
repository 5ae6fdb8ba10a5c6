package main

import (
	"context"
	"log/slog"
	"os"

	"acharwala/config"
	"acharwala/internal/delivery"
	"acharwala/internal/delivery/http"
	"acharwala/internal/delivery/http/middleware"
	"acharwala/internal/delivery/http/router/handler"
	"acharwala/internal/infra/auth"
	logs "acharwala/internal/infra/log"
	"acharwala/internal/infra/mail"
	"acharwala/internal/infra/notification"
	"acharwala/internal/infra/persistence/postgres"
	"acharwala/internal/infra/pubsub"
	"acharwala/internal/infra/qrcode"
	"acharwala/internal/infra/storage"
	"acharwala/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			postgres.AutoMigrate,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewTransactionManager,
			postgres.NewUserRepository,
			postgres.NewRefreshTokenRepository,
			postgres.NewOTPRepository,
			postgres.NewProductRepository,
			postgres.NewCartRepository,
			postgres.NewOrderRepository,
			postgres.NewRecipeRepository,
			postgres.NewDidiRepository,
			postgres.NewLocationRepository,
			postgres.NewTrainingRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			mail.NewGomailMailer,
			storage.NewFileStorage,
			qrcode.NewQRCodeService,
			pubsub.NewEventPublisher,
			notification.NewNotificationService,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewProductService,
			impl.NewCartService,
			impl.NewOrderService,
			impl.NewRecipeService,
			impl.NewDidiService,
			impl.NewLocationService,
			impl.NewTrainingService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewProductHandler,
			handler.NewCartHandler,
			handler.NewOrderHandler,
			handler.NewRecipeHandler,
			handler.NewDidiHandler,
			handler.NewLocationHandler,
			handler.NewTrainingHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
