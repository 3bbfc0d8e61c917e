package main

import (
	"context"
	"log/slog"
	"os"

	"platter/config"
	"platter/internal/delivery"
	"platter/internal/delivery/http"
	"platter/internal/delivery/http/middleware"
	"platter/internal/delivery/http/session"
	"platter/internal/infra/auth"
	logs "platter/internal/infra/log"
	"platter/internal/infra/persistence"
	"platter/internal/infra/persistence/postgres"
	"platter/internal/infra/pubsub"
	"platter/internal/infra/validator"
	"platter/internal/usecase/impl"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Logger     *slog.Logger
	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger}
		}),
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectMiddleware(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.NewConnector,
		validator.New,
	)
}

func injectRepo() fx.Option {
	return fx.Provide(
		persistence.NewStores,
	)
}

func injectService() fx.Option {
	return fx.Provide(
		auth.NewBcryptHasher,
		auth.NewJWTService,
		pubsub.NewEventPublisher,
	)
}

func injectUsecase() fx.Option {
	return fx.Provide(
		fx.Annotate(
			impl.NewUserAuthService,
			fx.ResultTags(`name:"users"`),
		),
		fx.Annotate(
			impl.NewPartnerAuthService,
			fx.ResultTags(`name:"partners"`),
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Provide(
		middleware.NewAuthMiddleware,
		session.NewCarrier,
	)
}

func injectDelivery() fx.Option {
	return fx.Provide(
		fx.Annotate(
			http.NewServer,
			fx.ResultTags(`group:"deliveries"`),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			for _, d := range params.Deliveries {
				go func() {
					if err := d.Serve(ctx); err != nil {
						params.Logger.Error("Failed to start server", slog.Any("error", err))
						os.Exit(1)
					}
				}()
			}

			return nil
		},
	})
}
