package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/celaops/cela/config"
	"github.com/celaops/cela/internal/controller"
	"github.com/celaops/cela/internal/infrastructure/tracing"
	appmiddleware "github.com/celaops/cela/internal/middleware"
	"github.com/celaops/cela/internal/repository"
	"github.com/celaops/cela/internal/service"
	"github.com/celaops/cela/pkg/response"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

type App struct {
	DB        *sqlx.DB
	KafkaConn *kafka.Conn
	Config    *config.Config
	Server    *echo.Echo
}

func (app *App) Start() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = logger

	e := echo.New()
	traceProvider, err := tracing.InitTracing(app.Config.TracingConfig.CollectorHost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize tracing")
	}

	defer func() {
		if err := traceProvider.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("Failed to shutdown tracing")
		}
	}()

	tracer := traceProvider.Tracer("cela")

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, span := tracer.Start(c.Request().Context(), fmt.Sprintf("[%s] %s", c.Request().Method, c.Path()))
			defer span.End()

			req := c.Request()
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	})

	// Used empty string so that metrics are not prefixed with the service name making it easier to aggregate across services
	e.Use(echoprometheus.NewMiddleware(""))

	go func() {
		metrics := echo.New()
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()

	g := e.Group("/api/v1")
	g.Use(appmiddleware.Logger)

	reg := repository.NewSQLRegistry(app.DB)

	authSvc := service.CreateNewAuthService(reg, *app.Config)
	userSvc := service.CreateNewUserService(reg)
	roleSvc := service.CreateNewRoleService(reg)
	deviceSvc := service.CreateNewDeviceService(reg)
	brandSvc := service.CreateNewBrandService(reg)
	categorySvc := service.CreateNewDeviceCategoryService(reg)
	custodySvc := service.CreateNewCustodyService(reg, app.KafkaConn)
	assetSvc := service.CreateNewAssetRegistryService(reg)
	ticketSvc := service.CreateNewTicketService(reg)
	todoSvc := service.CreateNewTodoService(reg)

	authMW := appmiddleware.CreateAuthMiddleware(authSvc)

	controller.CreateAuthController(g, authSvc, authMW)
	controller.CreateUserController(g, userSvc, custodySvc, authMW)
	controller.CreateRoleController(g, roleSvc, authMW)
	controller.CreateDeviceController(g, deviceSvc, custodySvc, authMW)
	controller.CreateBrandController(g, brandSvc, authMW)
	controller.CreateDeviceCategoryController(g, categorySvc, authMW)
	controller.CreateCustodyController(g, custodySvc, authMW)
	controller.CreateAssetNumberController(g, assetSvc, authMW)
	controller.CreateTicketController(g, ticketSvc, authMW)
	controller.CreateTodoController(g, todoSvc, authMW)

	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, "Hello, World!", nil)
	})

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", app.Config.ServicePort)))

	app.Server = e
}

func (app *App) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return app.Server.Shutdown(ctx)
}
