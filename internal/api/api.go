package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/spf13/viper"

	"github.com/fdapulse/shortage-etl/internal/api/controller"
	"github.com/fdapulse/shortage-etl/internal/pkg/constants"
	"github.com/fdapulse/shortage-etl/internal/pkg/logger"
	"github.com/fdapulse/shortage-etl/internal/pkg/store"
	"github.com/fdapulse/shortage-etl/internal/service/etl"
	"github.com/fdapulse/shortage-etl/internal/service/reports"
)

type APIService struct {
	router         *echo.Echo
	reportsService *reports.Service
}

func (svc *APIService) Serve(addr string) {
	logger.Fatal(context.Background(), svc.router.Start(addr))
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func NewAPIService(store store.Store, etlService *etl.Service) (*APIService, error) {
	svc := &APIService{router: echo.New()}

	svc.router.Logger.SetLevel(echoLogLevel(viper.GetString(constants.ViperLogLevel)))
	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.Use(middleware.Logger())
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: viper.GetStringSlice(constants.ViperAllowedOrigins),
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	svc.reportsService = reports.NewReportsService(store)

	api := svc.router.Group("/api/v1")
	cntrl := controller.NewController(svc.reportsService, etlService)

	episodes := api.Group("/episodes")
	episodes.GET("", cntrl.GetEpisodes)

	summaries := api.Group("/summaries")
	summaries.GET("", cntrl.GetSummaries)

	drugs := api.Group("/drugs")
	drugs.GET("/list", cntrl.GetDrugs)
	drugs.GET("/rankings", cntrl.GetRankings)

	run := api.Group("/etl")
	run.POST("/run", cntrl.RunETL, svc.AdminMiddleware)

	return svc, nil
}

func echoLogLevel(level string) log.Lvl {
	switch level {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
