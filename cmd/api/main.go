package main

import (
	"context"
	"flag"

	"github.com/spf13/viper"

	"github.com/fdapulse/shortage-etl/internal/api"
	"github.com/fdapulse/shortage-etl/internal/config"
	"github.com/fdapulse/shortage-etl/internal/pkg/constants"
	"github.com/fdapulse/shortage-etl/internal/pkg/logger"
	"github.com/fdapulse/shortage-etl/internal/pkg/store"
	"github.com/fdapulse/shortage-etl/internal/pkg/store/xpgx"
	"github.com/fdapulse/shortage-etl/internal/service/etl"
	"github.com/fdapulse/shortage-etl/internal/service/fetcher"
	"github.com/fdapulse/shortage-etl/internal/service/reconciler"
	"github.com/fdapulse/shortage-etl/internal/service/runner"
)

func main() {
	configPath := flag.String("config", "", "path to yaml config file")
	flag.Parse()

	ctx := context.Background()

	if err := config.Init(*configPath); err != nil {
		logger.Fatal(ctx, err)
	}
	logger.Init(viper.GetString(constants.ViperLogLevel))

	pool, err := xpgx.New(ctx, viper.GetString(constants.ViperDatabaseDSN))
	if err != nil {
		logger.Fatal(ctx, err)
	}
	defer pool.Close()

	st := store.NewStore(pool)
	if err := st.EnsureSchema(ctx); err != nil {
		logger.Fatal(ctx, err)
	}

	rec, err := reconciler.New(reconciler.Config{DedupFields: config.DedupFields()})
	if err != nil {
		logger.Fatal(ctx, err)
	}

	feed := fetcher.NewClient(
		viper.GetString(constants.ViperFeedBaseURL),
		viper.GetInt(constants.ViperFeedPageLimit),
	)

	var bulletin etl.Feed
	if url := viper.GetString(constants.ViperBulletinURL); url != "" {
		bulletin = fetcher.NewBulletinScanner(url)
	}

	etlService := etl.NewService(feed, bulletin, st, runner.NewService(rec), viper.GetInt(constants.ViperFeedDaysBack))

	svc, err := api.NewAPIService(st, etlService)
	if err != nil {
		logger.Fatal(ctx, err)
	}

	svc.Serve(viper.GetString(constants.ViperAPIAddr))
}
