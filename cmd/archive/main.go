package main

import (
	"context"
	"flag"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/porvoy/archive"
	"github.com/porvoy/archive/internal/config"
	"github.com/porvoy/archive/internal/infrastructure/providers"
	"github.com/porvoy/archive/internal/infrastructure/storage"
	"github.com/porvoy/archive/internal/present/rest"
	"github.com/porvoy/archive/internal/service"
	"github.com/porvoy/archive/internal/telemetry"
	"github.com/porvoy/archive/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	db, err := providers.NewDatabase(conf.Server)
	if err != nil {
		panic("failed to connect database")
	}

	err = providers.MigrateDatabase(db)
	if err != nil {
		panic("failed to migrate database")
	}

	store, err := providers.NewBucketStore(conf.Storage)
	if err != nil {
		panic("failed to initialize storage: " + err.Error())
	}

	if mio, ok := store.(*storage.MinioStore); ok {
		if err := mio.EnsureBuckets(context.Background(), archive.Buckets); err != nil {
			panic("failed to ensure buckets: " + err.Error())
		}
	}

	rdb := providers.NewRedis(conf.Server)
	signal := service.NewSignalService(rdb)

	repo := providers.NewContentRepository(db, conf.Server)
	router := usecase.NewAssetRouter(store)
	submitUC := usecase.NewSubmitUsecase(repo, router, signal)
	queryUC := usecase.NewQueryUsecase(repo)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	if conf.Server.EnableTrace {
		shutdown, err := telemetry.Setup(context.Background(), "porvoy-archive", conf.Server.TraceEndpoint)
		if err != nil {
			panic("failed to set up tracing: " + err.Error())
		}
		defer shutdown(context.Background())
		e.Use(otelecho.Middleware("porvoy-archive"))
	}

	if fs, ok := store.(*storage.FilesystemStore); ok {
		e.Static("/media", fs.Dir())
	}

	h := rest.NewHandler(submitUC, queryUC, signal)
	h.RegisterRoutes(e)

	slog.Info("starting archive server",
		slog.String("addr", conf.Server.ListenAddr),
		slog.String("storage", conf.Storage.Backend),
	)
	e.Logger.Fatal(e.Start(conf.Server.ListenAddr))
}
