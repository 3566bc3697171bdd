package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"theater/src/config"
	"theater/src/logger"
	"theater/src/middleware"
	"theater/src/modules/events"
	exportControllers "theater/src/modules/exports/controllers"
	exportServices "theater/src/modules/exports/services"
	movieControllers "theater/src/modules/movies/controllers"
	movieLib "theater/src/modules/movies/lib"
	movieServices "theater/src/modules/movies/services"
	"theater/src/routes"
	"theater/src/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	log := logger.Get()
	cfg := config.Load(log)
	log.WithField("env", cfg.Env).Info("starting theater")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to the database
	db, err := config.ConnectDatabase(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	rdb := config.ConnectRedis(ctx, cfg, log)
	if rdb != nil {
		defer rdb.Close()
	}
	minioClient, err := config.ConnectMinio(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Warn("minio unavailable, catalog export disabled")
	}

	// Change events go to websocket clients and, when configured, RabbitMQ
	hub := events.NewHub(log)
	defer hub.Close()
	publishers := []events.Publisher{hub}
	if cfg.RabbitMQURL != "" {
		broker := events.NewAMQPPublisher(cfg.RabbitMQURL, events.DefaultQueue, log)
		defer broker.Close()
		publishers = append(publishers, broker)
	}

	if err := movieLib.RegisterValidators(); err != nil {
		log.WithError(err).Fatal("could not register validators")
	}

	cache := movieServices.NewMovieCache(rdb, cfg.CacheTTL, log)
	movieService := movieServices.NewMovieService(db, cache, events.NewFanout(log, publishers...), log, cfg.BasePath+"/movies/")

	handlers := routes.Handlers{
		BasePath: cfg.BasePath,
		Movies:   movieControllers.NewMovieController(movieService, log),
		Events:   hub.ServeWS,
		Ready: func(ctx context.Context) bool {
			return config.CheckConnection(ctx, db)
		},
	}

	var exporter *exportServices.CatalogExporter
	if minioClient != nil {
		exporter = exportServices.NewCatalogExporter(movieService, exportServices.NewMinioStore(minioClient, cfg.MinioBucket), log)
		handlers.Exports = exportControllers.NewExportController(exporter, log)
	}

	jobs, err := services.SetupBackgroundJobs(services.JobSchedules{
		Export:     cfg.ExportSchedule,
		CacheSweep: cfg.CacheSweepSchedule,
	}, exporter, cache, log)
	if err != nil {
		log.WithError(err).Fatal("could not schedule background jobs")
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.ErrorLogger(log))
	// Enable CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))
	routes.RegisterRoutes(router, handlers)

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("could not start server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http server shutdown failed")
	}
	<-jobs.Stop().Done()
	closeDatabase(db, log)
}

func closeDatabase(db *gorm.DB, log logrus.FieldLogger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.WithError(err).Warn("closing database failed")
	}
}
