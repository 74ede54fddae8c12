package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	pkgdb "github.com/vendaro/marketplace/pkg/db"
	"github.com/vendaro/marketplace/pkg/logging"
	loggingmw "github.com/vendaro/marketplace/pkg/middleware/logging"

	orderscfg "github.com/vendaro/marketplace/internal/config"
	"github.com/vendaro/marketplace/internal/es"
	"github.com/vendaro/marketplace/internal/events"
	"github.com/vendaro/marketplace/internal/httpserver"
	"github.com/vendaro/marketplace/internal/repo"
	"github.com/vendaro/marketplace/internal/search"
	"github.com/vendaro/marketplace/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := orderscfg.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	logger := logging.New(os.Getenv("LOG_LEVEL")).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
	}

	var orderIndex *search.OrderIndex
	if cfg.ESURL != "" {
		client, err := es.NewClient(&cfg.Config)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		orderIndex = search.NewOrderIndex(client, cfg.ESIndex)
	}

	gormRepo := &repo.GormRepo{DB: db}
	orderSvc := &service.OrderService{
		Repo:     gormRepo,
		Producer: producer,
		Index:    orderIndex,
		Currency: cfg.Currency,
	}
	voucherSvc := &service.VoucherService{Repo: gormRepo}

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		OrderHandler:   &httpserver.OrderHTTP{Svc: orderSvc},
		VoucherHandler: &httpserver.VoucherHTTP{Svc: voucherSvc},
		JWTSecret:      cfg.JWTAccessSecret,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("orders listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if producer != nil {
		_ = producer.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("orders stopped")
}
