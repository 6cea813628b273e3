package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Scribax/followers-shop/internal/events"
	"github.com/Scribax/followers-shop/internal/httpserver"
	"github.com/Scribax/followers-shop/internal/mail"
	"github.com/Scribax/followers-shop/internal/middleware"
	"github.com/Scribax/followers-shop/internal/notify"
	"github.com/Scribax/followers-shop/internal/payment"
	"github.com/Scribax/followers-shop/internal/repo"
	"github.com/Scribax/followers-shop/internal/search"
	"github.com/Scribax/followers-shop/internal/service"
	"github.com/Scribax/followers-shop/pkg/config"
	"github.com/Scribax/followers-shop/pkg/db"
	"github.com/Scribax/followers-shop/pkg/logging"
	loggingmw "github.com/Scribax/followers-shop/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.WarnEmpty(cfg.AdminEmail, "ADMIN_EMAIL", "the admin panel")
	config.WarnEmpty(cfg.SendGridAPIKey, "SENDGRID_API_KEY", "transactional email")

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(loggingmw.RequestLogger(logger))

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.Open(initCtx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db init error: %v", err)
	}

	gormRepo := &repo.GormRepo{DB: database}
	if err := gormRepo.Migrate(initCtx); err != nil {
		cancel()
		log.Fatalf("db migrate error: %v", err)
	}
	cancel()

	indexer, err := search.NewOrderIndexer(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err != nil {
		logger.Warn("elasticsearch unavailable, order search falls back to sql", "error", err)
		indexer = nil
	}

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	bus := notify.NewBus()
	mailer := mail.NewClient(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.PublicBaseURL)
	gateway := payment.NewClient(cfg.MercadoPagoPublicKey)

	authSvc := &service.AuthService{
		Repo:      gormRepo,
		Bus:       bus,
		Mail:      mailer,
		Events:    producer,
		JWTSecret: cfg.JWTAccessSecret,
	}
	orderSvc := &service.OrderService{
		Repo:    gormRepo,
		Indexer: indexer,
		Events:  producer,
	}
	profileSvc := &service.ProfileService{Repo: gormRepo}

	syncCtx, syncCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := orderSvc.SyncSearchIndex(syncCtx); err != nil {
		logger.Warn("search index sync failed, existing orders may be missing from search", "error", err)
	}
	syncCancel()

	guard := middleware.NewGuard(authSvc, cfg.AdminEmail)

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:         &httpserver.AuthHTTP{Svc: authSvc, Profile: profileSvc, Orders: orderSvc},
		OrderHandler:        &httpserver.OrderHTTP{Svc: orderSvc, Profile: profileSvc},
		ProfileHandler:      &httpserver.ProfileHTTP{Svc: profileSvc},
		PaymentHandler:      &httpserver.PaymentHTTP{Gateway: gateway, Orders: orderSvc},
		NotificationHandler: &httpserver.NotificationHTTP{Bus: bus},
		Guard:               guard,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
