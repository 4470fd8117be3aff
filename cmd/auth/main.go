package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avolkov/auth-server/internal/audit"
	"github.com/avolkov/auth-server/internal/config"
	"github.com/avolkov/auth-server/internal/db"
	"github.com/avolkov/auth-server/internal/events"
	"github.com/avolkov/auth-server/internal/httpserver"
	"github.com/avolkov/auth-server/internal/lockout"
	"github.com/avolkov/auth-server/internal/logging"
	"github.com/avolkov/auth-server/internal/repo"
	"github.com/avolkov/auth-server/internal/service"
	"github.com/avolkov/auth-server/internal/tokens"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gormDB, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	store := &repo.GormStore{DB: gormDB}

	svc := &service.AuthService{
		Store: store,
		Tokens: &tokens.Manager{
			Secret:     cfg.JWTSecret,
			AccessTTL:  cfg.AccessTTL,
			RefreshTTL: cfg.RefreshTTL,
		},
		Lockout: &lockout.Policy{
			Store:       store,
			MaxAttempts: cfg.MaxLoginAttempts,
			Window:      time.Duration(cfg.LockWindowMinutes) * time.Minute,
		},
		PasswordMinLength: cfg.PasswordMinLength,
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		svc.Events = producer
	}

	if cfg.ESURL != "" {
		esClient, err := audit.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		svc.Audit = &audit.Indexer{ES: esClient, Index: "login-attempts"}
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(httpserver.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: svc},
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
