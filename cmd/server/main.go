package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"myshop/internal/auth"
	"myshop/internal/config"
	"myshop/internal/infrastructure/logger"
	"myshop/internal/infrastructure/mysql"
	redisinfra "myshop/internal/infrastructure/redis"
	"myshop/internal/order"
	"myshop/internal/secrets"
	"myshop/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	initCtx, cancelInit := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelInit()

	redisClient, err := redisinfra.NewClient(initCtx, cfg.Redis)
	if err != nil {
		zapLogger.Fatal("connecting to redis", zap.Error(err))
	}
	defer redisClient.Close()
	zapLogger.Info("redis connected")

	verifier, err := auth.NewVerifier(initCtx, cfg.Auth.IssuerURL, cfg.Auth.ClientID)
	if err != nil {
		zapLogger.Fatal("initializing token verifier", zap.Error(err))
	}
	zapLogger.Info("identity provider resolved", zap.String("issuer", cfg.Auth.IssuerURL))

	secretStore := secrets.NewRedisStore(redisClient)
	authorizer := auth.NewAuthorizer(verifier, secretStore, cfg.Auth.SecretName, zapLogger)

	orderCtrl := order.NewModule(db, cfg.Orders.TableName, zapLogger)

	router := server.NewRouter(orderCtrl, authorizer, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
