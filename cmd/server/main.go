package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	accounthandler "eaglebank/internal/account/handler"
	accountservice "eaglebank/internal/account/service"
	accountstore "eaglebank/internal/account/store"
	"eaglebank/internal/audit"
	"eaglebank/internal/jwttoken"
	"eaglebank/internal/platform/config"
	"eaglebank/internal/platform/httpserver"
	"eaglebank/internal/platform/logger"
	"eaglebank/internal/platform/metrics"
	"eaglebank/internal/platform/middleware"
	"eaglebank/internal/platform/postgres"
	"eaglebank/internal/platform/redis"
	transactionhandler "eaglebank/internal/transaction/handler"
	transactionservice "eaglebank/internal/transaction/service"
	transactionstore "eaglebank/internal/transaction/store"
	httptransport "eaglebank/internal/transport/http"
	userhandler "eaglebank/internal/user/handler"
	userservice "eaglebank/internal/user/service"
	userstore "eaglebank/internal/user/store"
)

const tokenIssuer = "eaglebank"

// main wires the dependency graph and owns the server lifecycle. Business
// logic lives in the internal service packages; nothing here makes decisions
// beyond which implementations to plug together.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	m := metrics.New()

	ctx := context.Background()

	var (
		users        userservice.Store
		accounts     accountservice.Store
		ledger       transactionservice.Store
		accountOpts  []accountservice.Option
		ledgerOpts   []transactionservice.Option
		shutdownHook func()
	)

	if cfg.PostgresDSN != "" {
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err.Error())
			os.Exit(1)
		}
		shutdownHook = func() { _ = db.Close() }

		users = userstore.NewPostgres(db)
		accounts = accountstore.NewPostgres(db)
		ledger = transactionstore.NewPostgres(db)

		runner := postgres.NewTxRunner(db)
		accountOpts = append(accountOpts, accountservice.WithTx(runner))
		ledgerOpts = append(ledgerOpts, transactionservice.WithTx(runner))
		log.Info("using postgres persistence")
	} else {
		users = userstore.NewInMemory()
		accounts = accountstore.NewInMemory()
		ledger = transactionstore.NewInMemory()
		log.Warn("POSTGRES_DSN not set, using in-memory persistence")
	}

	var idempotency func(http.Handler) http.Handler
	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		idempotency = middleware.Idempotency(redis.NewIdempotencyStore(redisClient, cfg.IdempotencyTTL), log)
		log.Info("idempotency cache enabled")
	} else {
		log.Warn("REDIS_URL not set, idempotency replay disabled")
	}

	tokens := jwttoken.New(cfg.JWTSigningKey, tokenIssuer, cfg.TokenTTL)
	auditor := audit.NewPublisher(audit.NewInMemoryStore())
	hasher := userservice.NewBcryptHasher()

	userSvc := userservice.New(users, accounts, hasher,
		userservice.WithAudit(auditor),
		userservice.WithMetrics(m),
	)
	authSvc := userservice.NewAuthService(users, hasher, tokens)

	accountOpts = append(accountOpts,
		accountservice.WithAudit(auditor),
		accountservice.WithMetrics(m),
	)
	accountSvc := accountservice.New(accounts, userSvc, accountOpts...)

	ledgerOpts = append(ledgerOpts,
		transactionservice.WithAudit(auditor),
		transactionservice.WithMetrics(m),
	)
	transactionSvc := transactionservice.New(ledger, accounts, ledgerOpts...)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:       log,
		Metrics:      m,
		Validator:    tokens,
		Users:        userhandler.New(userSvc, authSvc, log),
		Accounts:     accounthandler.New(accountSvc, log),
		Transactions: transactionhandler.New(transactionSvc, idempotency, log),
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting eaglebank", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if shutdownHook != nil {
		shutdownHook()
	}
}
