package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/codewithus/ledgerbridge/api"
	"github.com/codewithus/ledgerbridge/cache"
	"github.com/codewithus/ledgerbridge/config"
	"github.com/codewithus/ledgerbridge/db"
	"github.com/codewithus/ledgerbridge/logger"
	"github.com/codewithus/ledgerbridge/middleware"
	"github.com/codewithus/ledgerbridge/models"
	"github.com/codewithus/ledgerbridge/notifications"
	"github.com/codewithus/ledgerbridge/providers"
	"github.com/codewithus/ledgerbridge/security"
	"github.com/codewithus/ledgerbridge/services"
	"github.com/codewithus/ledgerbridge/stores"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"
	colorBold  = "\033[1m"
)

func printStep(step, message string) {
	fmt.Printf("%s[%s]%s %s%s%s\n", colorBlue, step, colorReset, colorBold, message, colorReset)
}

func printSuccess(message string) {
	fmt.Printf("%s✓%s %s\n", colorGreen, colorReset, message)
}

func printError(message string) {
	fmt.Printf("%s✗%s %s\n", colorRed, colorReset, message)
}

func main() {
	printStep("1/7", "Loading configuration...")
	cfg, err := config.Load()
	if err != nil {
		printError(fmt.Sprintf("Failed to load configuration: %v", err))
		os.Exit(1)
	}
	printSuccess(fmt.Sprintf("Configuration loaded (%s)", cfg.Environment))

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer log.Sync()

	printStep("2/7", "Connecting to database...")
	gdb, err := db.Open(cfg.Database.DSN())
	if err != nil {
		printError(fmt.Sprintf("Failed to connect to database: %v", err))
		os.Exit(1)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		printError(fmt.Sprintf("Failed to get database instance: %v", err))
		os.Exit(1)
	}
	defer sqlDB.Close()
	printSuccess(fmt.Sprintf("Connected to PostgreSQL at %s:%d", cfg.Database.Host, cfg.Database.Port))

	printStep("3/7", "Connecting to Redis...")
	redisCache, err := cache.CreateRedisCache(cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Auth.CaptchaTTL,
	})
	if err != nil {
		printError(fmt.Sprintf("Failed to connect to Redis: %v", err))
		os.Exit(1)
	}
	defer redisCache.Close()
	printSuccess(fmt.Sprintf("Connected to Redis at %s", cfg.Redis.Addr))

	printStep("4/7", "Initializing security and integrations...")
	jwtManager := security.CreateJWTManager(cfg.Auth.JWTSecret, "ledgerbridge", "ledgerbridge-clients")
	captchaStore := security.CreateCaptchaStore(redisCache, cfg.Auth.CaptchaTTL)

	selector := providers.CreateSelector(
		providers.CreateStripeProvider(cfg.Providers.StripeSecret),
		providers.CreateXenditProvider(cfg.Providers.XenditSecret),
	)

	var notifier notifications.Notifier
	if cfg.Notifications.Enabled {
		awsNotifier, err := notifications.CreateAWSNotifier(context.Background(),
			cfg.Notifications.AWSRegion, cfg.Notifications.FromEmail, cfg.Notifications.SMSSenderID)
		if err != nil {
			printError(fmt.Sprintf("Failed to initialize notifications: %v", err))
			os.Exit(1)
		}
		notifier = awsNotifier
	} else {
		notifier = notifications.CreateLogNotifier(log)
	}
	printSuccess("Security and integrations ready")

	printStep("5/7", "Initializing stores and services...")
	invoiceStore := stores.CreateInvoiceRepository(gdb)
	requestStore := stores.CreateRequestRepository(gdb)
	paymentStore := stores.CreateDuePaymentRepository(gdb)
	transactionStore := stores.CreateTransactionRepository(gdb)
	userStore := stores.CreateUserRepository(gdb)

	invoiceService := services.CreateInvoiceService(invoiceStore, log)
	bidService := services.CreateBidService(requestStore, log)
	settlementService := services.CreateSettlementService(requestStore, paymentStore, transactionStore,
		selector, cfg.Providers.DefaultCurrency, log)
	collectionService := services.CreateCollectionService(paymentStore, notifier, log)
	authService := services.CreateAuthService(userStore, captchaStore, jwtManager, cfg.Auth.TokenTTL, log)
	printSuccess("Stores and services ready")

	printStep("6/7", "Setting up routes...")
	authHandler := api.CreateAuthHandler(authService)
	invoiceHandler := api.CreateInvoiceHandler(invoiceService)
	factoringHandler := api.CreateFactoringHandler(bidService, settlementService)
	paymentHandler := api.CreatePaymentHandler(collectionService)
	transactionHandler := api.CreateTransactionHandler(settlementService)

	router := mux.NewRouter()
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(middleware.RateLimitMiddleware(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))

	router.HandleFunc("/health", api.HealthCheckHandler).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/auth/captcha", authHandler.HandleCaptcha).Methods(http.MethodGet)
	v1.HandleFunc("/auth/login", authHandler.HandleLogin).Methods(http.MethodPost)

	authed := v1.NewRoute().Subrouter()
	authed.Use(middleware.AuthMiddleware(jwtManager))

	authed.HandleFunc("/invoices", invoiceHandler.HandleList).Methods(http.MethodGet)
	authed.HandleFunc("/invoices/{id}", invoiceHandler.HandleGet).Methods(http.MethodGet)
	authed.Handle("/invoices/{id}/approve",
		middleware.RequireRole(models.RoleBuyer)(http.HandlerFunc(invoiceHandler.HandleApprove))).Methods(http.MethodPost)
	authed.Handle("/invoices/{id}/reject",
		middleware.RequireRole(models.RoleBuyer)(http.HandlerFunc(invoiceHandler.HandleReject))).Methods(http.MethodPost)

	authed.HandleFunc("/factoring-requests", factoringHandler.HandleList).Methods(http.MethodGet)
	authed.HandleFunc("/factoring-requests/available", factoringHandler.HandleAvailable).Methods(http.MethodGet)
	authed.HandleFunc("/factoring-requests/{id}", factoringHandler.HandleGet).Methods(http.MethodGet)
	authed.Handle("/factoring-requests/{id}/bids",
		middleware.RequireRole(models.RoleFinancier)(http.HandlerFunc(factoringHandler.HandleSubmitBid))).Methods(http.MethodPost)
	authed.Handle("/factoring-requests/{id}/accept",
		middleware.RequireRole(models.RoleSeller, models.RoleBuyer)(http.HandlerFunc(factoringHandler.HandleAcceptBid))).Methods(http.MethodPost)

	authed.HandleFunc("/due-payments", paymentHandler.HandleList).Methods(http.MethodGet)
	authed.Handle("/due-payments/{id}/reminders",
		middleware.RequireRole(models.RoleFinancier)(http.HandlerFunc(paymentHandler.HandleSendReminder))).Methods(http.MethodPost)

	authed.HandleFunc("/transactions/grouped", transactionHandler.HandleGrouped).Methods(http.MethodGet)
	printSuccess("Routes registered")

	printStep("7/7", "Starting HTTP server...")
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		printSuccess(fmt.Sprintf("Listening on :%s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
