package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ticketmarket/internal/config"
	"ticketmarket/internal/database"
	"ticketmarket/internal/handlers"
	"ticketmarket/internal/middleware"
	"ticketmarket/internal/repositories"
	"ticketmarket/internal/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.NewConnection(database.Config{Path: cfg.Database.Path})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("database ready", "path", cfg.Database.Path)

	// Repositories
	eventRepo := repositories.NewEventRepository(db.DB)
	ticketRepo := repositories.NewTicketRepository(db.DB)
	recordRepo := repositories.NewRecordRepository(db.DB)
	accountLedger := repositories.NewAccountLedger(db.DB)

	// The ownership registry consults the transfer guard before every holder
	// change, mints included.
	transferGuard := services.NewTransferGuard(ticketRepo)
	holderRegistry := repositories.NewHolderRegistry(db.DB, transferGuard.Check)

	// Services
	authorizer := services.NewStaticAuthorizer(cfg.Auth.AdminPrincipals)
	reentrancyGuard := services.NewReentrancyGuard()
	eventService := services.NewEventService(db.DB, eventRepo, recordRepo, authorizer, logger)
	ticketService := services.NewTicketService(db.DB, eventRepo, ticketRepo, recordRepo, holderRegistry, accountLedger, reentrancyGuard, logger)
	accountService := services.NewAccountService(accountLedger, authorizer)

	router := setupRouter(cfg, logger, eventService, ticketService, accountService)

	srv := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func setupRouter(
	cfg *config.Config,
	logger *slog.Logger,
	eventService *services.EventService,
	ticketService *services.TicketService,
	accountService *services.AccountService,
) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(logger))
	router.Use(cors.Default())

	auth := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret)
	router.Use(auth.Authenticate())

	eventHandler := handlers.NewEventHandler(eventService)
	ticketHandler := handlers.NewTicketHandler(ticketService)
	accountHandler := handlers.NewAccountHandler(accountService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.GET("/events/:id", eventHandler.Get)
		api.GET("/events/:id/records", eventHandler.Records)
		api.GET("/tickets/:id", ticketHandler.Get)

		authed := api.Group("", auth.RequireAuth())
		{
			authed.POST("/events", eventHandler.Create)
			authed.POST("/events/:id/tickets", ticketHandler.Purchase)
			authed.POST("/tickets/:id/resell", ticketHandler.Resell)
			authed.POST("/tickets/:id/purchase", ticketHandler.PurchaseResold)
			authed.POST("/tickets/:id/validate", ticketHandler.Validate)
			authed.POST("/accounts/:id/deposit", accountHandler.Deposit)
			authed.GET("/accounts/:id", accountHandler.Balance)
		}
	}

	return router
}
