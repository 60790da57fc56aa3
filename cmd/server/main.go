package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	affiliateapp "github.com/controlroom/backend/internal/application/affiliate"
	billingapp "github.com/controlroom/backend/internal/application/billing"
	governanceapp "github.com/controlroom/backend/internal/application/governance"
	identityapp "github.com/controlroom/backend/internal/application/identity"
	"github.com/controlroom/backend/internal/infrastructure/auth"
	infrabilling "github.com/controlroom/backend/internal/infrastructure/billing"
	"github.com/controlroom/backend/internal/infrastructure/config"
	"github.com/controlroom/backend/internal/infrastructure/logger"
	"github.com/controlroom/backend/internal/infrastructure/persistence"
	"github.com/controlroom/backend/internal/interfaces/http/handler"
	"github.com/controlroom/backend/internal/interfaces/http/middleware"
	"github.com/controlroom/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Control Room backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}()

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	workspaceRepo := persistence.NewGormWorkspaceRepository(db.DB)
	membershipRepo := persistence.NewGormMembershipRepository(db.DB)
	invitationRepo := persistence.NewGormInvitationRepository(db.DB)
	counterRepo := persistence.NewGormUsageCounterRepository(db.DB)
	affiliateRepo := persistence.NewGormAffiliateRepository(db.DB)
	agentRepo := persistence.NewGormAgentRepository(db.DB)
	policyRepo := persistence.NewGormPolicyRepository(db.DB)
	metricRepo := persistence.NewGormCustomMetricRepository(db.DB)
	listingRepo := persistence.NewGormListingRepository(db.DB)

	// Stripe price table: config overrides the defaults when present
	stripeCfg := infrabilling.DefaultStripeConfig()
	stripeCfg.WebhookSecret = cfg.Stripe.WebhookSecret
	for plan, priceID := range cfg.Stripe.PriceIDs {
		stripeCfg.PriceIDs[plan] = priceID
	}
	if cfg.App.Env == "production" {
		if err := stripeCfg.Validate(); err != nil {
			log.Fatal("Invalid Stripe configuration", zap.Error(err))
		}
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist := auth.NewRedisTokenBlacklist(redisClient)
	affiliateService := affiliateapp.NewAffiliateService(affiliateRepo, log)
	authService := identityapp.NewAuthService(userRepo, membershipRepo, invitationRepo, jwtService, blacklist, affiliateService, log)
	workspaceService := identityapp.NewWorkspaceService(workspaceRepo, membershipRepo, invitationRepo, userRepo, log)
	adminService := identityapp.NewAdminService(userRepo, log)
	usageService := billingapp.NewUsageService(userRepo, counterRepo, log)
	webhookService := billingapp.NewStripeWebhookService(stripeCfg, userRepo, log)
	resourceService := governanceapp.NewResourceService(agentRepo, policyRepo, metricRepo, usageService, log)
	marketplaceService := governanceapp.NewMarketplaceService(listingRepo, log)

	// HTTP handlers
	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(authService, &cfg.Cookie),
		Workspace:   handler.NewWorkspaceHandler(workspaceService, authService, &cfg.Cookie),
		Usage:       handler.NewUsageHandler(usageService),
		Affiliate:   handler.NewAffiliateHandler(affiliateService),
		Resource:    handler.NewResourceHandler(resourceService),
		Marketplace: handler.NewMarketplaceHandler(marketplaceService),
		Admin:       handler.NewAdminHandler(adminService, affiliateService),
		Webhook:     handler.NewStripeWebhookHandler(webhookService),
		System:      handler.NewSystemHandler(db),
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}
	engine.Use(logger.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	trackClick := func(c *gin.Context, code string) bool {
		return affiliateService.TrackClick(c.Request.Context(), code)
	}
	mw := router.Middleware{
		JWTAuth: middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			Logger:         log,
		}),
		WorkspaceResolver: middleware.WorkspaceResolver(&cfg.Cookie),
		RequireWorkspace:  middleware.RequireWorkspace(),
		Gate:              middleware.AuthorizationGate(middleware.DefaultGateRules()),
		ReferralTracking:  middleware.ReferralTracking(&cfg.Cookie, trackClick),
	}
	if len(cfg.App.DeveloperEmails) > 0 {
		mw.DeveloperOnly = middleware.DeveloperOnly(cfg.App.DeveloperEmails)
	}

	router.Setup(engine, handlers, mw)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
