package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	validator "github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	limiterstdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"

	"github.com/haisenberg98/brewgear-api/internal/app"
	"github.com/haisenberg98/brewgear-api/internal/auth"
	"github.com/haisenberg98/brewgear-api/internal/cart"
	"github.com/haisenberg98/brewgear-api/internal/catalog"
	"github.com/haisenberg98/brewgear-api/internal/checkout"
	"github.com/haisenberg98/brewgear-api/internal/common"
	"github.com/haisenberg98/brewgear-api/internal/config"
	"github.com/haisenberg98/brewgear-api/internal/delivery"
	"github.com/haisenberg98/brewgear-api/internal/discount"
	"github.com/haisenberg98/brewgear-api/internal/health"
	"github.com/haisenberg98/brewgear-api/internal/newsletter"
	"github.com/haisenberg98/brewgear-api/internal/obs"
	"github.com/haisenberg98/brewgear-api/internal/ratelimit"
	"github.com/haisenberg98/brewgear-api/internal/sitemap"
	"github.com/haisenberg98/brewgear-api/internal/store"
	"github.com/haisenberg98/brewgear-api/internal/tasks"
	"github.com/haisenberg98/brewgear-api/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	obs.MustRegisterDomainMetrics(cfg.MetricsNamespace, nil)

	if cfg.TracingEnabled {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "brewgear-api",
			Endpoint:      cfg.TracingEndpoint,
			SamplingRatio: cfg.TracingSampling,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.RunMigrations(migrations.FS, ".", cfg.DatabaseURL); err != nil {
		logger.Fatal().Err(err).Msg("run migrations")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "brewgear-api"
	if cfg.DBMaxOpenConns > 0 {
		poolConfig.MaxConns = int32(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		poolConfig.MinConns = int32(cfg.DBMaxIdleConns)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis metrics")
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	taskClient := asynq.NewClient(asynq.RedisClientOpt{Addr: redisOpts.Addr, Password: redisOpts.Password, DB: redisOpts.DB})
	defer func() { _ = taskClient.Close() }()

	validate := validator.New()

	cartRepo := store.CartRepo{DB: pool}
	catalogRepo := store.CatalogRepo{DB: pool}
	discountRepo := store.DiscountRepo{DB: pool}
	deliveryRepo := store.DeliveryRepo{DB: pool}
	settingsRepo := store.SettingsRepo{DB: pool}
	newsletterRepo := store.NewsletterRepo{DB: pool}
	adminRepo := store.AdminRepo{DB: pool}

	discountSvc := &discount.Service{S: discountRepo}
	discountHandler := &discount.Handler{Svc: discountSvc, Validate: validate}

	catalogSvc, err := catalog.NewService(catalog.ServiceConfig{
		Queries: catalogRepo,
		Cache:   catalog.NewCache(redisClient, cfg.CacheTTL),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise catalog service")
	}
	catalogHandler := &catalog.Handler{Svc: catalogSvc, DefaultCurrency: cfg.DefaultCurrency}

	cartSvc := &cart.Service{
		Carts:    cartRepo,
		Catalog:  catalogRepo,
		Discount: discountSvc,
		TTL:      cfg.CartTTL,
	}
	cartHandler := &cart.Handler{
		Svc:             cartSvc,
		DefaultCountry:  cfg.DefaultCountry,
		DefaultCurrency: cfg.DefaultCurrency,
	}

	deliverySvc := &delivery.Service{S: deliveryRepo, P: catalogRepo}
	deliveryHandler := &delivery.Handler{Svc: deliverySvc, Validate: validate}

	checkoutSvc := &checkout.Service{
		Carts:    cartSvc,
		Delivery: deliverySvc,
		Settings: settingsRepo,
	}
	checkoutHandler := &checkout.Handler{Svc: checkoutSvc, DefaultCountry: cfg.DefaultCountry}
	settingsHandler := &checkout.AdminHandler{Settings: settingsRepo}

	newsletterSvc := &newsletter.Service{
		S:      newsletterRepo,
		Tasks:  &tasks.Client{A: taskClient},
		Logger: &logger,
	}
	newsletterHandler := &newsletter.Handler{Svc: newsletterSvc, Validate: validate}

	authSvc, err := auth.NewService(auth.Config{
		Admins:         adminRepo,
		Secret:         cfg.JWTSecret,
		AccessTokenTTL: cfg.AccessTokenTTL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise auth service")
	}
	authHandler := &auth.Handler{Svc: authSvc, Validate: validate}
	authMiddleware := auth.Middleware{Service: authSvc}

	sitemapHandler := &sitemap.Handler{BaseURL: cfg.BaseURL, Catalog: catalogSvc, Now: time.Now}

	idem := common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL}

	applyLimit := ratelimit.Handler{
		Limiter: ratelimit.Limiter{Client: redisClient, Prefix: "brewgear:rl:discount:"},
		Config: ratelimit.Config{
			Key:    common.ClientIP,
			Window: cfg.DiscountApplyWindow,
			Max:    cfg.DiscountApplyMax,
		},
		OnError: func(err error) { logger.Error().Err(err).Msg("discount rate limit") },
	}

	limiterStore, err := app.NewLimiterStore(redisClient)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise limiter store")
	}
	newsletterLimiter := limiter.New(limiterStore, limiter.Rate{
		Period: cfg.NewsletterRatePer,
		Limit:  cfg.NewsletterRateMax,
	})
	newsletterLimit := limiterstdlib.NewMiddleware(newsletterLimiter)

	httpMetrics := obs.NewHTTPMetrics(cfg.MetricsNamespace, nil, nil)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if cfg.TracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health/live", health.Handler{}.Live)
	r.Get("/health/ready", health.Handler{
		Checker: readinessChecker{db: pool, redis: redisClient},
	}.Ready)
	r.Get("/sitemap.xml", sitemapHandler.Sitemap)
	r.Get("/robots.txt", sitemapHandler.Robots)

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/categories", catalogHandler.ListCategories)
		v.Get("/items", catalogHandler.ListItems)
		v.Get("/items/{slug}", catalogHandler.GetItem)

		v.Post("/discounts/validate", discountHandler.ValidateCode)
		v.Post("/delivery/quote", deliveryHandler.Quote)
		v.With(newsletterLimit.Handler).Post("/newsletter", newsletterHandler.Subscribe)

		v.Route("/carts", func(c chi.Router) {
			c.Get("/{id}", cartHandler.Get)
			c.Group(func(g chi.Router) {
				g.Use(idem.Middleware)
				g.Post("/", cartHandler.Create)
				g.Post("/{id}/items", cartHandler.AddItem)
				g.Patch("/{id}/items/{lineId}", cartHandler.UpdateItem)
				g.Delete("/{id}/items/{lineId}", cartHandler.RemoveItem)
				g.With(applyLimit.Middleware).Post("/{id}/discount", cartHandler.ApplyDiscount)
				g.Delete("/{id}/discount", cartHandler.RemoveDiscount)
			})
		})

		v.Post("/checkout/review", checkoutHandler.Review)

		v.Post("/admin/login", authHandler.Login)
		v.Route("/admin", func(admin chi.Router) {
			admin.Use(authMiddleware.RequireAdmin)
			admin.Get("/me", authHandler.Me)
			admin.Get("/discounts", discountHandler.List)
			admin.Post("/discounts", discountHandler.Create)
			admin.Put("/discounts/{code}", discountHandler.Update)
			admin.Get("/delivery/zones", deliveryHandler.ListZones)
			admin.Post("/delivery/zones", deliveryHandler.CreateZone)
			admin.Put("/delivery/zones/{zoneId}", deliveryHandler.UpdateZone)
			admin.Post("/delivery/zones/{zoneId}/methods", deliveryHandler.CreateMethod)
			admin.Delete("/delivery/methods/{methodId}", deliveryHandler.DeleteMethod)
			admin.Get("/settings/minimum-order", settingsHandler.GetMinimumOrder)
			admin.Put("/settings/minimum-order", settingsHandler.SetMinimumOrder)
		})
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	}()

	<-runCtx.Done()
	health.SetReady(false)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown")
	}
	logger.Info().Msg("server stopped")
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

type readinessChecker struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func (c readinessChecker) PingDB(ctx context.Context, timeout time.Duration) error {
	if c.db == nil {
		return errors.New("db not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.db.Ping(ctx)
}

func (c readinessChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
	if c.redis == nil {
		return errors.New("redis not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.redis.Ping(ctx).Err()
}
