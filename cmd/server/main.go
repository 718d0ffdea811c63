package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"beanthere/internal/auth"
	"beanthere/internal/blob"
	"beanthere/internal/cache"
	"beanthere/internal/config"
	"beanthere/internal/domain/repositories"
	"beanthere/internal/geo"
	"beanthere/internal/handler"
	"beanthere/internal/mapview"
	"beanthere/internal/match"
	"beanthere/internal/metrics"
	"beanthere/internal/middleware"
	"beanthere/internal/places"
	"beanthere/internal/repository"
	"beanthere/internal/repository/sqlite"
	"beanthere/internal/sanitizer"
	"beanthere/internal/service"
	serviceAuth "beanthere/internal/service/auth"
	"beanthere/internal/supabase"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logOut, closeLog, err := config.LogWriter(cfg)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer closeLog()

	logger := config.NewLogger(cfg.Environment, logOut)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"store_backend", cfg.StoreBackend,
		"blob_backend", cfg.BlobBackend,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metrics.Handler())

	var verifier auth.JWTVerifier
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)
	rateLimiter.StartCleanup(time.Minute, ctx.Done())

	// A bad list is reported by Validate; until then no proxy is trusted
	trustedProxies, _ := config.ParseTrustedProxies(cfg.TrustedProxies)

	if setupErr := cfg.Validate(); setupErr != nil {
		// Setup mode: the server stays up so /health can explain what is missing
		logger.Warn("configuration incomplete, serving setup mode", "error", setupErr)
		mux.HandleFunc("GET /health", handler.NewHealthHandler(cfg.Environment, setupErr).Health)
		mux.Handle("/api/", handler.SetupRequired(setupErr))
	} else {
		handlers, cleanup := buildHandlers(ctx, cfg, logger)
		defer cleanup()

		verifier, err = auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer verifier.Close()

		handlers.Register(mux)
	}

	// Outermost first. metrics must wrap the mux directly to see r.Pattern.
	var h http.Handler = middleware.Chain(mux,
		middleware.Recovery(logger),
		middleware.RealIP(trustedProxies),
		middleware.Device,
		middleware.Authenticate(verifier, logger),
		middleware.ForwardAccessToken,
		rateLimiter.Handler,
		metrics.Middleware(),
	)

	// CORS - Must be outside auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.DeviceHeader},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// buildHandlers wires stores, clients and services. The returned cleanup
// closes every connection it opened.
func buildHandlers(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*handler.Handlers, func()) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	client, err := supabase.New(supabase.Config{URL: cfg.SupabaseURL, APIKey: cfg.SupabaseKey})
	if err != nil {
		log.Fatalf("Failed to create Supabase client: %v", err)
	}

	stores, err := repository.Open(ctx, cfg, client, logger)
	if err != nil {
		log.Fatalf("Failed to open document store: %v", err)
	}
	closers = append(closers, stores.Close)

	blobs, err := openBlobStore(ctx, cfg, client)
	if err != nil {
		log.Fatalf("Failed to open blob store: %v", err)
	}

	db, err := sqlite.Open(cfg.LocalStorePath)
	if err != nil {
		log.Fatalf("Failed to open local store: %v", err)
	}
	closers = append(closers, func() { _ = db.Close() })

	redisCache, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		// Places still work uncached
		logger.Warn("redis unavailable, places cache disabled", "addr", cfg.RedisAddr, "error", err)
	}
	closers = append(closers, func() { _ = redisCache.Close() })

	placesCfg := places.ComponentConfig{
		Cache:    redisCache,
		CacheTTL: cfg.PlacesCacheTTL,
		Recorder: metrics.Places{},
		Logger:   logger,
	}
	if cfg.PlacesAPIKey != "" {
		placesCfg.Provider = places.NewGoogleClientWithConfig(cfg.PlacesAPIKey, cfg.PlacesBaseURL, places.DefaultGoogleTimeout)
	} else {
		logger.Warn("GOOGLE_PLACES_API_KEY not set, places search disabled")
	}

	table, err := match.DefaultTable()
	if err != nil {
		log.Fatalf("Failed to load match table: %v", err)
	}

	// Services
	prefs := service.NewPreferencesProvider(sqlite.NewLocalStore(db), logger)
	identity := service.NewIdentityService(client.Auth(), prefs, logger)
	authorizer := serviceAuth.NewOwnerBasedAuthorizer(stores.Reviews, stores.Favorites)
	reviews := service.NewReviewService(stores.Reviews, authorizer, stores.Tx, sanitizer.NewTextSanitizer(), logger)
	favorites := service.NewFavoriteService(stores.Favorites, authorizer, identity, logger)
	profiles := service.NewProfileService(stores.Profiles, blobs, logger)
	tastes := service.NewTasteProfileService(reviews)
	catalog := service.NewCatalogService(stores.Cafes, logger)
	explore := service.NewExploreService(
		geo.NewLocator(logger),
		places.NewComponent(placesCfg),
		match.NewEngine(table),
		cfg.IPLookupURL,
		logger,
	)

	return &handler.Handlers{
		Health:      handler.NewHealthHandler(cfg.Environment, nil),
		Cafes:       handler.NewCafeHandler(catalog, logger),
		Explore:     handler.NewExploreHandler(explore, prefs, mapview.NewRenderer(), logger),
		Preferences: handler.NewPreferencesHandler(prefs, logger),
		Reviews:     handler.NewReviewHandler(reviews, tastes, prefs, logger),
		Favorites:   handler.NewFavoriteHandler(favorites, logger),
		Profiles:    handler.NewProfileHandler(profiles, logger),
		Auth:        handler.NewAuthHandler(identity, profiles, logger),
	}, cleanup
}

func openBlobStore(ctx context.Context, cfg *config.Config, client *supabase.Client) (repositories.BlobStore, error) {
	if cfg.BlobBackend == "s3" {
		store, err := blob.NewS3Store(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return blob.NewSupabaseStore(client, cfg.StorageBucket), nil
}
