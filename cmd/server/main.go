package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"storefront-delivery-service/internal/adapters/cache"
	"storefront-delivery-service/internal/adapters/geocode"
	"storefront-delivery-service/internal/adapters/notify"
	"storefront-delivery-service/internal/adapters/repositories"
	"storefront-delivery-service/internal/adapters/routing"
	"storefront-delivery-service/internal/api"
	"storefront-delivery-service/internal/api/handlers"
	"storefront-delivery-service/internal/auth"
	"storefront-delivery-service/internal/config"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/db"
	"storefront-delivery-service/internal/platform/obs"
	"storefront-delivery-service/internal/platform/report"
	"storefront-delivery-service/internal/ports"
	"storefront-delivery-service/internal/services"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

var version = "dev"

// main is the application composition root.
// It wires concrete adapters behind ports and starts the HTTP server.
func main() {
	log := obs.Log()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	obs.Configure(cfg.Log.Level, cfg.Log.Format)

	if err := report.Setup(cfg.Sentry.DSN, cfg.Sentry.Environment, version); err != nil {
		log.WithError(err).Warn("sentry disabled")
	}
	defer report.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	geoCache, closeCache, err := openGeocodeCache(ctx, cfg.Cache)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	nominatim, err := geocode.NewNominatimClient(geocode.NominatimConfig{
		BaseURL:           cfg.Geocode.BaseURL,
		Locality:          cfg.Geocode.Locality,
		UserAgent:         cfg.Geocode.UserAgent,
		RequestsPerSecond: cfg.Geocode.RequestsPerSecond,
		Timeout:           cfg.Geocode.Timeout,
	})
	if err != nil {
		log.Fatal(err)
	}
	geocoder, err := geocode.NewCachingGeocoder(nominatim, geoCache)
	if err != nil {
		log.Fatal(err)
	}

	osrm, err := routing.NewOSRMClient(routing.OSRMConfig{
		BaseURL:     cfg.Routing.BaseURL,
		Profile:     cfg.Routing.Profile,
		Timeout:     cfg.Routing.Timeout,
		MaxAttempts: cfg.Routing.MaxAttempts,
	})
	if err != nil {
		log.Fatal(err)
	}

	products := repositories.NewMemoryProductRepository()
	if cfg.SeedPath != "" {
		err = products.SeedFromJSON(ctx, cfg.SeedPath)
	} else {
		err = products.Seed(ctx, repositories.DefaultProducts())
	}
	if err != nil {
		log.Fatal(err)
	}

	notifier, closeNotifier, err := newNotifier(cfg.Kafka)
	if err != nil {
		log.Fatal(err)
	}
	defer closeNotifier()

	issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.AdminTTL, cfg.Auth.CustomerTTL)
	if err != nil {
		log.Fatal(err)
	}
	admin, err := auth.NewAdminAccount(cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
	if err != nil {
		log.Fatal(err)
	}
	if !admin.Enabled() {
		log.Warn("ADMIN_PASSWORD is empty; admin login is disabled")
	}

	store := domain.Coordinates{Lat: cfg.Store.Lat, Lon: cfg.Store.Lon}
	assessor := &services.DeliveryAssessor{
		Geocoder:     geocoder,
		Estimator:    osrm,
		Store:        store,
		RadiusMeters: cfg.Store.RadiusMeters,
		MaxResults:   cfg.Geocode.MaxResults,
		MinChars:     cfg.Geocode.MinChars,
		ETATimeout:   cfg.Routing.Timeout,
	}
	orders := services.NewOrderService(repositories.NewMemoryOrderRepository(), notifier, store, cfg.Store.RadiusMeters)

	router := api.NewRouter(api.Deps{
		Health: &handlers.HealthHandler{Version: version, StartedAt: time.Now()},
		Delivery: &handlers.DeliveryHandler{
			Geocoder:    geocoder,
			Assessor:    assessor,
			StoreName:   cfg.Store.Name,
			DefaultZoom: cfg.Store.DefaultZoom,
			MaxResults:  cfg.Geocode.MaxResults,
			MinChars:    cfg.Geocode.MinChars,
		},
		Orders:         &handlers.OrderHandler{Orders: orders, Estimator: osrm},
		Products:       &handlers.ProductHandler{Products: services.NewProductService(products)},
		Auth:           &handlers.AuthHandler{Issuer: issuer, Admin: admin},
		Issuer:         issuer,
		GeocodeLimiter: api.NewRateLimiter(cfg.Server.GeocodeRPS, cfg.Server.GeocodeBurst),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

// openGeocodeCache picks the geocode cache backend. "none" returns a nil
// cache, which the caching geocoder treats as pass-through.
func openGeocodeCache(ctx context.Context, cfg config.CacheConfig) (ports.GeocodeCache, func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, noop, err
		}
		return cache.NewRedisGeocodeCache(rdb, cfg.TTL), func() { rdb.Close() }, nil

	case "postgres":
		conn, err := db.Open(ctx, cfg.DatabaseURL, db.DefaultPool())
		if err != nil {
			return nil, noop, err
		}
		if err := repositories.InitSchema(conn); err != nil {
			conn.Close()
			return nil, noop, err
		}
		return cache.NewSQLGeocodeCache(conn, cfg.TTL), closeDB(conn), nil
	}

	return nil, noop, nil
}

func closeDB(conn *sql.DB) func() {
	return func() { conn.Close() }
}

func newNotifier(cfg config.KafkaConfig) (ports.OrderNotifier, func(), error) {
	if len(cfg.Brokers) == 0 {
		return notify.LogNotifier{}, func() {}, nil
	}

	producer, err := notify.NewKafkaProducer(cfg.Brokers)
	if err != nil {
		return nil, func() {}, err
	}
	k := notify.NewKafkaNotifier(producer, cfg.Topic)
	return k, func() { k.Close() }, nil
}
