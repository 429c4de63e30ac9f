package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"waste-route-service/internal/adapters/binstore"
	"waste-route-service/internal/adapters/directions"
	"waste-route-service/internal/api"
	"waste-route-service/internal/config"
	"waste-route-service/internal/domain"
	"waste-route-service/internal/ports"
	"waste-route-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Redis/Postgres store, maps provider)
// behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfgPath := getEnv("CONFIG_PATH", "config.yaml")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	// A missing credential blocks route planning entirely, so it is a
	// fatal startup error rather than a silent degradation.
	mapsKey := os.Getenv("MAPS_API_KEY")
	if strings.TrimSpace(mapsKey) == "" {
		log.Fatal("MAPS_API_KEY is required")
	}

	provider, err := directions.NewGoogleMapsProvider(mapsKey)
	if err != nil {
		log.Fatal(err)
	}

	store, cleanup, err := openStore(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	ledger, err := services.NewCapacityLedger(cfg.Truck.CapacityKg)
	if err != nil {
		log.Fatal(err)
	}

	registry := services.NewBinRegistry(store, ledger)

	// An unreadable persisted set degrades to an empty one; the
	// service still comes up.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := registry.Load(ctx); err != nil {
		if errors.Is(err, domain.ErrStorageCorrupt) {
			log.Printf("warning: %v; starting from an empty bin set", err)
		} else {
			log.Fatal(err)
		}
	}
	cancel()

	depot := domain.Coordinates{Lat: cfg.Depot.Lat, Lng: cfg.Depot.Lng}
	planner := services.NewRoutePlanner(registry, provider, depot)

	router := api.NewRouter(registry, planner, provider)

	// Timeouts are tuned for multi-stop route planning (external API latency).
	log.Printf("Server listening addr=:%s depot=%s capacity=%.1fkg", cfg.Port, depot, ledger.Limit())
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openStore(cfg *config.Config) (ports.BinStore, func(), error) {
	switch cfg.Store.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Store.RedisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, nil, fmt.Errorf("open store: verify redis connection to %q: %w", cfg.Store.RedisAddr, err)
		}

		store, err := binstore.NewRedisBinStore(client, cfg.Store.Key)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return store, func() { _ = client.Close() }, nil

	case "postgres":
		db, err := sql.Open("pgx", cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: open postgres database: %w", err)
		}
		if err := db.Ping(); err != nil {
			return nil, nil, fmt.Errorf("open store: verify postgres connection: %w", err)
		}
		if err := binstore.InitSchema(db); err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}

		store, err := binstore.NewPostgresBinStore(db, cfg.Store.Key)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return store, func() { _ = db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("open store: unknown backend %q", cfg.Store.Backend)
	}
}
