package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"waste-route-service/internal/adapters/binstore"
	"waste-route-service/internal/adapters/directions"
	"waste-route-service/internal/config"
	"waste-route-service/internal/domain"
	"waste-route-service/internal/ports"
)

// storetool initializes the Postgres bin store and seeds it from a
// JSON file, reverse-geocoding seed entries that ship without a
// display location.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	log.Println("Initializing bin store schema...")
	if err := binstore.InitSchema(db); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	cfg, err := config.Load(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal(err)
	}

	store, err := binstore.NewPostgresBinStore(db, cfg.Store.Key)
	if err != nil {
		log.Fatal(err)
	}

	// Geocoding is optional here: without a key the seeds keep their
	// pinned-coordinate placeholders.
	var geocoder ports.Geocoder
	if key := os.Getenv("MAPS_API_KEY"); strings.TrimSpace(key) != "" {
		provider, err := directions.NewGoogleMapsProvider(key)
		if err != nil {
			log.Fatal(err)
		}
		geocoder = provider
	}

	seedPath := getEnv("SEED_PATH", "data/seeds/bins.json")
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	log.Println("Seeding bin store...")
	if err := seedFromJSON(ctx, store, geocoder, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type binSeed struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	AmountKg float64 `json:"amount_kg"`
	Location string  `json:"location"`
}

// seedFromJSON replaces the persisted bin set with the seed file's
// contents. Missing locations are reverse-geocoded with a bounded
// worker group before the set is written in one save.
func seedFromJSON(ctx context.Context, store ports.BinStore, geocoder ports.Geocoder, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed bins: read %q: %w", jsonPath, err)
	}

	var seeds []binSeed
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return fmt.Errorf("seed bins: parse json: %w", err)
	}

	bins := make([]domain.BinRecord, len(seeds))
	for i, s := range seeds {
		coord := domain.Coordinates{Lat: s.Lat, Lng: s.Lng}
		if !coord.Valid() {
			return fmt.Errorf("seed bins: invalid coordinate at index %d", i)
		}
		if s.AmountKg <= 0 {
			return fmt.Errorf("seed bins: amount at index %d must be positive, got %v", i, s.AmountKg)
		}

		location := strings.TrimSpace(s.Location)
		if location == "" {
			location = coord.PinnedLabel()
		}

		bins[i] = domain.BinRecord{
			ID:         domain.NewBinID(),
			Location:   location,
			AmountKg:   s.AmountKg,
			Coordinate: coord,
			CreatedAt:  time.Now().UTC(),
		}
	}

	if geocoder != nil {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(4)

		for i := range bins {
			if strings.TrimSpace(seeds[i].Location) != "" {
				continue
			}

			i := i
			g.Go(func() error {
				addr, err := geocoder.ReverseGeocode(gctx, bins[i].Coordinate)
				if errors.Is(err, ports.ErrNoAddress) {
					return nil
				}
				if err != nil {
					return fmt.Errorf("seed bins: reverse geocode %s: %w", bins[i].Coordinate, err)
				}
				bins[i].Location = addr
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}
	}

	if err := store.Save(ctx, bins); err != nil {
		return fmt.Errorf("seed bins: %w", err)
	}

	return nil
}
