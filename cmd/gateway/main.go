package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	api "github.com/Thebinary110/Free-L/internal/api/http"
	"github.com/Thebinary110/Free-L/internal/catalog"
	"github.com/Thebinary110/Free-L/internal/config"
	"github.com/Thebinary110/Free-L/internal/counsel"
	"github.com/Thebinary110/Free-L/internal/dataset"
	"github.com/Thebinary110/Free-L/internal/rank"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.FromEnv()

	// --- Dataset source ---
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dsn := cfg.DatasetDSN
	if cfg.DatasetDriver == "json" && dsn == "" {
		dsn = cfg.DataDir
	}
	src, err := dataset.OpenSource(ctx, cfg.DatasetDriver, dsn)
	if err != nil {
		log.Fatalf("dataset source: %v", err)
	}
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}

	// --- Rank curve ---
	curve := rank.DefaultCurve()
	if cfg.CurvePath != "" {
		if curve, err = rank.LoadCurve(cfg.CurvePath); err != nil {
			log.Fatalf("rank curve: %v", err)
		}
	}

	// --- Catalog, warmed from the cache file when one exists ---
	var opts []catalog.Option
	if cfg.MetadataCache != "" {
		opts = append(opts, catalog.WithCacheFile(cfg.MetadataCache))
	}
	cat := catalog.New(src, opts...)
	if err := cat.Prime(ctx); err != nil {
		log.Printf("Warning: priming metadata failed: %v", err)
	}

	svc := counsel.New(cat, rank.NewEstimator(curve))

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/states", api.ListStatesHandler(svc))
	r.Route("/states/{state}", func(sr chi.Router) {
		sr.Get("/metadata", api.StateMetadataHandler(svc))
		sr.Get("/quotas", api.StateQuotasHandler(svc))
		sr.Get("/categories", api.StateCategoriesHandler(svc))
		sr.Get("/rounds", api.StateRoundsHandler(svc))
	})
	r.Post("/query", api.QueryCollegesHandler(svc))
	r.Post("/statistics", api.StatisticsHandler(svc))
	r.Post("/estimate", api.EstimateRankHandler(svc))
	r.Post("/recommend", api.RecommendHandler(svc))
	r.Post("/refresh-metadata", api.RefreshMetadataHandler(svc))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := svc.Regions(r.Context()); err != nil {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})

	if cfg.EnableMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	log.Printf("listening on %s (driver=%s)", cfg.HTTPAddr, cfg.DatasetDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
