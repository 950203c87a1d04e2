package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"ember_server/config"
	"ember_server/middleware"
	"ember_server/metrics"
	"ember_server/routes"
	"ember_server/services"
	"ember_server/socket"
	"ember_server/storage"
	"ember_server/storage/blob"
	"ember_server/storage/postgres"
	"ember_server/storage/rediscache"
)

func main() {
	log := logrus.New()

	// A missing .env is fine; the environment may carry everything.
	if err := godotenv.Load(); err == nil {
		log.Info("loaded .env file")
	}

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL must be set")
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET must be set")
	}

	ctx := context.Background()

	// Postgres pool and schema.
	db, err := postgres.Open(cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to reach database: %v", err)
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	store := postgres.New(db, cfg.DBAcquireTimeout)
	log.Info("Postgres connection established")

	// Redis media cache.
	cache, err := rediscache.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Info("Redis connection established")

	// Picture blob store.
	var blobs storage.BlobStore
	switch cfg.MediaBackend {
	case "s3":
		blobs, err = blob.NewS3Store(ctx, cfg.AWSRegion, cfg.S3Bucket)
		if err != nil {
			log.Fatalf("Failed to initialize S3 blob store: %v", err)
		}
	default:
		blobs, err = blob.NewFSStore(cfg.MediaDir)
		if err != nil {
			log.Fatalf("Failed to initialize media dir: %v", err)
		}
	}

	// Socket.IO hub for match notifications.
	hub := socket.NewHub(log)
	go func() {
		if err := hub.Serve(); err != nil {
			log.WithError(err).Error("socket server stopped")
		}
	}()
	defer hub.Close()

	// Services.
	sessionService := services.NewSessionService(cfg.SessionSecret)
	userService := services.NewUserService(store, log)
	matchService := services.NewMatchService(store, store, hub, log)
	mediaService := services.NewMediaService(store, blobs, cache, log)
	auth := middleware.NewSessionAuthenticator(sessionService, store, log)

	// Router.
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(log))
	r.Use(middleware.MetricsMiddleware())

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Ember")
	}).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	r.Handle("/metrics", metrics.Handler()).Methods("GET")
	r.PathPrefix("/socket.io/").Handler(hub.Handler())

	routes.RegisterUserRoutes(r, userService, mediaService, sessionService, auth, log)
	routes.RegisterSwipeRoutes(r, matchService, auth)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	log.Infof("Starting server on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, corsHandler))
}
