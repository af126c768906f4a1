package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"kawasaki_site/cache"
	"kawasaki_site/config"
	"kawasaki_site/handlers"
	"kawasaki_site/middleware"
	"kawasaki_site/repository"
	"kawasaki_site/service"
)

func main() {
	port := config.Port()

	log.Printf("Initializing %s data backend...", config.DataSource())
	facilitySrc, menuSrc, closeBackend, err := newDataBackend()
	if err != nil {
		log.Fatalf("Failed to initialize data backend: %v", err)
	}
	defer closeBackend()

	facilityCache := cache.New()
	defer facilityCache.Close()

	repo := repository.NewFacilityRepository(facilitySrc)
	discovery := service.NewDiscoveryService(repo, facilityCache, config.CacheTTL())
	menus := service.NewMenuService(menuSrc)

	r := mux.NewRouter()

	// CORS configuration
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"https://kawasaki-kyushoku.jp",
			"https://www.kawasaki-kyushoku.jp",
		},
		AllowedMethods: []string{
			"GET", "POST", "OPTIONS",
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Requested-With",
			"Origin",
		},
		MaxAge: 86400,
	})

	r.Use(corsHandler.Handler)
	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)

	api := r.PathPrefix("/api/v1").Subrouter()
	registerRoutes(api, handlers.NewFacilityHandler(discovery), handlers.NewMenuHandler(menus))
	api.HandleFunc("/health", healthCheck).Methods("GET")
	log.Println("Routes registered successfully")

	srv := &http.Server{
		Handler:           r,
		Addr:              ":" + port,
		WriteTimeout:      15 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Printf("Starting server on port %s...", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("Shutdown signal received")
	case err := <-serverErrors:
		log.Printf("Server error received: %v", err)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	} else {
		log.Println("Server shutdown completed successfully")
	}
}

// newDataBackend builds the dataset source named by DATA_SOURCE. All
// backends serve both the facility partitions and the menu months.
func newDataBackend() (repository.Source, repository.MenuSource, func(), error) {
	switch backend := config.DataSource(); backend {
	case config.SourceFile:
		src := repository.NewFileSource(config.DataDir())
		return src, src, func() {}, nil

	case config.SourcePostgres:
		db, err := config.ConnectPostgres()
		if err != nil {
			return nil, nil, nil, err
		}
		src := repository.NewPostgresSource(db)
		return src, src, func() { db.Close() }, nil

	case config.SourceMongo:
		client, db, err := config.ConnectMongo(context.Background())
		if err != nil {
			return nil, nil, nil, err
		}
		src := repository.NewMongoSource(db)
		return src, src, func() { client.Disconnect(context.Background()) }, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown DATA_SOURCE %q", backend)
	}
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":      "ok",
		"data_source": config.DataSource(),
		"timestamp":   time.Now().Format(time.RFC3339),
	})
}

func registerRoutes(api *mux.Router, facilities *handlers.FacilityHandler, menus *handlers.MenuHandler) {
	// Facility routes
	api.HandleFunc("/facilities", facilities.List).Methods("GET")
	api.HandleFunc("/facilities/search", facilities.Search).Methods("GET")
	api.HandleFunc("/facilities/nearby", facilities.Nearby).Methods("GET")
	api.HandleFunc("/facilities/cache/stats", facilities.CacheStats).Methods("GET")
	api.HandleFunc("/facilities/cache/invalidate", facilities.InvalidateCache).Methods("POST")
	api.HandleFunc("/facilities/{id}", facilities.Detail).Methods("GET")

	// Menu routes
	api.HandleFunc("/menus/{month}", menus.Monthly).Methods("GET")
}
