package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/MarianoCuria/PeliGo/api"
	"github.com/MarianoCuria/PeliGo/config"
	"github.com/MarianoCuria/PeliGo/handlers"
	"github.com/MarianoCuria/PeliGo/internal/database"
	catalogsvc "github.com/MarianoCuria/PeliGo/services/catalog"
	favoritessvc "github.com/MarianoCuria/PeliGo/services/favorites"
	"github.com/MarianoCuria/PeliGo/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	if cfg.LogFile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    20, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
		})
	}

	if cfg.TMDBAPIKey == "" {
		log.Printf("[main] TMDB_API_KEY no configurada; catalog endpoints will return 503")
	}

	db, err := database.NewDB(database.Config{DatabasePath: cfg.DatabasePath})
	if err != nil {
		log.Fatalf("[main] failed to open database: %v", err)
	}
	defer db.Close()

	catalog := catalogsvc.NewService(cfg.TMDBAPIKey, cfg.Language, cfg.Region, cfg.CacheDir, cfg.CacheTTLHours)
	if cfg.ClearCacheOnStart {
		if err := catalog.ClearCache(); err != nil {
			log.Printf("[main] failed to clear response cache: %v", err)
		} else {
			log.Printf("[main] response cache cleared")
		}
	}
	favorites := favoritessvc.NewService(database.NewFavoritesRepository(db.Connection()))

	catalogHandler := handlers.NewCatalogHandler(catalog)
	catalogHandler.SetSearchRecorder(favorites)
	favoritesHandler := handlers.NewFavoritesHandler(favorites)

	router := utils.NewRouter()
	router.Use(api.RequestIDMiddleware())
	router.Use(api.LoggingMiddleware())
	router.Use(api.CORSMiddleware())
	router.Use(api.RateLimitMiddleware(api.NewIPRateLimiter(rate.Every(time.Second), 30)))

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/home", catalogHandler.Home).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/search", catalogHandler.Search).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/trending", catalogHandler.Trending).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/now-playing", catalogHandler.NowPlaying).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/title/{type}/{id}", catalogHandler.TitleDetail).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/users/{userID}/favorites", favoritesHandler.List).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/users/{userID}/favorites", favoritesHandler.Add).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/users/{userID}/favorites/{id}", favoritesHandler.Status).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/users/{userID}/favorites/{id}", favoritesHandler.Remove).Methods(http.MethodDelete, http.MethodOptions)
	apiRouter.HandleFunc("/users/{userID}/recent-searches", favoritesHandler.RecordSearch).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/users/{userID}/recent-searches", favoritesHandler.RecentSearches).Methods(http.MethodGet, http.MethodOptions)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("[main] listening on %s (region=%s language=%s)", cfg.Addr, cfg.Region, cfg.Language)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("[main] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[main] shutdown error: %v", err)
	}
}
