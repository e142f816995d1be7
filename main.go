package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andrewpaige1/studydeck/auth"
	"github.com/andrewpaige1/studydeck/config"
	"github.com/andrewpaige1/studydeck/handlers"
	"github.com/andrewpaige1/studydeck/logger"
	"github.com/andrewpaige1/studydeck/middleware"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	env, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(env.LogMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if env.DotenvErr != nil {
		log.Warn(".env file not found, environment variables might not be loaded", "error", env.DotenvErr)
	}

	// Initialize database connection
	db, err := config.Connect(env.DBURL)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	authMiddleware, err := middleware.EnsureValidToken(env.JWTSecret, env.JWTIssuer, env.JWTAudience, log)
	if err != nil {
		return fmt.Errorf("set up jwt validator: %w", err)
	}

	DBHandler := &handlers.DBHandler{
		DB: db,
		Tokens: &auth.TokenIssuer{
			Secret:   env.JWTSecret,
			Issuer:   env.JWTIssuer,
			Audience: env.JWTAudience,
			TTL:      env.TokenTTL,
		},
		Log: log.With("component", "api"),
	}
	mux := http.NewServeMux()
	handlers.Register(mux, DBHandler)

	// Configure CORS with specific options
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   env.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(authMiddleware(mux))

	srv := &http.Server{
		Addr:              env.Addr(),
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", srv.Addr, "development", env.IsDevelopment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
