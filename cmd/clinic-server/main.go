package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/torildhov/sandefjord-legesenter-booking-system/internal/config"
	"github.com/torildhov/sandefjord-legesenter-booking-system/internal/domain/account"
	"github.com/torildhov/sandefjord-legesenter-booking-system/internal/domain/booking"
	"github.com/torildhov/sandefjord-legesenter-booking-system/internal/domain/doctor"
	"github.com/torildhov/sandefjord-legesenter-booking-system/internal/platform/auth"
	"github.com/torildhov/sandefjord-legesenter-booking-system/internal/platform/db"
	"github.com/torildhov/sandefjord-legesenter-booking-system/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Clinic appointment booking API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the booking API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			logger := newLogger("development")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, db.PoolConfig{
				URL:      cfg.DatabaseURL,
				MaxConns: cfg.DBMaxConns,
				MinConns: cfg.DBMinConns,
			}, logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			return db.NewMigrator(pool, dir, logger).Up(ctx)
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			logger := newLogger("development")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, db.PoolConfig{
				URL:      cfg.DatabaseURL,
				MaxConns: cfg.DBMaxConns,
				MinConns: cfg.DBMinConns,
			}, logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			all, applied, err := db.NewMigrator(pool, dir, logger).Status(ctx)
			if err != nil {
				return fmt.Errorf("migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %s\n", "VERSION", "NAME", "STATUS")
			for _, m := range all {
				status := "pending"
				if applied[m.Version] {
					status = "applied"
				}
				fmt.Printf("%03d        %-40s %s\n", m.Version, m.Name, status)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func newLogger(env string) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if env == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return logger
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg.Env)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, db.PoolConfig{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	}, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)

	accountRepo := account.NewPgRepository(pool)
	accountSvc := account.NewService(accountRepo, tokens, logger)
	accountHandler := account.NewHandler(accountSvc)

	doctorRepo := doctor.NewPgRepository(pool)
	doctorSvc := doctor.NewService(doctorRepo, logger)
	doctorHandler := doctor.NewHandler(doctorSvc)

	bookingRepo := booking.NewPgRepository(pool)
	bookingSvc := booking.NewService(bookingRepo, doctorRepo, cfg.CancellationWindowHours, logger)
	bookingHandler := booking.NewHandler(bookingSvc)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/db", func(c echo.Context) error {
		if err := db.Health(c.Request().Context(), pool); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "down"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public auth endpoints, throttled per client IP
	api := e.Group("/api")
	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst)
	api.Use(authLimiter.Middleware())
	accountHandler.RegisterRoutes(api)

	// Patient endpoints require a valid token
	patient := e.Group("/api")
	patient.Use(auth.Middleware(tokens))
	bookingHandler.RegisterPatientRoutes(patient)

	// Admin endpoints additionally require the admin role
	admin := e.Group("/api/admin")
	admin.Use(auth.Middleware(tokens), auth.RequireRole(account.RoleAdmin))
	doctorHandler.RegisterRoutes(admin)
	bookingHandler.RegisterAdminRoutes(admin)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
