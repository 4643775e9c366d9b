package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-records/internal/adapters/auth/localjwt"
	"pet-records/internal/adapters/auth/odin"
	"pet-records/internal/adapters/blob/localfs"
	"pet-records/internal/adapters/storage"
	"pet-records/internal/domain/accounts"
	"pet-records/internal/domain/taxonomy"
	"pet-records/internal/platform/config"
	"pet-records/internal/platform/logger"
	"pet-records/internal/ports/auth"
	"pet-records/internal/router"
)

// @title Pet Records API
// @version 1.0
// @description Perfiles de mascotas con historial de peso, salud y vacunas.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewFromEnv().Error("config error", map[string]any{"err": err})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", map[string]any{"err": err})
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

func run(cfg config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := storage.Open(ctx, cfg.DBDSN, true)
	if err != nil {
		return err
	}
	defer func() { _ = repos.Close() }()
	log.Info("storage ready", map[string]any{"backend": repos.Backend})

	verifier, issuer, err := authFor(cfg)
	if err != nil {
		return err
	}
	passwords := accounts.NewPasswords(accounts.DefaultCost)

	if err := seed(ctx, cfg, repos, passwords, issuer, log); err != nil {
		return err
	}

	blobs, err := localfs.New(cfg.Media.Root, cfg.Media.URL)
	if err != nil {
		return err
	}

	h, err := router.NewRouter(router.Options{
		Repos:              repos,
		Blobs:              blobs,
		AuthVerifier:       verifier,
		TokenIssuer:        issuer,
		Passwords:          passwords,
		Logger:             log,
		MediaDir:           blobs.Root(),
		MediaURL:           cfg.Media.URL,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		MaxUploadBytes:     cfg.Media.MaxUploadBytes,
		Location:           cfg.Location,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "auth_mode": string(cfg.Auth.Mode)})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// authFor elige verifier/issuer según AUTH_MODE. En dev ambos son nil.
func authFor(cfg config.Config) (auth.AuthVerifier, auth.TokenIssuer, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeJWT:
		m, err := localjwt.New(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTTTL)
		if err != nil {
			return nil, nil, err
		}
		return m, m, nil
	case config.AuthModeOdin:
		v, err := odin.NewVerifier(odin.Config{BaseURL: cfg.Auth.OdinBaseURL, APIKey: cfg.Auth.OdinAPIKey})
		if err != nil {
			return nil, nil, err
		}
		return v, nil, nil
	default:
		return nil, nil, nil
	}
}

func seed(ctx context.Context, cfg config.Config, repos storage.Repositories, pw *accounts.Passwords, issuer auth.TokenIssuer, log logger.Logger) error {
	if cfg.Seed.Taxonomy {
		n, err := taxonomy.NewService(repos.Taxonomy).SeedDefaults(ctx)
		if err != nil {
			return err
		}
		log.Info("taxonomy seeded", map[string]any{"created": n})
	}

	if cfg.Seed.AdminUsername == "" {
		return nil
	}
	u, created, err := accounts.NewService(repos.Users, pw, issuer).
		EnsureUser(ctx, cfg.Seed.AdminUsername, cfg.Seed.AdminPassword)
	if err != nil {
		return err
	}
	if created {
		log.Info("admin user created", map[string]any{"username": u.Username})
	}
	return nil
}
