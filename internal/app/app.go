// Package app builds the store, identity decoder, notifier and services
// from configuration. Both binaries start here.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	httpapi "unify-backend/internal/api/http"
	"unify-backend/internal/config"
	"unify-backend/internal/logger"
	"unify-backend/internal/metrics"
	"unify-backend/internal/repository"
	"unify-backend/internal/repository/firestoredb"
	"unify-backend/internal/repository/memory"
	"unify-backend/internal/repository/postgres"
	"unify-backend/internal/security"
	"unify-backend/internal/service"
)

type App struct {
	Config    *config.Config
	Store     *repository.Store
	Metrics   *metrics.Metrics
	Decoder   security.TokenDecoder
	Notifier  service.Notifier
	API       httpapi.Services
	Reconcile service.ReconcileService

	firebase *firebase.App
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg, Metrics: metrics.New()}

	if cfg.Store.Driver == config.StoreFirestore || cfg.Auth.Provider == config.AuthProviderFirebase {
		fb, err := newFirebaseApp(ctx, cfg.Firebase)
		if err != nil {
			return nil, err
		}
		a.firebase = fb
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	a.Store = store

	if a.Decoder, err = a.newDecoder(ctx); err != nil {
		return nil, errors.Join(err, store.Close())
	}
	a.Notifier = newNotifier(cfg.Email)

	heads := service.NewChapterHeadService(store, a.Metrics)
	a.API = httpapi.Services{
		Registrations: service.NewRegistrationService(store, heads, a.Notifier, a.Metrics),
		ChapterHeads:  heads,
		Students:      service.NewStudentService(store),
		Admin:         service.NewAdminService(store, a.Metrics),
	}
	a.Reconcile = service.NewReconcileService(store, a.Metrics)
	return a, nil
}

func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

func newFirebaseApp(ctx context.Context, cfg config.FirebaseConfig) (*firebase.App, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	fb, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase: %w", err)
	}
	return fb, nil
}

func (a *App) openStore(ctx context.Context) (*repository.Store, error) {
	cfg := a.Config
	switch cfg.Store.Driver {
	case config.StorePostgres:
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		if cfg.Database.EnsureSchema {
			if err := postgres.EnsureSchema(ctx, db); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to create schema: %w", err)
			}
		}
		logger.Info("Database connection established")
		return postgres.NewStore(db), nil

	case config.StoreFirestore:
		client, err := a.firebase.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to open firestore: %w", err)
		}
		logger.Info("Firestore client ready", "project", cfg.Firebase.ProjectID)
		return firestoredb.NewStore(client), nil

	case config.StoreMemory:
		logger.Warn("Using in-memory store; data is lost on restart")
		return memory.NewStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver: %q", cfg.Store.Driver)
}

func (a *App) newDecoder(ctx context.Context) (security.TokenDecoder, error) {
	if a.Config.Auth.Provider == config.AuthProviderFirebase {
		client, err := a.firebase.Auth(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize firebase auth: %w", err)
		}
		return security.NewFirebaseDecoder(client), nil
	}
	if a.Config.Auth.JWTSecret == "" {
		logger.Warn("No JWT secret configured; bearer tokens are decoded without signature verification")
	}
	return security.NewJWTDecoder(a.Config.Auth.JWTSecret), nil
}

func newNotifier(cfg config.EmailConfig) service.Notifier {
	if cfg.Provider == config.EmailProviderSendGrid {
		return service.NewSendGridNotifier(cfg.SendGridAPIKey, cfg.FromEmail, cfg.FromName)
	}
	return service.NewLogNotifier()
}
