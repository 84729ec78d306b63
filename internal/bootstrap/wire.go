package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/openadmit/auth-service/internal/application/auth"
	"github.com/openadmit/auth-service/internal/config"
	"github.com/openadmit/auth-service/internal/infrastructure/mongodb"
	"github.com/openadmit/auth-service/internal/infrastructure/postgres"
	"github.com/openadmit/auth-service/internal/infrastructure/security"
	"github.com/openadmit/auth-service/internal/logger"
	http_handlers "github.com/openadmit/auth-service/internal/transport/http/handlers"
	"github.com/openadmit/auth-service/internal/transport/http/middleware"
	"github.com/openadmit/auth-service/internal/transport/http/response"
	"github.com/openadmit/auth-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB    func(dsn string) (*sql.DB, error)
	NewMongo func(uri string) (*mongo.Client, error)

	// NewUserStore overrides backend selection entirely (tests).
	NewUserStore func(cfg *config.Config) (StoreSetup, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

// StoreSetup is everything the rest of the wiring needs from a backing store.
type StoreSetup struct {
	Store   auth.UserStore
	Pinger  http_handlers.Pinger
	Cleanup func()
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	// 1) backing store
	setup, err := buildUserStore(deps, cfg)
	if err != nil {
		return nil, nil, err
	}

	cleanupFns := []func(){}
	if setup.Cleanup != nil {
		cleanupFns = append(cleanupFns, setup.Cleanup)
	}

	// 2) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt signer")
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)

	// 3) service
	authSvc := auth.NewService(setup.Store, hasher, signer, auth.Config{
		AccessTTL: cfg.AccessTokenTTL,
	})

	// 4) handlers + middleware
	authH := http_handlers.NewAuthHandler(authSvc)
	healthH := http_handlers.NewHealthHandler(setup.Pinger)

	authMW := middleware.Auth(signer, response.WriteError)

	// 5) router
	mux, err := deps.NewRouter(router.Deps{
		Health: healthH,
		Auth:   authH,

		AuthMW: authMW,

		RequestID:  middleware.RequestID,
		HTTPLogger: middleware.HTTPLogger,
		CORS:       middleware.CORS(),
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 6) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

// buildUserStore opens the configured backend and prepares its schema or
// indexes. Both paths come back as the same StoreSetup shape.
func buildUserStore(deps Deps, cfg *config.Config) (StoreSetup, error) {
	if deps.NewUserStore != nil {
		return deps.NewUserStore(cfg)
	}

	switch cfg.UserStore {
	case config.StorePostgres:
		db, err := deps.NewDB(cfg.DBAddr)
		if err != nil {
			return StoreSetup{}, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// Schema is idempotent; the unique indexes must exist before the
		// first signup is accepted.
		if _, err := db.ExecContext(ctx, postgres.Schema); err != nil {
			_ = db.Close()
			return StoreSetup{}, fmt.Errorf("apply schema: %w", err)
		}

		return StoreSetup{
			Store:   postgres.NewUserStore(db),
			Pinger:  db,
			Cleanup: func() { _ = db.Close() },
		}, nil

	case config.StoreMongo:
		client, err := deps.NewMongo(cfg.MongoURI)
		if err != nil {
			return StoreSetup{}, err
		}

		store := mongodb.NewUserStore(client.Database(cfg.MongoDB))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return StoreSetup{}, fmt.Errorf("ensure indexes: %w", err)
		}

		return StoreSetup{
			Store:   store,
			Pinger:  mongoPinger{client},
			Cleanup: func() { _ = client.Disconnect(context.Background()) },
		}, nil

	default:
		return StoreSetup{}, fmt.Errorf("unknown user store backend: %q", cfg.UserStore)
	}
}

// mongoPinger adapts the driver's Ping to the health handler's probe.
type mongoPinger struct {
	client *mongo.Client
}

func (p mongoPinger) PingContext(ctx context.Context) error {
	return p.client.Ping(ctx, readpref.Primary())
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		NewMongo:   config.NewMongo,
		NewRouter: func(d router.Deps) (http.Handler, error) {
			return router.New(d)
		},
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
