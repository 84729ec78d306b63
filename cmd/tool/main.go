// cmd/tool is a maintenance utility for operators. It talks to the same
// backing store the service uses, so point it at the same environment.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/openadmit/auth-service/internal/config"
	"github.com/openadmit/auth-service/internal/infrastructure/mongodb"
	"github.com/openadmit/auth-service/internal/infrastructure/postgres"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: tool <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  cleanup    delete every user account (test environments only)")
	fmt.Fprintln(os.Stderr, "  schema     print the relational schema")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "cleanup":
		os.Exit(runCleanup())
	case "schema":
		fmt.Print(postgres.Schema)
	default:
		usage()
		os.Exit(2)
	}
}

// bulkDeleter is the maintenance surface both stores expose.
type bulkDeleter interface {
	DeleteAll(ctx context.Context) (int64, error)
}

func runCleanup() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	if cfg.Env == "prod" {
		fmt.Fprintln(os.Stderr, "refusing to run cleanup with ENV=prod")
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var (
		store   bulkDeleter
		cleanup func()
	)

	switch cfg.UserStore {
	case config.StorePostgres:
		db, err := config.NewDB(cfg.DBAddr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "connect postgres: %v\n", err)
			return 1
		}
		store = postgres.NewUserStore(db)
		cleanup = func() { _ = db.Close() }

	case config.StoreMongo:
		client, err := config.NewMongo(cfg.MongoURI)
		if err != nil {
			fmt.Fprintf(os.Stderr, "connect mongodb: %v\n", err)
			return 1
		}
		store = mongodb.NewUserStore(client.Database(cfg.MongoDB))
		cleanup = func() { _ = client.Disconnect(context.Background()) }

	default:
		fmt.Fprintf(os.Stderr, "unknown user store backend: %q\n", cfg.UserStore)
		return 1
	}
	defer cleanup()

	n, err := store.DeleteAll(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cleanup: %v\n", err)
		return 1
	}

	fmt.Printf("deleted %d users\n", n)
	return 0
}
