package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"wrangle/adapters/store"
	"wrangle/app"
	"wrangle/internal/config"
	"wrangle/internal/upload"
	"wrangle/ports"
	"wrangle/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	relations, cleanup, err := openRelationStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open relation store: %v", err)
	}
	defer cleanup()

	blobs := upload.NewLocalBlobStore(cfg.Upload.Dir)
	service := app.NewWrangleService(relations, blobs)
	httpApp := ui.NewApp(ui.Config{
		Port:        cfg.Server.Port,
		MaxFileSize: cfg.Upload.MaxFileSize,
	}, service)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(httpApp.Start)
	group.Go(func() error {
		<-ctx.Done()
		return httpApp.Shutdown(context.Background())
	})

	if err := group.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// openRelationStore opens the configured backend and returns it with its
// cleanup function.
func openRelationStore(cfg *config.Config) (ports.RelationStore, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := sqlx.Connect("postgres", cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[Main] Using postgres relation store (schema %s)", cfg.Store.Schema)
		return store.NewPostgresStore(db, cfg.Store.Schema), func() { db.Close() }, nil
	default:
		db, err := store.OpenBadger(cfg.Store.BadgerDir)
		if err != nil {
			return nil, nil, err
		}
		badgerStore := store.NewBadgerStore(db, cfg.Store.CacheEnabled)
		log.Printf("[Main] Using embedded relation store at %s", cfg.Store.BadgerDir)
		return badgerStore, func() { badgerStore.Close() }, nil
	}
}
