package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/cardkeeper/internal/client/config"
	"github.com/dmitrijs2005/cardkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/cardkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/cardkeeper/internal/filex"
	"github.com/dmitrijs2005/cardkeeper/internal/logging"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// Backend is an open key-value repository together with the resources
// backing it.
type Backend struct {
	Repo  kv.Repository
	close func() error
}

// Close releases the underlying connection, if any.
func (b *Backend) Close() error {
	if b == nil || b.close == nil {
		return nil
	}
	return b.close()
}

// RunMigrations applies the embedded migrations in dir using dialect.
func RunMigrations(ctx context.Context, db *sql.DB, dialect, dir string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// OpenSQLite opens (creating if needed) the database file at path and
// migrates it.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if _, err := filex.EnsureDir(dir); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db, "sqlite3", migrations.SQLiteDir); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenPostgres connects through the pgx database/sql driver and migrates.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := RunMigrations(ctx, db, "postgres", migrations.PostgresDir); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Open returns the backend selected by cfg.Storage.
func Open(ctx context.Context, cfg *config.Config, log logging.Logger) (*Backend, error) {
	log = log.With("module", "storage")

	switch cfg.Storage {
	case config.StorageSQLite, "":
		db, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info(ctx, "storage opened", "backend", config.StorageSQLite, "path", cfg.SQLitePath)
		return &Backend{Repo: kv.NewSQLiteRepository(db), close: db.Close}, nil

	case config.StoragePostgres:
		db, err := OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		log.Info(ctx, "storage opened", "backend", config.StoragePostgres)
		return &Backend{Repo: kv.NewPostgresRepository(db), close: db.Close}, nil

	case config.StorageRedis:
		client := kv.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info(ctx, "storage opened", "backend", config.StorageRedis, "addr", cfg.RedisAddr)
		return &Backend{Repo: kv.NewRedisRepository(client, cfg.RedisPrefix), close: client.Close}, nil

	case config.StorageMemory:
		log.Warn(ctx, "memory storage: state is lost on exit")
		return &Backend{Repo: kv.NewMemoryRepository()}, nil
	}

	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
}
