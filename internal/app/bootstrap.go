// Package app wires configuration, the optional database pool and the
// source loader into a snapshot. Both binaries start through it.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/JonMunkholm/wlpa/internal/config"
	"github.com/JonMunkholm/wlpa/internal/core"
	"github.com/JonMunkholm/wlpa/internal/source"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OpenDatabase connects to the reference database. It returns a nil pool
// when no DATABASE_URL is configured.
func OpenDatabase(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if !cfg.UsesDatabase() {
		return nil, nil
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}

// OpenObjectStore builds an S3 client when a workbook location is an
// s3:// URI. It returns nil otherwise.
func OpenObjectStore(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	if !cfg.UsesObjectStore() {
		return nil, nil
	}
	client, err := source.NewS3Client(ctx, source.S3Options{
		Region:    cfg.Data.S3Region,
		Endpoint:  cfg.Data.S3Endpoint,
		PathStyle: cfg.Data.S3PathStyle,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("reading workbooks from object storage", "region", cfg.Data.S3Region)
	return client, nil
}

// LoadSnapshot builds the loader for cfg and runs it once. pool and
// objects may be nil.
func LoadSnapshot(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, objects *s3.Client) (*core.Snapshot, error) {
	var db source.Querier
	if pool != nil {
		db = pool
	}
	var store source.ObjectGetter
	if objects != nil {
		store = objects
	}

	loader, err := source.FromConfig(cfg, db, store)
	if err != nil {
		return nil, err
	}
	return loader.Load(ctx)
}

// Start opens the database and object store when configured and loads
// the snapshot. The
// returned close function releases the pool and is always non-nil.
func Start(ctx context.Context, cfg *config.Config) (*core.Snapshot, func(), error) {
	pool, err := OpenDatabase(ctx, cfg)
	if err != nil {
		return nil, func() {}, err
	}
	closeFn := func() {
		if pool != nil {
			pool.Close()
		}
	}

	objects, err := OpenObjectStore(ctx, cfg)
	if err != nil {
		return nil, closeFn, err
	}

	snap, err := LoadSnapshot(ctx, cfg, pool, objects)
	if err != nil {
		return nil, closeFn, err
	}

	for _, w := range snap.Warnings() {
		slog.Warn("reference data incomplete", "warning", w)
	}
	return snap, closeFn, nil
}
