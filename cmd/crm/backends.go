package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/ports"
	"github.com/epicevents/crm/internal/infrastructure/db/memory"
	"github.com/epicevents/crm/internal/infrastructure/db/mongo"
	"github.com/epicevents/crm/internal/infrastructure/db/postgres"
	"github.com/epicevents/crm/internal/infrastructure/db/redis"
	"github.com/epicevents/crm/internal/infrastructure/session"
	"github.com/epicevents/crm/internal/pkg/config"
)

type directory struct {
	ports.Directory
	pinger ports.Pinger
	close  func()
}

func openDirectory(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*directory, error) {
	switch cfg.Directory.Driver {
	case config.DirectoryMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &directory{
			Directory: mongo.NewDirectory(db),
			pinger:    mongo.NewPinger(db),
			close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					log.Warn().Err(err).Msg("mongo disconnect failed")
				}
			},
		}, nil

	case config.DirectoryPostgres:
		db, err := postgres.Open(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		return &directory{
			Directory: postgres.NewDirectory(db),
			pinger:    postgres.NewPinger(db),
			close: func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil

	case config.DirectoryMemory:
		log.Warn().Msg("memory directory: data is lost on exit")
		store := memory.New()
		return &directory{Directory: store.Directory(), pinger: store, close: func() {}}, nil
	}
	return nil, fmt.Errorf("unknown directory driver %q", cfg.Directory.Driver)
}

type sessionStore interface {
	ports.SessionStore
	ports.Pinger
}

type store struct {
	sessionStore
	close func()
}

func openSessionStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch cfg.Session.Backend {
	case config.SessionFile:
		s := session.NewFileStore(cfg.Session.File)
		return &store{sessionStore: s, close: func() {}}, nil

	case config.SessionSealed:
		s, err := session.NewSealedStore(cfg.Session.File, cfg.Session.Passphrase)
		if err != nil {
			return nil, err
		}
		return &store{sessionStore: s, close: func() {}}, nil

	case config.SessionRedis:
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		s := session.NewRedisStore(client, cfg.Session.Profile, cfg.Session.TTL)
		return &store{sessionStore: s, close: func() { _ = client.Close() }}, nil
	}
	return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
}
