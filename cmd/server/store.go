package main

import (
	"context"
	"fmt"
	"time"

	"connect3/backend/internal/config"
	"connect3/backend/internal/database"
	"connect3/backend/internal/store"
	"connect3/backend/internal/store/gormstore"
	"connect3/backend/internal/store/memstore"
	"connect3/backend/internal/store/neo4jstore"

	"go.uber.org/zap"
)

const storePingTimeout = 5 * time.Second

// openStore connects to the configured backend, makes sure its schema exists
// and checks it answers.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	var (
		s   store.Store
		err error
	)

	switch cfg.GraphBackend {
	case config.BackendPostgres:
		s, err = openPostgres(cfg)
	case config.BackendNeo4j:
		s, err = openNeo4j(ctx, cfg, logger)
	case config.BackendMemory:
		logger.Warn("using the in-memory graph store; data is lost on exit")
		s = memstore.New()
	default:
		err = fmt.Errorf("unknown graph backend %q", cfg.GraphBackend)
	}
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, storePingTimeout)
	defer cancel()
	if err := s.Ping(pingCtx); err != nil {
		s.Close(context.Background())
		return nil, fmt.Errorf("graph store unreachable: %w", err)
	}

	logger.Info("graph store ready", zap.String("backend", cfg.GraphBackend))
	return s, nil
}

func openPostgres(cfg *config.Config) (store.Store, error) {
	db, err := database.Connect(cfg.GraphURI, cfg.GraphUser, cfg.GraphPassword)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, err
	}
	return gormstore.New(db), nil
}

func openNeo4j(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	s, err := neo4jstore.Open(ctx, cfg.GraphURI, cfg.GraphUser, cfg.GraphPassword, cfg.GraphDatabase, logger)
	if err != nil {
		return nil, err
	}
	if err := s.EnsureSchema(ctx); err != nil {
		s.Close(context.Background())
		return nil, err
	}
	return s, nil
}
