// Package repository opens the configured document store backend.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"beanthere/internal/config"
	"beanthere/internal/database"
	"beanthere/internal/domain/repositories"
	"beanthere/internal/repository/postgres"
	"beanthere/internal/repository/postgrest"
	"beanthere/internal/supabase"
)

// Stores is the set of document store repositories
type Stores struct {
	Reviews   repositories.ReviewRepository
	Favorites repositories.FavoriteRepository
	Profiles  repositories.UserProfileRepository
	Cafes     repositories.CafeRepository
	Tx        repositories.TransactionManager

	close func()
}

// Close releases the backend's connections
func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open builds the repositories for cfg.StoreBackend. The PostgREST backend
// reuses client; the postgres backend opens a pgx pool on SupabaseDBURL.
func Open(ctx context.Context, cfg *config.Config, client *supabase.Client, logger *slog.Logger) (*Stores, error) {
	tables := database.NewTableNames(cfg.TablePrefix)

	switch cfg.StoreBackend {
	case "postgres":
		pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
		logger.Info("document store connected", "backend", "postgres", "table_prefix", cfg.TablePrefix)
		return &Stores{
			Reviews:   postgres.NewReviewRepository(repoConfig),
			Favorites: postgres.NewFavoriteRepository(repoConfig),
			Profiles:  postgres.NewUserProfileRepository(repoConfig),
			Cafes:     postgres.NewCafeRepository(repoConfig),
			Tx:        postgres.NewTransactionManager(pool, logger),
			close:     pool.Close,
		}, nil

	case "supabase":
		if client == nil {
			return nil, fmt.Errorf("supabase store backend needs a client")
		}
		repoConfig := &postgrest.RepositoryConfig{Client: client, Tables: tables, Logger: logger}
		logger.Info("document store ready", "backend", "postgrest", "table_prefix", cfg.TablePrefix)
		return &Stores{
			Reviews:   postgrest.NewReviewRepository(repoConfig),
			Favorites: postgrest.NewFavoriteRepository(repoConfig),
			Profiles:  postgrest.NewUserProfileRepository(repoConfig),
			Cafes:     postgrest.NewCafeRepository(repoConfig),
			Tx:        postgrest.NewTransactionManager(),
		}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
