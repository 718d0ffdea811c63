package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"beanthere/internal/auth"
	"beanthere/internal/config"
	"beanthere/internal/database"
	"beanthere/internal/repository"
	"beanthere/internal/repository/postgres"
	"beanthere/internal/seed"
	"beanthere/internal/supabase"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Manage the BeanThere document store",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		cfg = config.Load()
		logger = config.NewLogger(cfg.Environment, os.Stdout)
	},
}

func init() {
	demoUserCmd.Flags().String("email", "demo@beanthere.app", "demo account email")
	demoUserCmd.Flags().String("password", "", "demo account password (required)")
	demoUserCmd.Flags().String("name", "Demo Barista", "display name on the demo reviews")
	_ = demoUserCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(cafesCmd)
	rootCmd.AddCommand(demoUserCmd)
}

// seed schema
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create the tables for the current environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, err := connect(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		tables := database.NewTableNames(cfg.TablePrefix)
		if _, err := pool.Exec(ctx, database.Schema(tables)); err != nil {
			return fmt.Errorf("run schema: %w", err)
		}
		logger.Info("schema ready", "table_prefix", cfg.TablePrefix)
		return nil
	},
}

// seed drop
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop every table for the current environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Destructive operations never run against production
		if cfg.Environment == "prod" {
			return fmt.Errorf("refusing to drop tables in the prod environment")
		}

		ctx := cmd.Context()
		pool, err := connect(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		for _, table := range database.NewTableNames(cfg.TablePrefix).All() {
			if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
				return fmt.Errorf("drop %s: %w", table, err)
			}
			logger.Info("dropped table", "table", table)
		}
		return nil
	},
}

// seed cafes
var cafesCmd = &cobra.Command{
	Use:   "cafes",
	Short: "Upsert the curated cafe catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		seeder, closeStores, err := newSeeder(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStores()

		n, err := seeder.SeedCafes(cmd.Context())
		if err != nil {
			return err
		}
		logger.Info("cafes seeded", "count", n)
		return nil
	},
}

// seed demo-user
var demoUserCmd = &cobra.Command{
	Use:   "demo-user",
	Short: "Create a confirmed demo account with sample reviews and a favorite",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_KEY is required to create users")
		}
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		name, _ := cmd.Flags().GetString("name")

		ctx := cmd.Context()
		admin := auth.NewAdminClient(cfg.SupabaseURL, cfg.SupabaseServiceKey)
		userID, err := admin.EnsureUser(ctx, email, password, name)
		if err != nil {
			return fmt.Errorf("ensure demo user: %w", err)
		}

		seeder, closeStores, err := newSeeder(ctx)
		if err != nil {
			return err
		}
		defer closeStores()

		if err := seeder.SeedDemoUser(ctx, userID, name); err != nil {
			return err
		}
		logger.Info("demo user seeded", "user_id", userID, "email", email)
		return nil
	},
}

func connect(ctx context.Context) (*pgxpool.Pool, error) {
	if cfg.SupabaseDBURL == "" {
		return nil, fmt.Errorf("SUPABASE_DB_URL is required")
	}
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return pool, nil
}

// newSeeder opens the configured store. The PostgREST backend writes with
// the service key so row level security does not apply.
func newSeeder(ctx context.Context) (*seed.Seeder, func(), error) {
	key := cfg.SupabaseServiceKey
	if key == "" {
		key = cfg.SupabaseKey
	}

	var client *supabase.Client
	if cfg.StoreBackend == "supabase" {
		var err error
		client, err = supabase.New(supabase.Config{URL: cfg.SupabaseURL, APIKey: key})
		if err != nil {
			return nil, nil, fmt.Errorf("create supabase client: %w", err)
		}
	}

	stores, err := repository.Open(ctx, cfg, client, logger)
	if err != nil {
		return nil, nil, err
	}
	return seed.NewSeeder(stores.Cafes, stores.Reviews, stores.Favorites, logger), stores.Close, nil
}
