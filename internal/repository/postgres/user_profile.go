package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"beanthere/internal/database"
	"beanthere/internal/domain/models"
	"beanthere/internal/domain/repositories"
)

// PostgresUserProfileRepository implements the UserProfileRepository interface
type PostgresUserProfileRepository struct {
	pool   *pgxpool.Pool
	tables *database.TableNames
	logger *slog.Logger
}

// NewUserProfileRepository creates a new PostgresUserProfileRepository
func NewUserProfileRepository(config *RepositoryConfig) repositories.UserProfileRepository {
	return &PostgresUserProfileRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByUID retrieves the profile for a user
func (r *PostgresUserProfileRepository) GetByUID(ctx context.Context, uid string) (*models.UserProfile, error) {
	query := fmt.Sprintf(`
		SELECT uid, display_name, email, photo_url, bio, location, preferences, created_at, updated_at
		FROM %s
		WHERE uid = $1
	`, r.tables.Users)

	var (
		profile              models.UserProfile
		prefs                []byte
		createdAt, updatedAt time.Time
	)
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, uid).Scan(
		&profile.UID,
		&profile.DisplayName,
		&profile.Email,
		&profile.PhotoURL,
		&profile.Bio,
		&profile.Location,
		&prefs,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			// No profile yet - return nil (not an error)
			return nil, nil
		}
		return nil, storeError("users", "get user profile", err)
	}

	if len(prefs) > 0 {
		if err := json.Unmarshal(prefs, &profile.Preferences); err != nil {
			r.logger.Warn("ignoring malformed profile preferences", "uid", uid, "error", err)
		}
	}
	profile.CreatedAt = models.NewTimestamp(createdAt)
	profile.UpdatedAt = models.NewTimestamp(updatedAt)
	return &profile, nil
}

// Upsert creates or replaces the profile. created_at is kept on update.
func (r *PostgresUserProfileRepository) Upsert(ctx context.Context, profile *models.UserProfile) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (uid, display_name, email, photo_url, bio, location, preferences, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9)
		ON CONFLICT (uid) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			email = EXCLUDED.email,
			photo_url = EXCLUDED.photo_url,
			bio = EXCLUDED.bio,
			location = EXCLUDED.location,
			preferences = EXCLUDED.preferences,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`, r.tables.Users)

	prefs, err := json.Marshal(profile.Preferences)
	if err != nil {
		return fmt.Errorf("marshal profile preferences: %w", err)
	}

	now := time.Now().UTC()
	createdAt := profile.CreatedAt.Time
	if createdAt.IsZero() {
		createdAt = now
	}

	var storedCreated, storedUpdated time.Time
	err = GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		profile.UID,
		profile.DisplayName,
		profile.Email,
		profile.PhotoURL,
		profile.Bio,
		profile.Location,
		string(prefs),
		createdAt,
		now,
	).Scan(&storedCreated, &storedUpdated)
	if err != nil {
		return storeError("users", "upsert user profile", err)
	}

	profile.CreatedAt = models.NewTimestamp(storedCreated)
	profile.UpdatedAt = models.NewTimestamp(storedUpdated)
	return nil
}
