package postgrest

import (
	"context"
	"log/slog"
	"time"

	"beanthere/internal/database"
	"beanthere/internal/domain/models"
	"beanthere/internal/domain/repositories"
	"beanthere/internal/supabase"
)

type userRow struct {
	UID         string                    `json:"uid"`
	DisplayName string                    `json:"display_name"`
	Email       string                    `json:"email"`
	PhotoURL    string                    `json:"photo_url"`
	Bio         string                    `json:"bio"`
	Location    string                    `json:"location"`
	Preferences models.ProfilePreferences `json:"preferences"`
	CreatedAt   models.Timestamp          `json:"created_at"`
	UpdatedAt   models.Timestamp          `json:"updated_at"`
}

// UserProfileRepository implements repositories.UserProfileRepository
type UserProfileRepository struct {
	client *supabase.Client
	tables *database.TableNames
	logger *slog.Logger
}

// NewUserProfileRepository creates a new user profile repository
func NewUserProfileRepository(config *RepositoryConfig) repositories.UserProfileRepository {
	return &UserProfileRepository{
		client: config.Client,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func (r *UserProfileRepository) GetByUID(ctx context.Context, uid string) (*models.UserProfile, error) {
	resp, err := r.client.From(r.tables.Users).Select("*").Eq("uid", uid).Limit(1).Execute(ctx)
	if err != nil {
		return nil, storeError("users", "get user profile", err)
	}
	row, ok, err := decodeOne[userRow](resp)
	if err != nil || !ok {
		return nil, err
	}
	profile := models.UserProfile(*row)
	return &profile, nil
}

// Upsert merges on uid. created_at is only sent for new documents.
func (r *UserProfileRepository) Upsert(ctx context.Context, profile *models.UserProfile) error {
	row := userRow(*profile)
	now := models.NewTimestamp(time.Now())
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now

	resp, err := r.client.From(r.tables.Users).Upsert(ctx, row, "uid")
	if err != nil {
		return storeError("users", "upsert user profile", err)
	}
	stored, ok, err := decodeOne[userRow](resp)
	if err != nil {
		return err
	}
	if ok {
		*profile = models.UserProfile(*stored)
	}
	return nil
}
