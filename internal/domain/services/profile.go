package services

import (
	"context"

	"beanthere/internal/domain/models"
)

// ProfileService manages the users collection and profile pictures
type ProfileService interface {
	GetProfile(ctx context.Context, uid string) (*models.UserProfile, error)
	// CreateProfile merges session defaults into the stored profile
	CreateProfile(ctx context.Context, session *models.Session) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, uid string, req *models.UpdateProfileRequest) (*models.UserProfile, error)
	UploadProfilePicture(ctx context.Context, uid string, data []byte, contentType string) (string, error)
}

// TasteProfileService derives the dashboard taste profile
type TasteProfileService interface {
	Compute(ctx context.Context, userID string) (*models.TasteProfile, error)
}
