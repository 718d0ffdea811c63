package services

import (
	"context"

	"beanthere/internal/domain/models"
)

// SessionListener receives every session change, including the initial restore
type SessionListener func(ctx context.Context, change models.SessionChange)

// IdentityService wraps the hosted auth provider. Operations never return
// errors; failures are reported through AuthResult.Message.
type IdentityService interface {
	CurrentSession(ctx context.Context, deviceID, accessToken string) models.AuthResult
	SignInWithProvider(ctx context.Context, deviceID, provider, idToken string) models.AuthResult
	SignInWithEmail(ctx context.Context, deviceID, email, password string) models.AuthResult
	SignUpWithEmail(ctx context.Context, deviceID, email, password string) models.AuthResult
	SignOut(ctx context.Context, deviceID, userID, accessToken string) models.AuthResult
	ResendVerification(ctx context.Context, accessToken string) models.AuthResult

	// Subscribe registers fn and returns a function that removes it
	Subscribe(fn SessionListener) (unsubscribe func())
}
