package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"beanthere/internal/config"
	"beanthere/internal/domain"
	"beanthere/internal/domain/models"
	"beanthere/internal/domain/services"
	"beanthere/internal/supabase"
)

const (
	msgNoUser      = "No user is signed in"
	msgUnreachable = "Unable to reach the sign-in service. Please try again."
	msgVerifyEmail = "Check your email to verify your account."
)

// AuthProvider is the subset of the GoTrue client the identity service uses
type AuthProvider interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*supabase.AuthResponse, error)
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.AuthResponse, error)
	SignInWithIDToken(ctx context.Context, provider, idToken string) (*supabase.AuthResponse, error)
	GetUser(ctx context.Context, accessToken string) (*supabase.User, error)
	SignOut(ctx context.Context, accessToken string) error
	ResendSignup(ctx context.Context, email string) error
}

type subscriber struct {
	id int
	fn services.SessionListener
}

// identityService implements services.IdentityService
type identityService struct {
	provider AuthProvider
	logger   *slog.Logger
	now      func() time.Time

	mu          sync.RWMutex
	nextID      int
	subscribers []subscriber
}

// NewIdentityService creates the identity service. When prefs is non-nil the
// signed-in uid and email are mirrored into the device store.
func NewIdentityService(provider AuthProvider, prefs services.PreferencesProvider, logger *slog.Logger) services.IdentityService {
	s := &identityService{
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
	if prefs != nil {
		s.Subscribe(mirrorIdentity(prefs, logger))
	}
	return s
}

// mirrorIdentity keeps userUID and userEmail in the device store in step
// with the session.
func mirrorIdentity(prefs services.PreferencesProvider, logger *slog.Logger) services.SessionListener {
	return func(ctx context.Context, change models.SessionChange) {
		pc := prefs.For(change.DeviceID)
		var err error
		if change.SignedIn() {
			err = pc.MirrorIdentity(ctx, change.Session.UID, change.Session.Email)
		} else {
			err = pc.ClearIdentity(ctx)
		}
		if err != nil {
			logger.Warn("failed to mirror identity", "device_id", change.DeviceID, "error", err)
		}
	}
}

func (s *identityService) Subscribe(fn services.SessionListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subscribers {
				if sub.id == id {
					s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *identityService) notify(ctx context.Context, change models.SessionChange) {
	s.mu.RLock()
	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.RUnlock()

	for _, sub := range subs {
		sub.fn(ctx, change)
	}
}

func (s *identityService) CurrentSession(ctx context.Context, deviceID, accessToken string) models.AuthResult {
	if accessToken == "" {
		return models.AuthFailure(msgNoUser)
	}

	user, err := s.provider.GetUser(ctx, accessToken)
	if err != nil {
		return models.AuthFailure(authMessage(err))
	}

	session := sessionFromUser(user)
	session.AccessToken = accessToken
	s.notify(ctx, models.SessionChange{DeviceID: deviceID, UserID: session.UID, Session: session})
	return models.AuthSuccess(session)
}

func (s *identityService) SignInWithProvider(ctx context.Context, deviceID, provider, idToken string) models.AuthResult {
	err := validation.Errors{
		"provider": validation.Validate(provider, validation.Required, validation.In("google", "apple", "azure", "facebook", "kakao", "keycloak")),
		"idToken":  validation.Validate(idToken, validation.Required),
	}.Filter()
	if err != nil {
		return models.AuthFailure(validationError(err, "provider", "idToken").Error())
	}

	resp, err := s.provider.SignInWithIDToken(ctx, provider, idToken)
	if err != nil {
		s.logger.Info("provider sign-in failed", "provider", provider, "error", err)
		return models.AuthFailure(authMessage(err))
	}
	return s.signedIn(ctx, deviceID, resp)
}

func (s *identityService) SignInWithEmail(ctx context.Context, deviceID, email, password string) models.AuthResult {
	email = strings.TrimSpace(email)
	if err := validateCredentials(email, password); err != nil {
		return models.AuthFailure(err.Error())
	}

	resp, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		s.logger.Info("email sign-in failed", "error", err)
		return models.AuthFailure(authMessage(err))
	}
	return s.signedIn(ctx, deviceID, resp)
}

func (s *identityService) SignUpWithEmail(ctx context.Context, deviceID, email, password string) models.AuthResult {
	email = strings.TrimSpace(email)
	if err := validateCredentials(email, password); err != nil {
		return models.AuthFailure(err.Error())
	}

	resp, err := s.provider.SignUp(ctx, email, password, nil)
	if err != nil {
		s.logger.Info("sign-up failed", "error", err)
		return models.AuthFailure(authMessage(err))
	}
	if resp.User == nil {
		return models.AuthFailure("Sign-up did not return a user")
	}

	s.logger.Info("user signed up", "user_id", resp.User.ID)

	// Confirmation enabled: GoTrue sent the email and returned no session
	if resp.AccessToken == "" {
		result := models.AuthSuccess(sessionFromUser(resp.User))
		result.Message = msgVerifyEmail
		return result
	}
	return s.signedIn(ctx, deviceID, resp)
}

func (s *identityService) SignOut(ctx context.Context, deviceID, userID, accessToken string) models.AuthResult {
	if accessToken != "" {
		if err := s.provider.SignOut(ctx, accessToken); err != nil && !errors.Is(err, domain.ErrUnauthorized) {
			return models.AuthFailure(authMessage(err))
		}
	}

	s.logger.Info("user signed out", "user_id", userID, "device_id", deviceID)
	s.notify(ctx, models.SessionChange{DeviceID: deviceID, UserID: userID})
	return models.AuthResult{Success: true}
}

func (s *identityService) ResendVerification(ctx context.Context, accessToken string) models.AuthResult {
	if accessToken == "" {
		return models.AuthFailure(msgNoUser)
	}

	user, err := s.provider.GetUser(ctx, accessToken)
	if err != nil {
		return models.AuthFailure(authMessage(err))
	}
	if err := s.provider.ResendSignup(ctx, user.Email); err != nil {
		return models.AuthFailure(authMessage(err))
	}
	return models.AuthResult{Success: true, Message: msgVerifyEmail}
}

func (s *identityService) signedIn(ctx context.Context, deviceID string, resp *supabase.AuthResponse) models.AuthResult {
	session := sessionFromUser(resp.User)
	session.AccessToken = resp.AccessToken
	session.RefreshToken = resp.RefreshToken

	switch {
	case resp.ExpiresAt > 0:
		ts := models.NewTimestamp(time.Unix(resp.ExpiresAt, 0))
		session.ExpiresAt = &ts
	case resp.ExpiresIn > 0:
		ts := models.NewTimestamp(s.now().Add(time.Duration(resp.ExpiresIn) * time.Second))
		session.ExpiresAt = &ts
	}

	s.logger.Info("user signed in", "user_id", session.UID, "device_id", deviceID)
	s.notify(ctx, models.SessionChange{DeviceID: deviceID, UserID: session.UID, Session: session})
	return models.AuthSuccess(session)
}

func validateCredentials(email, password string) error {
	err := validation.Errors{
		"email": validation.Validate(email,
			validation.Required.Error("Please enter your email"),
			is.Email.Error("Please enter a valid email address"),
		),
		"password": validation.Validate(password,
			validation.Required.Error("Please enter your password"),
			validation.RuneLength(config.MinPasswordLength, 0).Error("Password should be at least 6 characters"),
		),
	}.Filter()
	return validationError(err, "email", "password")
}

func sessionFromUser(user *supabase.User) *models.Session {
	session := &models.Session{
		UID:           user.ID,
		Email:         user.Email,
		CreatedAt:     user.CreatedAt,
		EmailVerified: user.EmailConfirmedAt != nil && !user.EmailConfirmedAt.IsZero(),
	}
	session.DisplayName = metadataString(user.UserMetadata, "display_name", "full_name", "name")
	session.AvatarURL = metadataString(user.UserMetadata, "avatar_url", "picture")
	return session
}

func metadataString(meta map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := meta[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// authMessage passes provider messages through and turns transport
// failures into a sentence.
func authMessage(err error) string {
	var sbErr *supabase.Error
	if errors.As(err, &sbErr) {
		return sbErr.Message
	}
	if errors.Is(err, domain.ErrBackendUnavailable) {
		return msgUnreachable
	}
	return err.Error()
}
