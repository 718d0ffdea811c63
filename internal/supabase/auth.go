package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"beanthere/internal/domain/models"
)

// Auth returns a GoTrue client.
func (c *Client) Auth() *AuthClient {
	return &AuthClient{client: c}
}

// AuthClient handles authentication operations.
type AuthClient struct {
	client *Client
}

// AuthResponse is a GoTrue session.
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// User represents a Supabase user.
type User struct {
	ID               string            `json:"id"`
	Email            string            `json:"email"`
	Role             string            `json:"role"`
	EmailConfirmedAt *models.Timestamp `json:"email_confirmed_at"`
	CreatedAt        models.Timestamp  `json:"created_at"`
	UserMetadata     map[string]any    `json:"user_metadata"`
}

// SignUp creates a new user. When email confirmation is enabled GoTrue
// returns the bare user and sends the verification email; the response then
// has no access token.
func (a *AuthClient) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*AuthResponse, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
	}
	if len(metadata) > 0 {
		payload["data"] = metadata
	}

	resp, err := a.post(ctx, "/signup", payload, "")
	if err != nil {
		return nil, err
	}

	var authResp AuthResponse
	if err := resp.JSON(&authResp); err != nil {
		return nil, err
	}
	if authResp.User == nil {
		var user User
		if err := resp.JSON(&user); err != nil {
			return nil, err
		}
		if user.ID != "" {
			authResp.User = &user
		}
	}
	return &authResp, nil
}

// SignInWithPassword authenticates a user with email and password.
func (a *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*AuthResponse, error) {
	return a.token(ctx, "password", map[string]any{
		"email":    email,
		"password": password,
	})
}

// SignInWithIDToken exchanges an OAuth provider ID token for a session.
func (a *AuthClient) SignInWithIDToken(ctx context.Context, provider, idToken string) (*AuthResponse, error) {
	return a.token(ctx, "id_token", map[string]any{
		"provider": provider,
		"id_token": idToken,
	})
}

// GetUser gets the user behind an access token.
func (a *AuthClient) GetUser(ctx context.Context, accessToken string) (*User, error) {
	reqURL := a.client.baseURL + "/auth/v1/user"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := a.client.do(req)
	if err != nil {
		return nil, err
	}

	var user User
	if err := resp.JSON(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SignOut revokes the session behind an access token.
func (a *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	_, err := a.post(ctx, "/logout", nil, accessToken)
	return err
}

// ResendSignup resends the signup verification email.
func (a *AuthClient) ResendSignup(ctx context.Context, email string) error {
	_, err := a.post(ctx, "/resend", map[string]any{
		"type":  "signup",
		"email": email,
	}, "")
	return err
}

func (a *AuthClient) token(ctx context.Context, grantType string, payload map[string]any) (*AuthResponse, error) {
	resp, err := a.post(ctx, "/token?grant_type="+grantType, payload, "")
	if err != nil {
		return nil, err
	}

	var authResp AuthResponse
	if err := resp.JSON(&authResp); err != nil {
		return nil, err
	}
	if authResp.User == nil {
		return nil, errors.New("auth response has no user")
	}
	return &authResp, nil
}

func (a *AuthClient) post(ctx context.Context, path string, payload any, accessToken string) (*Response, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.client.baseURL+"/auth/v1"+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	return a.client.do(req)
}
