package models

// Session is the signed-in identity as seen by the app.
type Session struct {
	UID           string     `json:"uid"`
	Email         string     `json:"email"`
	DisplayName   string     `json:"displayName"`
	AvatarURL     string     `json:"avatarURL"`
	CreatedAt     Timestamp  `json:"createdAt"`
	EmailVerified bool       `json:"emailVerified"`
	AccessToken   string     `json:"accessToken,omitempty"`
	RefreshToken  string     `json:"refreshToken,omitempty"`
	ExpiresAt     *Timestamp `json:"expiresAt,omitempty"`
}

// AuthResult is what every identity operation returns. Failures never
// surface as errors; Message carries the provider's text instead.
type AuthResult struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Session *Session `json:"session,omitempty"`
}

// AuthFailure builds a failed AuthResult.
func AuthFailure(message string) AuthResult {
	return AuthResult{Success: false, Message: message}
}

// AuthSuccess builds a successful AuthResult.
func AuthSuccess(session *Session) AuthResult {
	return AuthResult{Success: true, Session: session}
}

// SessionChange is pushed to identity subscribers. Session is nil on
// sign-out; UserID is set in both cases when known.
type SessionChange struct {
	DeviceID string
	UserID   string
	Session  *Session
}

// SignedIn reports whether the change is a sign-in or restore.
func (c SessionChange) SignedIn() bool {
	return c.Session != nil
}
