package auth

import "beanthere/internal/domain/models"

// JWTVerifier validates Supabase access tokens.
// Middleware depends on this interface so tests can supply a fake.
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns domain.ErrUnauthorized if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.SupabaseClaims, error)

	// Close stops background JWKS refreshes.
	Close() error
}
