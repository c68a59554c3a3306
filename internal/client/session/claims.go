package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/youverse/dupliverse/internal/client/models"
)

type accessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// sessionFromToken extracts the identity (sub, email, exp) from an access
// token without verifying the signature. The client has no signing secret;
// trust in the token's content comes from having received it over the
// authenticated token endpoint.
func sessionFromToken(tokenString string) (*models.Session, error) {
	claims := &accessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("access token has no subject")
	}

	s := &models.Session{ID: claims.Subject, Email: claims.Email}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	} else {
		s.ExpiresAt = time.Now().Add(time.Hour)
	}
	return s, nil
}
