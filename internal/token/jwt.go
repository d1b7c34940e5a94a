package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/identity-server/internal/model"
)

// Claims are the claims of a session token. The session id travels as the
// JWT id; subject, roles and authentication time mirror the session so that
// clients can inspect them without a round trip.
type Claims struct {
	jwt.RegisteredClaims
	Roles    model.Role `json:"roles"`
	AuthTime int64      `json:"auth_time"`
}

// JWT implements model.TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
}

var _ model.TokenManager = (*JWT)(nil)

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string) *JWT {
	return &JWT{secretKey: secretKey}
}

// Generate signs a token for session. The token expires with the session.
func (j *JWT) Generate(session model.Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID.String(),
			Subject:   session.SubjectID.String(),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
		Roles:    session.Roles,
		AuthTime: session.AuthTime.Unix(),
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// Parse validates the token and returns the session id it carries.
func (j *JWT) Parse(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithExpirationRequired(), jwt.WithLeeway(5*time.Second))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse session token: %w", err)
	}
	if !token.Valid {
		return uuid.Nil, fmt.Errorf("session token is invalid")
	}

	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("session token carries malformed id: %w", err)
	}

	return sessionID, nil
}
