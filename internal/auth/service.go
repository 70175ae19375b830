package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shapepad/shapepad/engine-go/internal/typeid"
)

var ErrInvalidToken = errors.New("invalid session token")

// Service issues and validates the ephemeral tokens that identify editor
// sessions. There are no accounts; a token is just a signed session ID
// with an expiry, handed out to anyone who asks.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService builds the token service. An empty secret generates a
// process-local random one, which invalidates outstanding tokens on
// restart.
func NewService(secret string, ttl time.Duration) *Service {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("auth: generate session secret: %v", err))
		}
		slog.Warn("SESSION_SECRET not set, using an ephemeral secret; tokens will not survive restarts")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{secret: key, ttl: ttl}
}

// Session is an issued token and its identity.
type Session struct {
	Token     string    `json:"token"`
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Issue creates a fresh session token.
func (s *Service) Issue() (*Session, error) {
	sessionID := typeid.NewSessionID()
	now := time.Now()
	expires := now.Add(s.ttl)

	claims := jwt.MapClaims{
		"sub": sessionID,
		"iat": now.Unix(),
		"exp": expires.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Session{Token: signed, SessionID: sessionID, ExpiresAt: expires}, nil
}

// ValidateToken returns the session ID carried by a token.
func (s *Service) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	sessionID, ok := claims["sub"].(string)
	if !ok {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if err := typeid.Validate(sessionID, typeid.PrefixSession); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return sessionID, nil
}
