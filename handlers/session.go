package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	SessionCookie = "session"
	// SessionLifetime bounds how long a signed session cookie stays valid.
	SessionLifetime = 30 * 24 * time.Hour

	sessionIDKey = "session_id"
)

// Claims represents the session JWT claims
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Sessions issues and verifies anonymous shopper sessions.
type Sessions struct {
	secret []byte
	secure bool
	logger *zap.Logger
}

func NewSessions(secret string, secure bool, logger *zap.Logger) *Sessions {
	return &Sessions{secret: []byte(secret), secure: secure, logger: logger}
}

func (s *Sessions) sign(sessionID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionLifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, nil
}

func (s *Sessions) verify(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid session token")
	}
	if _, err := uuid.Parse(claims.SessionID); err != nil {
		return "", fmt.Errorf("invalid session id: %w", err)
	}
	return claims.SessionID, nil
}

// Middleware resolves the shopper's session from the cookie, starting a new
// one when the cookie is missing or does not verify.
func (s *Sessions) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if cookie, err := c.Cookie(SessionCookie); err == nil {
			sessionID, err := s.verify(cookie)
			if err == nil {
				c.Set(sessionIDKey, sessionID)
				c.Next()
				return
			}
			s.logger.Debug("discarding invalid session cookie", zap.Error(err))
		}

		sessionID := uuid.NewString()
		token, err := s.sign(sessionID)
		if err != nil {
			s.logger.Error("failed to start session", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, token, int(SessionLifetime.Seconds()), "/", "", s.secure, true)
		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
