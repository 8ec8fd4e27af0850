// Package auth verifies the access tokens issued by the hosted auth service
// and exposes the authenticated actor to gin handlers.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const actorKey = "actor"

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrEmptySecret  = errors.New("jwt secret is empty")
)

type Verifier struct {
	secret   []byte
	audience string
}

// NewVerifier refuses an empty secret: HS256 with an empty key accepts
// tokens anyone can sign.
func NewVerifier(secret, audience string) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrEmptySecret
	}
	return &Verifier{secret: []byte(secret), audience: audience}, nil
}

// Verify parses an HS256 token and returns its subject as the actor id.
func (v *Verifier) Verify(raw string) (uuid.UUID, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	tok, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !tok.Valid {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sub, err := tok.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: subject is not a uuid", ErrInvalidToken)
	}
	return id, nil
}

// Authenticate stores the actor of a valid bearer token in the context.
// Requests without a token pass through anonymously; a malformed or
// expired token is rejected.
func (v *Verifier) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearer(c.GetHeader("Authorization"))
		if errors.Is(err, ErrMissingToken) {
			c.Next()
			return
		}
		if err == nil {
			var actor uuid.UUID
			if actor, err = v.Verify(raw); err == nil {
				c.Set(actorKey, actor)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidToken.Error()})
	}
}

// RequireActor rejects requests that carry no authenticated actor.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ActorFromContext(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// ActorFromContext returns nil when the request is anonymous.
func ActorFromContext(c *gin.Context) *uuid.UUID {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil
	}
	actor, ok := v.(uuid.UUID)
	if !ok {
		return nil
	}
	return &actor
}

func bearer(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return "", ErrInvalidToken
	}
	return strings.TrimSpace(raw), nil
}
