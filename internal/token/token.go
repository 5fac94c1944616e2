// Package token extracts the claims this client is allowed to consume from
// a backend-issued JWT. The signature is the backend's to verify; locally
// the token only identifies the subject and its expiry, so parsing is
// deliberately unverified and authorization is never derived from claims.
package token

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mauandrade99/gerenciador-cli/internal/model"
)

type Claims struct {
	UserID    int64
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token expiry is at or before now.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

// Decode parses the raw token without verifying its signature and pulls
// out the subject id and the timestamps. A token missing the userId or exp
// claims is malformed for this client's purposes.
func Decode(raw string) (*Claims, error) {
	mapClaims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, mapClaims); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrTokenMalformed, err)
	}

	userID, err := numericClaim(mapClaims, "userId")
	if err != nil {
		return nil, err
	}

	exp, err := mapClaims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%w: missing exp claim", model.ErrTokenMalformed)
	}

	claims := &Claims{
		UserID:    userID,
		ExpiresAt: exp.Time,
	}

	if sub, err := mapClaims.GetSubject(); err == nil {
		claims.Subject = sub
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}

	return claims, nil
}

func numericClaim(claims jwt.MapClaims, key string) (int64, error) {
	v, ok := claims[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing %s claim", model.ErrTokenMalformed, key)
	}

	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case json.Number:
		id, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: invalid %s claim", model.ErrTokenMalformed, key)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("%w: invalid %s claim", model.ErrTokenMalformed, key)
	}
}
