package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// cookieClaims is the JWT payload carried by the browser cookie. The cookie
// never holds backend tokens, only the ID of the server-side session.
type cookieClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// signCookie issues a signed HS256 cookie value for a session ID.
func signCookie(sessionID, issuer, key string, ttl time.Duration) (string, error) {
	claims := cookieClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   sessionID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
}

// parseCookie validates a cookie value and returns the session ID.
func parseCookie(value, key, issuer string) (string, error) {
	parsed, err := jwt.ParseWithClaims(value, &cookieClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(key), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*cookieClaims)
	if !ok || !parsed.Valid {
		return "", errors.New("invalid cookie")
	}
	if issuer != "" && claims.Issuer != issuer {
		return "", errors.New("issuer mismatch")
	}
	if claims.SessionID == "" {
		return "", errors.New("missing session id")
	}
	return claims.SessionID, nil
}
