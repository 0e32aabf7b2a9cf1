package lib

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"lemonshop_server/structs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	SessionCookieName = "lemonshop_session"
	SessionSubject    = "admin"
)

// IssueSessionToken signs an admin session token valid for ttl
func IssueSessionToken(secret string, ttl time.Duration, now time.Time) (string, *structs.SessionClaims, error) {
	claims := &structs.SessionClaims{
		Sub: SessionSubject,
		Iat: now,
		Exp: now.Add(ttl),
		Jti: uuid.New(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": claims.Sub,
		"iat": claims.Iat.Unix(),
		"exp": claims.Exp.Unix(),
		"jti": claims.Jti.String(),
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, claims, nil
}

// ParseToken parses and validates a session token string and returns the claims
func ParseToken(tokenStr string, secret string) (*structs.SessionClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub != SessionSubject {
		return nil, fmt.Errorf("%w: invalid sub claim", ErrInvalidToken)
	}

	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: invalid iat claim", ErrInvalidToken)
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: invalid exp claim", ErrInvalidToken)
	}

	jtiStr, ok := claims["jti"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: invalid jti claim", ErrInvalidToken)
	}
	jti, err := uuid.Parse(jtiStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid UUID in jti claim: %v", ErrInvalidToken, err)
	}

	return &structs.SessionClaims{
		Sub: sub,
		Iat: time.Unix(int64(iat), 0),
		Exp: time.Unix(int64(exp), 0),
		Jti: jti,
	}, nil
}

// ExtractClaims reads the session from the cookie, or from a bearer token
// when there is no cookie.
func ExtractClaims(r *http.Request, secret string) (*structs.SessionClaims, error) {
	token, err := GetCookieValue(SessionCookieName, r)
	if err != nil || token == "" {
		auth := r.Header.Get("Authorization")
		bearer, found := strings.CutPrefix(auth, "Bearer ")
		if !found || strings.TrimSpace(bearer) == "" {
			return nil, ErrInvalidToken
		}
		token = strings.TrimSpace(bearer)
	}

	return ParseToken(token, secret)
}
