package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"sync"
	"time"

	"lemonshop_server/lib"
	"lemonshop_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// AuthService guards the admin area with a single shared password and
// short-lived session tokens.
type AuthService struct {
	logger *gecho.Logger
	store  *StoreService
	secret string
	expiry time.Duration
	now    func() time.Time

	// revoked holds the jti of logged out sessions until they expire
	revokedMu sync.Mutex
	revoked   map[uuid.UUID]time.Time
}

func NewAuthService(cfg *structs.Config, logger *gecho.Logger, store *StoreService) *AuthService {
	secret := cfg.Auth.SessionSecret
	if secret == "" {
		generated, err := lib.GenerateRandomToken()
		if err != nil {
			logger.Fatal("Failed to generate session secret", gecho.Field("error", err))
		}
		secret = generated
		logger.Warn("AUTH_SESSION_SECRET not set, sessions will not survive a restart")
	}

	expiry := cfg.Auth.SessionExpiry
	if expiry <= 0 {
		expiry = 12 * time.Hour
	}

	return &AuthService{
		logger:  logger,
		store:   store,
		secret:  secret,
		expiry:  expiry,
		now:     time.Now,
		revoked: make(map[uuid.UUID]time.Time),
	}
}

// Login compares password with the stored admin password and issues a
// session token on a match.
func (as *AuthService) Login(ctx context.Context, password string) (string, *structs.SessionClaims, error) {
	expected := as.store.Load(ctx).Settings.Password()
	if subtle.ConstantTimeCompare([]byte(password), []byte(expected)) != 1 {
		as.logger.Warn("Admin login failed")
		return "", nil, lib.ErrInvalidCredentials
	}

	token, claims, err := lib.IssueSessionToken(as.secret, as.expiry, as.now())
	if err != nil {
		as.logger.Error("Failed to issue session token", gecho.Field("error", err))
		return "", nil, err
	}

	as.logger.Info("Admin logged in", gecho.Field("jti", claims.Jti), gecho.Field("expires_at", claims.Exp))
	return token, claims, nil
}

// Secret is the HMAC key session tokens are signed with
func (as *AuthService) Secret() string {
	return as.secret
}

// Logout revokes the session until its token expires
func (as *AuthService) Logout(claims *structs.SessionClaims) {
	now := as.now()

	as.revokedMu.Lock()
	defer as.revokedMu.Unlock()
	for jti, exp := range as.revoked {
		if exp.Before(now) {
			delete(as.revoked, jti)
		}
	}
	as.revoked[claims.Jti] = claims.Exp

	as.logger.Info("Admin logged out", gecho.Field("jti", claims.Jti))
}

// Authenticate reads the session of r and rejects revoked sessions
func (as *AuthService) Authenticate(r *http.Request) (*structs.SessionClaims, error) {
	claims, err := lib.ExtractClaims(r, as.secret)
	if err != nil {
		return nil, err
	}

	as.revokedMu.Lock()
	_, revoked := as.revoked[claims.Jti]
	as.revokedMu.Unlock()

	if revoked {
		return nil, fmt.Errorf("session %s was logged out: %w", claims.Jti, lib.ErrInvalidToken)
	}
	return claims, nil
}
