package structs

import (
	"time"

	"github.com/google/uuid"
)

// SessionClaims are the parsed claims of an admin session token
type SessionClaims struct {
	Sub string    `json:"sub"`
	Iat time.Time `json:"iat"`
	Exp time.Time `json:"exp"`
	Jti uuid.UUID `json:"jti"`
}

type AdminLoginRequest struct {
	Password string `json:"password" validate:"required,max=200"`
}

type LoginResponse struct {
	ExpiresAt time.Time `json:"expiresAt"`
	Token     string    `json:"token"`
}
