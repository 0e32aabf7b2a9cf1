package auth

import (
	"errors"
	"net/http"

	"lemonshop_server/api/middleware"
	"lemonshop_server/lib"
	"lemonshop_server/structs"

	"github.com/MonkyMars/gecho"
)

func (ar *AuthRoutesManager) HandleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.AdminLoginRequest](r)
	if err != nil {
		ar.logger.Warn("Failed to extract request body", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("Password is required"), gecho.Send())
		return
	}

	token, claims, err := ar.authService.Login(r.Context(), body.Password)
	if err != nil {
		if errors.Is(err, lib.ErrInvalidCredentials) {
			gecho.Unauthorized(w, gecho.WithMessage("Invalid credentials"), gecho.Send())
			return
		}
		gecho.InternalServerError(w, gecho.WithMessage("Unable to complete login. Please try again"), gecho.Send())
		return
	}

	lib.SetSessionCookie(token, w)

	gecho.Success(w,
		gecho.WithMessage("Login successful"),
		gecho.WithData(structs.LoginResponse{
			ExpiresAt: claims.Exp,
			Token:     token,
		}),
		gecho.Send(),
	)
}

// HandleMe reports the current admin session
func (ar *AuthRoutesManager) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing session"), gecho.Send())
		return
	}

	gecho.Success(w, gecho.WithData(claims), gecho.Send())
}
