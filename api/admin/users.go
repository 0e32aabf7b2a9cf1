package admin

import (
	"net/http"

	"lemonshop_server/handling"
	"lemonshop_server/lib"
	"lemonshop_server/structs"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) ListUsers(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(ar.settingsService.Users(r.Context())),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) CreateUser(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CreateUserRequest](r)
	if err != nil {
		handling.HandleBodyError(err, ar.logger, w)
		return
	}

	user, saved, err := ar.settingsService.AddUser(r.Context(), *body)
	if err != nil {
		handling.HandleServiceError(err, "Failed to create user", ar.logger, w)
		return
	}

	handling.Respond(w, ar.logger, saved, user, "User created")
}

func (ar *AdminRoutesManager) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseInt64Param(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
		return
	}

	saved, err := ar.settingsService.DeleteUser(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, "Failed to delete user", ar.logger, w)
		return
	}

	handling.Respond(w, ar.logger, saved, map[string]int64{"id": id}, "User deleted")
}
