package handling

import (
	"errors"
	"net/http"

	"lemonshop_server/lib"

	"github.com/MonkyMars/gecho"
)

func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) error {
	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))

	return gecho.InternalServerError(w, gecho.Send())
}

// HandleServiceError answers with the status matching a service error and
// falls back to HandleError for anything unexpected.
func HandleServiceError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) error {
	switch {
	case errors.Is(err, lib.ErrNotFound):
		return gecho.NotFound(w, gecho.WithMessage(err.Error()), gecho.Send())
	case errors.Is(err, lib.ErrConflict):
		return gecho.Conflict(w, gecho.WithMessage(err.Error()), gecho.Send())
	case errors.Is(err, lib.ErrInvalidCredentials),
		errors.Is(err, lib.ErrInvalidToken),
		errors.Is(err, lib.ErrExpiredToken):
		return gecho.Unauthorized(w, gecho.WithMessage("Invalid credentials"), gecho.Send())
	case errors.Is(err, lib.ErrOutOfStock),
		errors.Is(err, lib.ErrEmptyCart),
		errors.Is(err, lib.ErrImageTooLarge),
		errors.Is(err, lib.ErrInvalidImage),
		errors.Is(err, lib.ErrInvalidPrice),
		errors.Is(err, lib.ErrInvalidParent):
		logger.Debug(msg, gecho.Field("error", err))
		return gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
	}

	return HandleError(err, msg, logger, w)
}

// Respond sends data after a state change. When the change could not be
// written the client gets 503 together with the data it would have seen.
func Respond(w http.ResponseWriter, logger *gecho.Logger, saved bool, data any, msg string) error {
	if !saved {
		logger.Warn("Change not persisted", gecho.Field("msg", msg))
		return gecho.ServiceUnavailable(w,
			gecho.WithMessage("Storage is unavailable, the change was not saved"),
			gecho.WithData(data),
			gecho.Send(),
		)
	}
	return gecho.Success(w, gecho.WithMessage(msg), gecho.WithData(data), gecho.Send())
}

// HandleBodyError answers a request whose body could not be decoded or validated
func HandleBodyError(err error, logger *gecho.Logger, w http.ResponseWriter) error {
	logger.Debug("Failed to extract and validate body", gecho.Field("error", err))

	var validation *lib.ValidationError
	if errors.As(err, &validation) {
		return gecho.BadRequest(w, gecho.WithMessage(validation.Error()), gecho.WithData(validation.Errors), gecho.Send())
	}
	if errors.Is(err, lib.ErrEmptyBody) {
		return gecho.BadRequest(w, gecho.WithMessage("Request body is required"), gecho.Send())
	}
	return gecho.BadRequest(w, gecho.WithMessage("Invalid request body"), gecho.Send())
}
