package lib

import (
	"errors"

	"lemonshop_server/database"
)

// Storage errors
var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
)

// Auth errors
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Shop errors
var (
	ErrOutOfStock    = errors.New("product is out of stock")
	ErrEmptyCart     = errors.New("cart is empty")
	ErrImageTooLarge = errors.New("image is too large")
	ErrInvalidImage  = errors.New("image is not a valid data url")
	ErrInvalidPrice  = errors.New("price must not be negative")
	ErrInvalidParent = errors.New("parent category does not exist")
)

// MapPgError turns well known SQLSTATEs into the errors above
func MapPgError(err error) error {
	code, ok := database.SQLState(err)
	if !ok {
		return err
	}
	switch code {
	case "23505": // unique_violation
		return ErrConflict
	case "P0002": // no_data_found
		return ErrNotFound
	}
	return err
}
