package models

import "errors"

// Domain errors returned by the repositories. Handlers map these to
// HTTP statuses; anything else propagates as an internal failure.
var (
	ErrCategoryNotFound       = errors.New("category not found")
	ErrCategoryAlreadyExists  = errors.New("category already exists")
	ErrProductNotFound        = errors.New("product not found")
	ErrProductAlreadyExists   = errors.New("product already exists")
	ErrProductVariantNotFound = errors.New("product variant not found")
	ErrProductVariantInUse    = errors.New("product variant is referenced by order items")
	ErrOrderNotFound          = errors.New("order not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrUserAlreadyExists      = errors.New("user already exists")
	ErrInvalidCredentials     = errors.New("invalid username or password")
	ErrInvalidAccessToken     = errors.New("invalid access token")
	ErrAccessForbidden        = errors.New("access forbidden")
)
