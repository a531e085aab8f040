package services

import "github.com/shashiranjanraj/shirtshop/pkg/apperr"

var (
	ErrNothingToCheckout = apperr.NotFound("nothing to checkout")
	ErrEmptyCart         = apperr.Conflict("empty cart")
	ErrItemNotFound      = apperr.NotFound("item not found in your cart")
	ErrProductNotFound   = apperr.NotFound("shirt not found")
	ErrInvalidSize       = apperr.Validation("size is not offered for this shirt")
	ErrOrderNotFound     = apperr.NotFound("order not found")
	ErrAddressNotFound   = apperr.NotFound("address not found for this user")
	ErrAdminOnly         = apperr.Forbidden("admin access only")
	ErrCartBusy          = apperr.New(apperr.KindBusy, "order is being modified, please retry")
	ErrTimedOut          = apperr.New(apperr.KindBusy, "request timed out, please retry")

	ErrUsernameTaken      = apperr.Validation("username already exists")
	ErrInvalidCredentials = apperr.Unauthorized("incorrect username or password")

	ErrInvalidPrice       = apperr.Validation("price must be a non-negative amount")
	ErrInvalidSizes       = apperr.Validation("sizes must be non-empty labels without commas")
	ErrUnsupportedImage   = apperr.Validation("image must be jpeg, png, gif or webp")
	ErrStorageUnavailable = apperr.New(apperr.KindInternal, "image storage is not configured")
)
