package service

import "errors"

var (
	ErrCartSessionInvalid = errors.New("cart session invalid")
	ErrCartItemInvalid    = errors.New("cart item invalid")
	ErrProductNotFound    = errors.New("product not found")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrContactInvalid     = errors.New("checkout contact invalid")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderFetchFailed   = errors.New("order fetch failed")
	ErrOrderCreateFailed  = errors.New("order create failed")
	ErrOrderUpdateFailed  = errors.New("order update failed")
)
