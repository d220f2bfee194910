package storefront

import "errors"

var (
	ErrSessionClosed   = errors.New("storefront session is not running")
	ErrAlreadyRunning  = errors.New("storefront session already running")
	ErrProductNotFound = errors.New("product not found in catalog")
	ErrNoOrderService  = errors.New("no order service configured")
)
