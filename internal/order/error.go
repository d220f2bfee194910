package order

import "errors"

var (
	ErrNoRecipient = errors.New("order channel has no recipient number")
	ErrNoOpener    = errors.New("order channel has no opener")
)
