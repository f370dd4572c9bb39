package domain

import "errors"

var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInsufficientSlots   = errors.New("not enough slots available")
	ErrArtworkUnavailable  = errors.New("artwork is not available")
	ErrExhibitionClosed    = errors.New("exhibition has already ended")
	ErrOrderNotPending     = errors.New("order is not awaiting payment")
	ErrForbidden           = errors.New("forbidden")
	ErrUnknownCheckout     = errors.New("unknown checkout request")
	ErrMalformedTicketCode = errors.New("malformed ticket code")
	ErrInUse               = errors.New("still referenced by other records")
)
