package domain

import "errors"

var (
	ErrInsufficientCredits   = errors.New("insufficient credits")
	ErrVendorUnavailable     = errors.New("generation vendor unavailable")
	ErrVendorTimeout         = errors.New("generation task still running, retry later")
	ErrInvalidSignature      = errors.New("invalid notification signature")
	ErrMalformedNotification = errors.New("malformed payment notification")
	ErrOrderNotFound         = errors.New("payment order not found")
	ErrAmountMismatch        = errors.New("paid amount does not match order amount")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrStoreConflict         = errors.New("store conflict")

	ErrTaskNotFound       = errors.New("generation task not found")
	ErrInvalidPaymentType = errors.New("invalid payment type")
	ErrInvalidAmount      = errors.New("amount and credits must be positive")
	ErrEmptyPrompt        = errors.New("prompt is required")
	ErrDuplicateOrderNo   = errors.New("duplicate out_trade_no")
	ErrUnauthorized       = errors.New("unauthorized")
)
