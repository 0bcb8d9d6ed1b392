package errs

import "errors"

// Domain-specific sentinel errors shared across usecase layers
var (
	// Lookup errors
	ErrBookingNotFound  = errors.New("booking not found")
	ErrRoomTypeNotFound = errors.New("room type not found")
	ErrWalletNotFound   = errors.New("wallet not found")

	// Inventory errors
	ErrOutOfInventory = errors.New("out of inventory")

	// Coupon errors
	ErrCouponNotFound = errors.New("coupon not found")
	ErrCouponInvalid  = errors.New("coupon invalid")

	// Wallet errors
	ErrInsufficientBalance = errors.New("insufficient balance")

	// Payment errors
	ErrSignatureMismatch = errors.New("signature mismatch")

	// State machine errors
	ErrInvalidTransition = errors.New("invalid booking transition")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Authorization errors
	ErrForbidden = errors.New("actor is not allowed to perform this operation")

	// Concurrency errors
	ErrBusy = errors.New("conflicting concurrent update, retry later")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
