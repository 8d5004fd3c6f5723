package payments

import (
	"errors"

	"github.com/skairipa08/FundEd/internal/shared/apperr"
)

var (
	ErrDuplicate           = errors.New("duplicate record")
	ErrTransactionNotFound = errors.New("payment transaction not found")
	ErrDonationNotFound    = errors.New("donation not found")

	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMissingSignature = errors.New("missing webhook signature")
	ErrInvalidPayload   = errors.New("invalid webhook payload")
)

var (
	ErrNotConfigured    = apperr.UnavailableErr("Payment service not configured")
	ErrNotAccepting     = apperr.InvalidErr("Campaign is not accepting donations", nil)
	ErrStatusNotFound   = apperr.NotFoundErr("Transaction not found")
	ErrOriginRequired   = apperr.InvalidErr("origin_url is required", map[string]string{"origin_url": "This field is required."})
	ErrAmountOutOfRange = apperr.InvalidErr("Amount must be greater than 0 and at most 100000 with two decimals", map[string]string{"amount": "Invalid amount."})
)

// GatewayError carries the payment gateway's own error text.
type GatewayError struct {
	Message string
	Err     error
}

func (e *GatewayError) Error() string { return "gateway: " + e.Message }

func (e *GatewayError) Unwrap() error { return e.Err }
