package common

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAddress     = errors.New("invalid address")
	ErrInvalidDecimals    = errors.New("invalid decimals")
	ErrInvalidPrivateKey  = errors.New("invalid private key")
	ErrGatewayUnavailable = errors.New("gateway unavailable")

	// ErrPrecisionLoss is returned when a display amount has more fractional
	// digits than the unit allows, so it has no exact base unit value.
	ErrPrecisionLoss     = errors.New("amount is not representable in base units")
	ErrUnitMismatch      = errors.New("amounts have different decimals")
	ErrMalformedCallData = errors.New("malformed call data")
)

// RejectedError is what a gateway returns when a node answered the request
// but refused it, e.g. a raw transaction with a bad nonce or insufficient
// funds. It is never a connectivity problem.
type RejectedError struct {
	Detail string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("rejected: %s", e.Detail)
}

// IsRejected reports whether err carries a node-reported rejection and
// returns its detail.
func IsRejected(err error) (string, bool) {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected.Detail, true
	}
	return "", false
}
