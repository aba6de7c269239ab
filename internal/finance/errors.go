package finance

import "errors"

var (
	// ErrInvalidLoanParameters is returned for a non-positive principal or term
	ErrInvalidLoanParameters = errors.New("invalid loan parameters")
	// ErrInvalidCashFlows is returned when a cash-flow series cannot have an IRR
	ErrInvalidCashFlows = errors.New("invalid cash flows")
	// ErrInvalidProjection is returned for compound interest inputs outside the supported range
	ErrInvalidProjection = errors.New("invalid compound interest parameters")
	// ErrNoConvergence is returned when the IRR search does not settle
	ErrNoConvergence = errors.New("irr did not converge")
)
