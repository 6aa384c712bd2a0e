package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is returned when an input is outside its documented domain.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDivisionByZero is returned when a zero holding cost is used as the EOQ divisor.
	// It also matches ErrInvalidParameter.
	ErrDivisionByZero = fmt.Errorf("%w: division by zero", ErrInvalidParameter)

	// ErrInfeasibleAllocation is returned when the network allocation LP has no feasible solution.
	ErrInfeasibleAllocation = errors.New("infeasible allocation")

	// ErrInvalidNetwork is returned when nodes and edges do not form a valid supply network.
	ErrInvalidNetwork = errors.New("invalid network")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidParameter}, args...)...)
}

func networkf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidNetwork}, args...)...)
}
