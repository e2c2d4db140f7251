package markowitz

import "errors"

// Sentinel errors for the optimization core. Callers match with errors.Is;
// the wrapped message carries the detail.
var (
	// ErrInvalidInput covers missing or insufficient tickers, empty or malformed
	// return data and weight maps that do not match the ticker list.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInfeasible is returned when the requested constraints cannot be met by
	// any portfolio of the selected assets.
	ErrInfeasible = errors.New("infeasible constraints")

	// ErrSolverFailed wraps the constrained optimizer's diagnostic when it does
	// not converge.
	ErrSolverFailed = errors.New("solver failed to converge")

	// ErrZeroRisk is returned by ratio computations when portfolio volatility is exactly zero.
	ErrZeroRisk = errors.New("portfolio risk is zero")
)
