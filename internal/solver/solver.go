// Package solver minimizes smooth objectives subject to equality constraints,
// inequality constraints and box bounds.
//
// The method is an augmented Lagrangian (Powell-Hestenes-Rockafellar) outer loop
// around gonum's L-BFGS for the unconstrained subproblems. Callers get back an
// explicit Result with a Success flag; a failed solve is never dressed up as a
// feasible one.
package solver

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// ErrInvalidProblem is returned when a Problem cannot be solved as stated
// (missing objective, bound/dimension mismatch, empty start vector).
var ErrInvalidProblem = errors.New("invalid optimization problem")

// ConstraintType distinguishes h(x) = 0 from g(x) >= 0.
type ConstraintType int

const (
	Equality ConstraintType = iota
	Inequality
)

func (t ConstraintType) String() string {
	if t == Equality {
		return "eq"
	}
	return "ineq"
}

// Constraint is a scalar constraint on x. Inequalities follow the g(x) >= 0 convention.
// Grad may be nil, in which case a central finite difference is used.
type Constraint struct {
	Type ConstraintType
	Func func(x []float64) float64
	Grad func(grad, x []float64)
}

// Bound is a closed interval for one coordinate. Use math.Inf for an open side.
type Bound struct {
	Lower float64
	Upper float64
}

// Problem is the objective plus its constraints. Bounds is either empty or has
// one entry per coordinate.
type Problem struct {
	Func        func(x []float64) float64
	Grad        func(grad, x []float64)
	Constraints []Constraint
	Bounds      []Bound
}

// Settings bounds the work done by Minimize.
type Settings struct {
	// MaxIterations caps the number of multiplier updates.
	MaxIterations int
	// MaxInnerIterations caps L-BFGS major iterations per subproblem.
	MaxInnerIterations int
	// FeasibilityTolerance is the largest constraint violation accepted as feasible.
	FeasibilityTolerance float64
	// OptimalityTolerance is the relative change in objective between outer
	// iterations below which the solve is considered converged.
	OptimalityTolerance float64
	InitialPenalty      float64
	MaxPenalty          float64
}

// DefaultSettings returns the settings used when Minimize is given nil.
func DefaultSettings() *Settings {
	return &Settings{
		MaxIterations:        100,
		MaxInnerIterations:   1000,
		FeasibilityTolerance: 1e-8,
		OptimalityTolerance:  1e-10,
		InitialPenalty:       10,
		MaxPenalty:           1e10,
	}
}

// Result is the outcome of Minimize. X is always the last iterate, clamped to
// the bounds; it is only a solution when Success is true.
type Result struct {
	X               []float64
	F               float64
	Success         bool
	Message         string
	Iterations      int
	OuterIterations int
	MaxViolation    float64
}

// Minimize solves p starting from x0. The returned error is reserved for a
// malformed problem; solver non-convergence is reported through Result.Success.
func Minimize(p Problem, x0 []float64, settings *Settings) (*Result, error) {
	if err := validate(p, x0); err != nil {
		return nil, err
	}
	if settings == nil {
		settings = DefaultSettings()
	}
	s := *settings
	fillDefaults(&s)

	al := newLagrangian(p, s.InitialPenalty)
	x := make([]float64, len(x0))
	copy(x, x0)
	clampToBounds(x, p.Bounds)

	res := &Result{X: x}
	prevF := math.Inf(1)
	prevViolation := math.Inf(1)

	for outer := 1; outer <= s.MaxIterations; outer++ {
		res.OuterIterations = outer

		inner, err := optimize.Minimize(al.problem(), x, &optimize.Settings{
			GradientThreshold: 1e-12,
			MajorIterations:   s.MaxInnerIterations,
			Converger: &optimize.FunctionConverge{
				Absolute:   1e-16,
				Relative:   1e-14,
				Iterations: 25,
			},
		}, &optimize.LBFGS{})
		if inner == nil {
			res.Message = fmt.Sprintf("inner solver failed: %v", err)
			return finish(res, p, x), nil
		}
		// Line search failures near the optimum still leave a usable location.
		res.Iterations += inner.Stats.MajorIterations
		copy(x, inner.X)

		f := p.Func(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			res.Message = "objective is not finite at current iterate"
			return finish(res, p, x), nil
		}

		violation := al.update(x)
		change := math.Abs(f - prevF)
		if violation <= s.FeasibilityTolerance && change <= s.OptimalityTolerance*(1+math.Abs(f)) {
			res.Success = true
			res.Message = "optimization terminated successfully"
			return finish(res, p, x), nil
		}

		if violation > 0.25*prevViolation {
			al.rho = math.Min(al.rho*10, s.MaxPenalty)
		}
		prevViolation = violation
		prevF = f
	}

	res.Message = fmt.Sprintf("iteration limit reached after %d outer iterations", s.MaxIterations)
	return finish(res, p, x), nil
}

// finish clamps x to the bounds and re-checks feasibility so Success never
// describes an infeasible point.
func finish(res *Result, p Problem, x []float64) *Result {
	clampToBounds(x, p.Bounds)
	res.X = x
	res.F = p.Func(x)
	res.MaxViolation = maxViolation(p, x)
	if res.Success && res.MaxViolation > feasibilityCeiling {
		res.Success = false
		res.Message = fmt.Sprintf("constraint violation %.3g after bound clamp", res.MaxViolation)
	}
	return res
}

// feasibilityCeiling is the violation finish tolerates after clamping. Clamping
// an active bound moves equality residuals by roughly the bound violation.
const feasibilityCeiling = 1e-6

func fillDefaults(s *Settings) {
	d := DefaultSettings()
	if s.MaxIterations <= 0 {
		s.MaxIterations = d.MaxIterations
	}
	if s.MaxInnerIterations <= 0 {
		s.MaxInnerIterations = d.MaxInnerIterations
	}
	if s.FeasibilityTolerance <= 0 {
		s.FeasibilityTolerance = d.FeasibilityTolerance
	}
	if s.OptimalityTolerance <= 0 {
		s.OptimalityTolerance = d.OptimalityTolerance
	}
	if s.InitialPenalty <= 0 {
		s.InitialPenalty = d.InitialPenalty
	}
	if s.MaxPenalty < s.InitialPenalty {
		s.MaxPenalty = math.Max(d.MaxPenalty, s.InitialPenalty)
	}
}

func validate(p Problem, x0 []float64) error {
	if p.Func == nil {
		return fmt.Errorf("%w: objective function is nil", ErrInvalidProblem)
	}
	if len(x0) == 0 {
		return fmt.Errorf("%w: empty starting point", ErrInvalidProblem)
	}
	if len(p.Bounds) != 0 && len(p.Bounds) != len(x0) {
		return fmt.Errorf("%w: %d bounds for %d variables", ErrInvalidProblem, len(p.Bounds), len(x0))
	}
	for i, b := range p.Bounds {
		if b.Lower > b.Upper {
			return fmt.Errorf("%w: bound %d has lower %g above upper %g", ErrInvalidProblem, i, b.Lower, b.Upper)
		}
	}
	for i, c := range p.Constraints {
		if c.Func == nil {
			return fmt.Errorf("%w: constraint %d has no function", ErrInvalidProblem, i)
		}
	}
	for i, v := range x0 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: starting point component %d is not finite", ErrInvalidProblem, i)
		}
	}
	return nil
}

func clampToBounds(x []float64, bounds []Bound) {
	for i, b := range bounds {
		x[i] = math.Min(math.Max(x[i], b.Lower), b.Upper)
	}
}

// maxViolation is the largest residual over all constraints and bounds.
func maxViolation(p Problem, x []float64) float64 {
	v := 0.0
	for _, c := range p.Constraints {
		r := c.Func(x)
		if c.Type == Equality {
			v = math.Max(v, math.Abs(r))
		} else {
			v = math.Max(v, -r)
		}
	}
	for i, b := range p.Bounds {
		v = math.Max(v, b.Lower-x[i])
		v = math.Max(v, x[i]-b.Upper)
	}
	return v
}

func gradientOf(f func([]float64) float64, grad func(grad, x []float64)) func(grad, x []float64) {
	if grad != nil {
		return grad
	}
	return func(g, x []float64) {
		fd.Gradient(g, f, x, &fd.Settings{Formula: fd.Central})
	}
}

// lagrangian holds multiplier state for one Minimize call.
type lagrangian struct {
	p      Problem
	grads  []func(grad, x []float64)
	lambda []float64 // one per constraint
	bounds []boundTerm
	rho    float64
	objG   func(grad, x []float64)
	work   []float64
}

// boundTerm is a finite side of a Bound expressed as sign*(x[i]-limit) >= 0.
type boundTerm struct {
	index int
	limit float64
	sign  float64
	mu    float64
}

func newLagrangian(p Problem, rho float64) *lagrangian {
	al := &lagrangian{
		p:      p,
		lambda: make([]float64, len(p.Constraints)),
		rho:    rho,
		objG:   gradientOf(p.Func, p.Grad),
	}
	for _, c := range p.Constraints {
		al.grads = append(al.grads, gradientOf(c.Func, c.Grad))
	}
	for i, b := range p.Bounds {
		if !math.IsInf(b.Lower, -1) {
			al.bounds = append(al.bounds, boundTerm{index: i, limit: b.Lower, sign: 1})
		}
		if !math.IsInf(b.Upper, 1) {
			al.bounds = append(al.bounds, boundTerm{index: i, limit: b.Upper, sign: -1})
		}
	}
	return al
}

func (al *lagrangian) problem() optimize.Problem {
	return optimize.Problem{
		Func: al.value,
		Grad: al.gradient,
	}
}

// inequalityTerm is the PHR penalty for g >= 0 with multiplier mu.
func (al *lagrangian) inequalityTerm(g, mu float64) float64 {
	s := math.Max(0, mu-al.rho*g)
	return (s*s - mu*mu) / (2 * al.rho)
}

func (al *lagrangian) value(x []float64) float64 {
	v := al.p.Func(x)
	for j, c := range al.p.Constraints {
		r := c.Func(x)
		if c.Type == Equality {
			v += al.lambda[j]*r + 0.5*al.rho*r*r
		} else {
			v += al.inequalityTerm(r, al.lambda[j])
		}
	}
	for _, b := range al.bounds {
		v += al.inequalityTerm(b.sign*(x[b.index]-b.limit), b.mu)
	}
	return v
}

func (al *lagrangian) gradient(grad, x []float64) {
	al.objG(grad, x)
	if len(al.work) != len(x) {
		al.work = make([]float64, len(x))
	}
	for j, c := range al.p.Constraints {
		r := c.Func(x)
		var coef float64
		if c.Type == Equality {
			coef = al.lambda[j] + al.rho*r
		} else {
			coef = -math.Max(0, al.lambda[j]-al.rho*r)
		}
		if coef == 0 {
			continue
		}
		al.grads[j](al.work, x)
		floats.AddScaled(grad, coef, al.work)
	}
	for _, b := range al.bounds {
		g := b.sign * (x[b.index] - b.limit)
		grad[b.index] -= math.Max(0, b.mu-al.rho*g) * b.sign
	}
}

// update advances the multipliers at x and returns the current violation.
func (al *lagrangian) update(x []float64) float64 {
	violation := 0.0
	for j, c := range al.p.Constraints {
		r := c.Func(x)
		if c.Type == Equality {
			al.lambda[j] += al.rho * r
			violation = math.Max(violation, math.Abs(r))
		} else {
			al.lambda[j] = math.Max(0, al.lambda[j]-al.rho*r)
			violation = math.Max(violation, -r)
		}
	}
	for k := range al.bounds {
		b := &al.bounds[k]
		g := b.sign * (x[b.index] - b.limit)
		b.mu = math.Max(0, b.mu-al.rho*g)
		violation = math.Max(violation, -g)
	}
	return violation
}
