package markowitz

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

// ReturnSeries is the daily return history of one asset. Dates is optional; when
// present it must be the same length as Returns and strictly increasing.
type ReturnSeries struct {
	Ticker  string
	Dates   []time.Time
	Returns []float64
}

// Validate checks the per-series invariants.
func (s ReturnSeries) Validate() error {
	if s.Ticker == "" {
		return fmt.Errorf("%w: return series has no ticker", ErrInvalidInput)
	}
	if len(s.Returns) == 0 {
		return fmt.Errorf("%w: no return data for %s", ErrInvalidInput, s.Ticker)
	}
	if len(s.Dates) != 0 && len(s.Dates) != len(s.Returns) {
		return fmt.Errorf("%w: %s has %d dates for %d returns", ErrInvalidInput, s.Ticker, len(s.Dates), len(s.Returns))
	}
	for i := 1; i < len(s.Dates); i++ {
		if !s.Dates[i].After(s.Dates[i-1]) {
			return fmt.Errorf("%w: %s dates are not strictly increasing at %s",
				ErrInvalidInput, s.Ticker, s.Dates[i].Format("2006-01-02"))
		}
	}
	for i, r := range s.Returns {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return fmt.Errorf("%w: %s return %d is not finite", ErrInvalidInput, s.Ticker, i)
		}
	}
	return nil
}

// ReturnMatrix is a set of series truncated to their shortest common length.
// Rows are observations, columns are assets in Tickers order.
type ReturnMatrix struct {
	Tickers      []string
	Data         *mat.Dense
	Observations int
	// Truncated is set when at least one series lost observations during alignment.
	Truncated       bool
	OriginalLengths []int
}

// AlignReturns truncates every series to the shortest length, keeping the most
// recent observations and dropping the oldest excess. Series are not matched by
// calendar date.
func AlignReturns(series []ReturnSeries) (*ReturnMatrix, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: no return series supplied", ErrInvalidInput)
	}

	seen := make(map[string]bool, len(series))
	minLen := math.MaxInt
	for _, s := range series {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if seen[s.Ticker] {
			return nil, fmt.Errorf("%w: duplicate ticker %s", ErrInvalidInput, s.Ticker)
		}
		seen[s.Ticker] = true
		minLen = min(minLen, len(s.Returns))
	}

	m := &ReturnMatrix{
		Tickers:         make([]string, len(series)),
		Data:            mat.NewDense(minLen, len(series), nil),
		Observations:    minLen,
		OriginalLengths: make([]int, len(series)),
	}
	for j, s := range series {
		m.Tickers[j] = s.Ticker
		m.OriginalLengths[j] = len(s.Returns)
		offset := len(s.Returns) - minLen
		if offset > 0 {
			m.Truncated = true
		}
		m.Data.SetCol(j, s.Returns[offset:])
	}
	return m, nil
}

// orderSeries returns series in tickers order, failing on unknown or missing tickers.
func orderSeries(tickers []string, series []ReturnSeries) ([]ReturnSeries, error) {
	byTicker := make(map[string]ReturnSeries, len(series))
	for _, s := range series {
		byTicker[s.Ticker] = s
	}
	out := make([]ReturnSeries, len(tickers))
	seen := make(map[string]bool, len(tickers))
	for i, t := range tickers {
		if seen[t] {
			return nil, fmt.Errorf("%w: duplicate ticker %s", ErrInvalidInput, t)
		}
		seen[t] = true
		s, ok := byTicker[t]
		if !ok {
			return nil, fmt.Errorf("%w: no return data for %s", ErrInvalidInput, t)
		}
		out[i] = s
	}
	return out, nil
}
