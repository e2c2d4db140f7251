package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// WeightInput is the "weights" field of an optimization request. Clients send
// either an object keyed by ticker or an array aligned with "tickers"; null,
// an absent field or an empty value means no hint.
type WeightInput struct {
	ByTicker   map[string]float64
	Positional []float64
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (w *WeightInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*w = WeightInput{}
		return nil
	}

	switch b[0] {
	case '{':
		var m map[string]float64
		if err := json.Unmarshal(b, &m); err != nil {
			return fmt.Errorf("weights object must map tickers to numbers: %w", err)
		}
		*w = WeightInput{ByTicker: m}
	case '[':
		var s []float64
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("weights array must contain numbers: %w", err)
		}
		*w = WeightInput{Positional: s}
	default:
		return fmt.Errorf("weights must be an object or an array")
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (w WeightInput) MarshalJSON() ([]byte, error) {
	switch {
	case w.ByTicker != nil:
		return json.Marshal(w.ByTicker)
	case w.Positional != nil:
		return json.Marshal(w.Positional)
	}
	return []byte("null"), nil
}

// IsEmpty reports whether no weights were supplied.
func (w WeightInput) IsEmpty() bool {
	return len(w.ByTicker) == 0 && len(w.Positional) == 0
}

// ToMap resolves the input against the request tickers. It returns nil when
// no weights were supplied.
func (w WeightInput) ToMap(tickers []string) (map[string]float64, error) {
	if len(w.ByTicker) > 0 {
		out := make(map[string]float64, len(w.ByTicker))
		for k, v := range w.ByTicker {
			out[strings.ToUpper(strings.TrimSpace(k))] += v
		}
		return out, nil
	}
	if len(w.Positional) == 0 {
		return nil, nil
	}
	if len(w.Positional) != len(tickers) {
		return nil, fmt.Errorf("got %d weights for %d tickers", len(w.Positional), len(tickers))
	}
	out := make(map[string]float64, len(tickers))
	for i, t := range tickers {
		out[t] = w.Positional[i]
	}
	return out, nil
}
