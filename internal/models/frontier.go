package models

import (
	"encoding/json"
	"fmt"
)

// FrontierPoint is one efficient portfolio. It serializes as a flat record with
// a "w_<TICKER>" weight per asset plus annualized "Return" and "Risk".
type FrontierPoint struct {
	Tickers []string
	Weights []float64
	Return  float64
	Risk    float64
}

// MarshalJSON implements the json.Marshaler interface.
func (p FrontierPoint) MarshalJSON() ([]byte, error) {
	if len(p.Tickers) != len(p.Weights) {
		return nil, fmt.Errorf("frontier point has %d weights for %d tickers", len(p.Weights), len(p.Tickers))
	}
	flat := make(map[string]float64, len(p.Tickers)+2)
	for i, t := range p.Tickers {
		flat["w_"+t] = p.Weights[i]
	}
	flat["Return"] = p.Return
	flat["Risk"] = p.Risk
	return json.Marshal(flat)
}
