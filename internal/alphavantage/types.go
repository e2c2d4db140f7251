package alphavantage

import (
	"fmt"
	"time"
)

// apiMessages are the fields AlphaVantage uses to report errors and throttling
// in an otherwise 200 OK response.
type apiMessages struct {
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
}

func (m apiMessages) apiError() error {
	switch {
	case m.ErrorMessage != "":
		return fmt.Errorf("%w: %s", ErrUnknownSymbol, m.ErrorMessage)
	case m.Note != "":
		return fmt.Errorf("%w: %s", ErrRateLimited, m.Note)
	case m.Information != "":
		return fmt.Errorf("%w: %s", ErrRateLimited, m.Information)
	}
	return nil
}

// TimeSeriesDailyResponse represents the AlphaVantage TIME_SERIES_DAILY response
type TimeSeriesDailyResponse struct {
	apiMessages
	MetaData   map[string]string `json:"Meta Data"`
	TimeSeries map[string]OHLCV  `json:"Time Series (Daily)"`
}

// OHLCV is one day of the daily series. AlphaVantage sends numbers as strings.
type OHLCV struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// OverviewResponse represents the fields of the OVERVIEW response we use
type OverviewResponse struct {
	apiMessages
	Symbol    string `json:"Symbol"`
	Name      string `json:"Name"`
	AssetType string `json:"AssetType"`
}

// ParsedPriceData represents parsed price data ready for use
type ParsedPriceData struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// ParsedTreasuryRate is one daily treasury yield observation in percent.
type ParsedTreasuryRate struct {
	Date time.Time
	Rate float64
}
