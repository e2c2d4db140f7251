package models

import (
	"time"
)

// Security is one stored asset: its daily log-return history and liquidity metadata.
// CloseDates[i] is the date of DailyReturns[i]; the first price date has no return.
type Security struct {
	Ticker         string      `json:"ticker"`
	LongName       string      `json:"long_name"`
	CloseDates     []time.Time `json:"close_date"`
	DailyReturns   []float64   `json:"daily_return"`
	FetchedOn      time.Time   `json:"fetched_on"`
	LiquidityLabel string      `json:"liquidity_label,omitempty"`
	ProxyCategory  string      `json:"proxy_category,omitempty"`
}

// SecuritySummary is the list view of a Security.
type SecuritySummary struct {
	Ticker   string `json:"ticker"`
	LongName string `json:"long_name"`
}

// LiquidityUpdate sets the liquidity metadata of one ticker.
type LiquidityUpdate struct {
	Ticker         string `json:"ticker"`
	LiquidityLabel string `json:"liquidity_label"`
	ProxyCategory  string `json:"proxy_category"`
}

// RateType identifies where the risk-free rate comes from.
type RateType string

const (
	RateFlat  RateType = "flat"  // caller-supplied percentage
	RateUS10Y RateType = "us10y" // US 10-year treasury yield
	RateESTR  RateType = "estr"  // euro short-term rate
)

// RiskFreeRate is a resolved annual rate as a decimal (0.03 for 3%).
type RiskFreeRate struct {
	Type      RateType  `json:"type"`
	Rate      float64   `json:"rate"`
	AsOf      time.Time `json:"as_of"`
	FromCache bool      `json:"from_cache"`
}
