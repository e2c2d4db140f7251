package alphavantage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Alphavantage is a Stock and ETF API that fetches data including pricing data
// It is a subscription service, but provides free API access
// https://www.alphavantage.co/documentation/
const defaultBaseURL = "https://www.alphavantage.co/query"

// ErrRateLimited is returned when AlphaVantage answers with a throttling note
// instead of data.
var ErrRateLimited = errors.New("alphavantage rate limit reached")

// ErrUnknownSymbol is returned when AlphaVantage has no data for a symbol.
var ErrUnknownSymbol = errors.New("alphavantage has no data for symbol")

// Client is an HTTP client for the AlphaVantage API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new AlphaVantage client
func NewClient(apiKey string) *Client {
	return NewClientWithBaseURL(apiKey, defaultBaseURL)
}

// NewClientWithBaseURL creates a new AlphaVantage client with a custom base URL (for testing)
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetDailyPrices fetches daily closes for a symbol, oldest first.
// outputSize is "compact" (100 points) or "full" (20+ years).
func (c *Client) GetDailyPrices(ctx context.Context, symbol string, outputSize string) ([]ParsedPriceData, error) {
	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY")
	params.Set("symbol", symbol)
	params.Set("outputsize", outputSize)
	params.Set("apikey", c.apiKey)

	body, err := c.getBody(ctx, params)
	if err != nil {
		return nil, err
	}

	var tsResp TimeSeriesDailyResponse
	if err := json.Unmarshal(body, &tsResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if err := tsResp.apiError(); err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}
	if len(tsResp.TimeSeries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}

	prices := make([]ParsedPriceData, 0, len(tsResp.TimeSeries))
	for dateStr, ohlcv := range tsResp.TimeSeries {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}
		closePrice, err := strconv.ParseFloat(ohlcv.Close, 64)
		if err != nil {
			continue
		}

		open, _ := strconv.ParseFloat(ohlcv.Open, 64)
		high, _ := strconv.ParseFloat(ohlcv.High, 64)
		low, _ := strconv.ParseFloat(ohlcv.Low, 64)
		volume, _ := strconv.ParseInt(ohlcv.Volume, 10, 64)

		prices = append(prices, ParsedPriceData{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}

	sort.Slice(prices, func(i, j int) bool { return prices[i].Date.Before(prices[j].Date) })
	return prices, nil
}

// GetCompanyName fetches the long name for a symbol from the OVERVIEW endpoint.
// ETFs and funds have no overview, in which case an empty name and no error is returned.
func (c *Client) GetCompanyName(ctx context.Context, symbol string) (string, error) {
	params := url.Values{}
	params.Set("function", "OVERVIEW")
	params.Set("symbol", symbol)
	params.Set("apikey", c.apiKey)

	body, err := c.getBody(ctx, params)
	if err != nil {
		return "", err
	}

	var overview OverviewResponse
	if err := json.Unmarshal(body, &overview); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if err := overview.apiError(); err != nil {
		return "", err
	}
	return strings.TrimSpace(overview.Name), nil
}

// GetTreasuryRate fetches daily US 10-year treasury yields in percent, newest first.
func (c *Client) GetTreasuryRate(ctx context.Context, outputSize string) ([]ParsedTreasuryRate, error) {
	params := url.Values{}
	params.Set("function", "TREASURY_YIELD")
	params.Set("interval", "daily")
	params.Set("maturity", "10year")
	params.Set("datatype", "csv")
	params.Set("outputsize", outputSize) // "compact" or "full"
	params.Set("apikey", c.apiKey)

	resp, err := c.doRequest(ctx, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV response: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("no treasury rate data returned")
	}

	var rates []ParsedTreasuryRate
	// Skip header row (timestamp,value)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}

		date, err := time.Parse("2006-01-02", record[0])
		if err != nil {
			continue
		}

		// Holidays are reported as "."
		rate, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}

		rates = append(rates, ParsedTreasuryRate{Date: date, Rate: rate})
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("no parseable treasury rate rows returned")
	}

	sort.Slice(rates, func(i, j int) bool { return rates[i].Date.After(rates[j].Date) })
	return rates, nil
}

func (c *Client) getBody(ctx context.Context, params url.Values) ([]byte, error) {
	resp, err := c.doRequest(ctx, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

func (c *Client) doRequest(ctx context.Context, params url.Values) (*http.Response, error) {
	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	return resp, nil
}
