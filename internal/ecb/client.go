// Package ecb fetches reference interest rates from the European Central Bank
// data portal.
package ecb

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// https://data.ecb.europa.eu/help/api/data
const defaultBaseURL = "https://data-api.ecb.europa.eu/service/data"

// ESTRSeries is the euro short-term rate, volume-weighted trimmed mean, business-daily.
const ESTRSeries = "EST/B.EU000A2X2A25.WT"

// Observation is one dated rate in percent.
type Observation struct {
	Date time.Time
	Rate float64
}

// Client reads series from the ECB data API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client against the public ECB data API
func NewClient() *Client {
	return NewClientWithBaseURL(defaultBaseURL)
}

// NewClientWithBaseURL creates a client with a custom base URL (for testing)
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// GetESTR returns the most recent €STR observations, newest first.
func (c *Client) GetESTR(ctx context.Context, lastN int) ([]Observation, error) {
	return c.GetSeries(ctx, ESTRSeries, lastN)
}

// GetSeries fetches the last lastN observations of a series key such as "EST/B.EU000A2X2A25.WT".
func (c *Client) GetSeries(ctx context.Context, key string, lastN int) ([]Observation, error) {
	if lastN <= 0 {
		lastN = 1
	}
	params := url.Values{}
	params.Set("format", "csvdata")
	params.Set("lastNObservations", strconv.Itoa(lastN))
	reqURL := c.baseURL + "/" + key + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ECB API returned status %d", resp.StatusCode)
	}

	obs, err := parseSeriesCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("series %s: %w", key, err)
	}
	return obs, nil
}

// parseSeriesCSV reads the TIME_PERIOD and OBS_VALUE columns of an SDMX csvdata response.
func parseSeriesCSV(r io.Reader) ([]Observation, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIdx := make(map[string]int)
	for i, col := range header {
		colIdx[strings.ToUpper(strings.TrimSpace(col))] = i
	}
	dateCol, ok := colIdx["TIME_PERIOD"]
	if !ok {
		return nil, fmt.Errorf("missing required column: TIME_PERIOD")
	}
	valueCol, ok := colIdx["OBS_VALUE"]
	if !ok {
		return nil, fmt.Errorf("missing required column: OBS_VALUE")
	}

	var out []Observation
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		if len(record) <= max(dateCol, valueCol) {
			continue
		}
		date, err := time.Parse("2006-01-02", strings.TrimSpace(record[dateCol]))
		if err != nil {
			continue
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(record[valueCol]), 64)
		if err != nil {
			continue
		}
		out = append(out, Observation{Date: date, Rate: rate})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no observations returned")
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}
