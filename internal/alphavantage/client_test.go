package alphavantage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(srv.Close)
	return NewClientWithBaseURL("test-key", srv.URL)
}

func TestGetDailyPrices_SortedOldestFirst(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("function") != "TIME_SERIES_DAILY" {
			t.Errorf("unexpected function %q", r.URL.Query().Get("function"))
		}
		if r.URL.Query().Get("apikey") != "test-key" {
			t.Errorf("api key not forwarded")
		}
		w.Write([]byte(`{
			"Meta Data": {"2. Symbol": "SPY"},
			"Time Series (Daily)": {
				"2024-01-03": {"1. open": "1", "2. high": "1", "3. low": "1", "4. close": "101.5", "5. volume": "10"},
				"2024-01-02": {"1. open": "1", "2. high": "1", "3. low": "1", "4. close": "100.0", "5. volume": "10"},
				"2024-01-04": {"1. open": "1", "2. high": "1", "3. low": "1", "4. close": "99.0", "5. volume": "10"}
			}
		}`))
	})

	prices, err := client.GetDailyPrices(context.Background(), "SPY", "full")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prices) != 3 {
		t.Fatalf("expected 3 prices, got %d", len(prices))
	}
	if prices[0].Close != 100.0 || prices[2].Close != 99.0 {
		t.Errorf("prices not in date order: %+v", prices)
	}
}

func TestGetDailyPrices_RateLimited(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`))
	})

	_, err := client.GetDailyPrices(context.Background(), "SPY", "full")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestGetDailyPrices_UnknownSymbol(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Error Message": "Invalid API call."}`))
	})

	_, err := client.GetDailyPrices(context.Background(), "NOPE", "full")
	if !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("expected ErrUnknownSymbol, got %v", err)
	}
}

func TestGetCompanyName(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Symbol": "IBM", "Name": "International Business Machines", "AssetType": "Common Stock"}`))
	})

	name, err := client.GetCompanyName(context.Background(), "IBM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "International Business Machines" {
		t.Errorf("expected company name, got %q", name)
	}
}

func TestGetCompanyName_EmptyForFunds(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	name, err := client.GetCompanyName(context.Background(), "SPY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "" {
		t.Errorf("expected empty name, got %q", name)
	}
}

func TestGetTreasuryRate(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("maturity") != "10year" {
			t.Errorf("expected 10year maturity, got %q", r.URL.Query().Get("maturity"))
		}
		w.Write([]byte("timestamp,value\n2024-01-02,3.95\n2024-01-03,4.01\n2024-01-01,.\n"))
	})

	rates, err := client.GetTreasuryRate(context.Background(), "compact")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rates) != 2 {
		t.Fatalf("expected holiday row to be skipped, got %d rates", len(rates))
	}
	if rates[0].Rate != 4.01 {
		t.Errorf("expected newest rate first, got %+v", rates[0])
	}
}

func TestGetTreasuryRate_ServerError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if _, err := client.GetTreasuryRate(context.Background(), "compact"); err == nil {
		t.Fatal("expected error for 503 response")
	}
}
