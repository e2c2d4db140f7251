package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/epeers/markowitz/internal/alphavantage"
	"github.com/epeers/markowitz/internal/cache"
	"github.com/epeers/markowitz/internal/database"
	"github.com/epeers/markowitz/internal/ecb"
	"github.com/epeers/markowitz/internal/models"
	"github.com/epeers/markowitz/internal/repository"
	"github.com/epeers/markowitz/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminKey = "admin-key"

type stubPrices struct{}

// GetDailyPrices returns 120 weekday closes ending yesterday. Each symbol
// repeats an up, down, up cycle at its own phase so no two are perfectly
// correlated.
func (stubPrices) GetDailyPrices(_ context.Context, symbol string, _ string) ([]alphavantage.ParsedPriceData, error) {
	params := map[string]struct {
		drift, vol float64
		phase      int
	}{
		"AAA": {1.0004, 0.01, 0},
		"BBB": {1.0008, 0.02, 1},
		"CCC": {1.0002, 0.004, 2},
	}
	p, ok := params[symbol]
	if !ok {
		return nil, alphavantage.ErrUnknownSymbol
	}
	var dates []time.Time
	for d := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -1); len(dates) < 120; d = d.AddDate(0, 0, -1) {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			dates = append(dates, d)
		}
	}
	out := make([]alphavantage.ParsedPriceData, len(dates))
	price := 50.0
	for i := range dates {
		out[i] = alphavantage.ParsedPriceData{Date: dates[len(dates)-1-i], Close: price}
		if (i+p.phase)%3 == 1 {
			price *= p.drift * (1 - p.vol)
		} else {
			price *= p.drift * (1 + p.vol)
		}
	}
	return out, nil
}

func (stubPrices) GetCompanyName(_ context.Context, symbol string) (string, error) {
	return symbol + " Corp", nil
}

type stubTreasury struct{ err error }

func (s stubTreasury) GetTreasuryRate(context.Context, string) ([]alphavantage.ParsedTreasuryRate, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []alphavantage.ParsedTreasuryRate{{Date: time.Now().UTC().AddDate(0, 0, -1), Rate: 4.1}}, nil
}

type stubESTR struct{ err error }

func (s stubESTR) GetESTR(context.Context, int) ([]ecb.Observation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []ecb.Observation{{Date: time.Now().UTC().AddDate(0, 0, -1), Rate: 1.9}}, nil
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store, err := repository.NewSQLiteSecurityStore(db)
	require.NoError(t, err)

	secSvc := services.NewSecurityService(store, stubPrices{})
	rateSvc := services.NewRateService(cache.NewMemoryCache(time.Hour), stubTreasury{}, stubESTR{err: errors.New("ecb down")})
	optSvc := services.NewOptimizationService(secSvc, rateSvc, services.OptimizationConfig{FrontierPoints: 15, SimulationCount: 50})

	r := gin.New()
	RegisterRoutes(r,
		NewSecurityHandler(secSvc),
		NewOptimizationHandler(optSvc, rateSvc),
		NewAdminHandler(secSvc, rateSvc),
		testAdminKey,
	)
	return r
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func addSecurities(t *testing.T, r *gin.Engine, tickers ...string) {
	t.Helper()
	for _, ticker := range tickers {
		w := doJSON(r, http.MethodPost, "/api/securities", gin.H{"ticker": ticker})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	r := setupRouter(t)
	w := doJSON(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAddSecurity(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/api/securities", gin.H{"ticker": "aaa"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "AAA", body["ticker"])
	assert.Equal(t, "AAA Corp", body["long_name"])
	assert.EqualValues(t, 119, body["observations"])

	w = doJSON(r, http.MethodPost, "/api/securities", gin.H{"ticker": "AAA"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodPost, "/api/securities", gin.H{"ticker": "ZZZ"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPost, "/api/securities", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddSecuritiesBulkAndList(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/api/securities/bulk", gin.H{"tickers": []string{"AAA", "BBB", "ZZZ"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	results := decode(t, w)["results"].([]any)
	require.Len(t, results, 3)
	assert.Equal(t, "error", results[2].(map[string]any)["status"])

	w = doJSON(r, http.MethodGet, "/api/securities/all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "success", body["status"])
	assert.Len(t, body["data"], 2)
}

func TestGetSecurityAndLiquidity(t *testing.T) {
	r := setupRouter(t)
	addSecurities(t, r, "AAA")

	w := doJSON(r, http.MethodGet, "/api/securities/AAA", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["daily_returns"], 119)
	assert.Greater(t, body["std_dev"].(float64), 0.0)

	w = doJSON(r, http.MethodGet, "/api/securities/NOPE", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPut, "/api/securities/aaa/liquidity", gin.H{"liquidity_label": "liquid", "proxy_category": "equity"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(r, http.MethodGet, "/api/securities/AAA", nil)
	assert.Equal(t, "liquid", decode(t, w)["liquidity_label"])

	w = doJSON(r, http.MethodPut, "/api/securities/NOPE/liquidity", gin.H{"liquidity_label": "liquid"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCovarianceCorrelation(t *testing.T) {
	r := setupRouter(t)
	addSecurities(t, r, "AAA")

	// BBB is ingested on demand
	w := doJSON(r, http.MethodGet, "/api/securities/covariance-correlation?tickers=AAA,BBB", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Len(t, body["covariance_matrix"], 2)
	assert.Len(t, body["correlation_matrix"], 2)

	w = doJSON(r, http.MethodGet, "/api/securities/covariance-correlation?tickers=AAA", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOptimalPortfolio(t *testing.T) {
	r := setupRouter(t)
	addSecurities(t, r, "AAA", "BBB", "CCC")

	w := doJSON(r, http.MethodPost, "/api/securities/optimal_portfolio", gin.H{
		"tickers":       []string{"AAA", "BBB", "CCC"},
		"weights":       []float64{0.2, 0.3, 0.5},
		"riskFree":      2.5,
		"riskFree_Type": "custom",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.InDelta(t, 0.025, body["riskFree"], 1e-12)
	assert.Len(t, body["optimal_weights"], 3)
	assert.Nil(t, body["liquidity_achieved"])

	frontier := body["efficient_frontier"].([]any)
	require.NotEmpty(t, frontier)
	point := frontier[0].(map[string]any)
	for _, key := range []string{"w_AAA", "w_BBB", "w_CCC", "Return", "Risk"} {
		assert.Contains(t, point, key)
	}
}

func TestOptimalPortfolio_ErrorStatuses(t *testing.T) {
	r := setupRouter(t)
	addSecurities(t, r, "AAA", "BBB")

	cases := []struct {
		name string
		body gin.H
		want int
	}{
		{"single ticker", gin.H{"tickers": []string{"AAA"}}, http.StatusBadRequest},
		{"unknown ticker", gin.H{"tickers": []string{"AAA", "QQQ"}}, http.StatusNotFound},
		{"no liquid assets", gin.H{"tickers": []string{"AAA", "BBB"}, "liquidityFactor": 0.5}, http.StatusUnprocessableEntity},
		{"rate provider down", gin.H{"tickers": []string{"AAA", "BBB"}, "riskFree_Type": "estr"}, http.StatusBadGateway},
		{"bad weights", gin.H{"tickers": []string{"AAA", "BBB"}, "weights": "half"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/securities/optimal_portfolio", tc.body)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestOptimalPortfolioChart(t *testing.T) {
	r := setupRouter(t)
	addSecurities(t, r, "AAA", "BBB")

	w := doJSON(r, http.MethodPost, "/api/securities/optimal_portfolio/chart", gin.H{"tickers": []string{"AAA", "BBB"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
}

func TestWriteError_DegenerateChart(t *testing.T) {
	_, chartErr := services.RenderFrontierChart(&models.OptimizeResponse{})
	require.Error(t, chartErr)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/securities/optimal_portfolio/chart", nil)
	writeError(c, chartErr)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "infeasible", body.Error)
}

func TestEfficientFrontier(t *testing.T) {
	r := setupRouter(t)
	addSecurities(t, r, "AAA", "BBB")

	w := doJSON(r, http.MethodPost, "/api/securities/efficient_frontier", gin.H{"tickers": []string{"AAA", "BBB"}, "num_points": 8})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, decode(t, w)["efficient_frontier"])
}

func TestSimulation(t *testing.T) {
	r := setupRouter(t)
	addSecurities(t, r, "AAA", "BBB")

	w := doJSON(r, http.MethodGet, "/api/securities/simulation?tickers=AAA&tickers=BBB&n_portfolios=25", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.EqualValues(t, 25, body["n_portfolios"])
	assert.Len(t, body["sim_weights"], 25)
	assert.Len(t, body["sharpe_ratios"], 25)

	w = doJSON(r, http.MethodGet, "/api/securities/simulation?tickers=AAA&tickers=BBB&n_portfolios=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRate(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/api/rates/us10y", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.InDelta(t, 0.041, decode(t, w)["rate"], 1e-12)

	w = doJSON(r, http.MethodGet, "/api/rates/flat?value=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 0.05, decode(t, w)["rate"], 1e-12)

	w = doJSON(r, http.MethodGet, "/api/rates/libor", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/rates/estr", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func uploadCSV(t *testing.T, r *gin.Engine, key, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "labels.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/liquidity-labels", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if key != "" {
		req.Header.Set("X-Admin-Key", key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestImportLiquidityLabels(t *testing.T) {
	r := setupRouter(t)
	addSecurities(t, r, "AAA", "BBB")
	csv := "ticker,liquidity_label,proxy_category\nAAA,liquid,equity\nBBB,illiquid,\nQQQ,liquid,\n"

	w := uploadCSV(t, r, "", csv)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = uploadCSV(t, r, testAdminKey, csv)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.EqualValues(t, 2, body["updated"])
	assert.Len(t, body["warnings"], 1)

	w = uploadCSV(t, r, testAdminKey, "ticker,label\nAAA,liquid\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClearRateCache(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/rate-cache?type=us10y", nil)
	req.Header.Set("X-Admin-Key", testAdminKey)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "us10y", decode(t, w)["invalidated"])

	req = httptest.NewRequest(http.MethodDelete, "/api/admin/rate-cache?type=flat", nil)
	req.Header.Set("X-Admin-Key", testAdminKey)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
