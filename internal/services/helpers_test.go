package services

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/epeers/markowitz/internal/alphavantage"
	"github.com/epeers/markowitz/internal/cache"
	"github.com/epeers/markowitz/internal/database"
	"github.com/epeers/markowitz/internal/ecb"
	"github.com/epeers/markowitz/internal/repository"
	"github.com/stretchr/testify/require"
)

// testNow is a Wednesday evening after the close.
var testNow = time.Date(2026, 6, 3, 22, 0, 0, 0, time.UTC)

type fakePrices struct {
	mu     sync.Mutex
	prices map[string][]alphavantage.ParsedPriceData
	names  map[string]string
	err    error
	calls  int
}

func (f *fakePrices) GetDailyPrices(_ context.Context, symbol string, _ string) ([]alphavantage.ParsedPriceData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.prices[symbol]
	if !ok {
		return nil, alphavantage.ErrUnknownSymbol
	}
	return p, nil
}

func (f *fakePrices) GetCompanyName(_ context.Context, symbol string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if name, ok := f.names[symbol]; ok {
		return name, nil
	}
	return "", errors.New("no overview")
}

type fakeTreasury struct {
	rates []alphavantage.ParsedTreasuryRate
	err   error
	calls int
}

func (f *fakeTreasury) GetTreasuryRate(context.Context, string) ([]alphavantage.ParsedTreasuryRate, error) {
	f.calls++
	return f.rates, f.err
}

type fakeESTR struct {
	obs   []ecb.Observation
	err   error
	calls int
}

func (f *fakeESTR) GetESTR(context.Context, int) ([]ecb.Observation, error) {
	f.calls++
	return f.obs, f.err
}

// priceHistory returns n weekday closes ending the day before testNow. Log
// returns come in antithetic pairs around drift, so the sample mean of any
// window is close to drift.
func priceHistory(n int, drift, vol float64, seed uint64) []alphavantage.ParsedPriceData {
	rng := rand.New(rand.NewPCG(seed, seed+7))
	dates := make([]time.Time, 0, n)
	for d := testNow.Truncate(24 * time.Hour).AddDate(0, 0, -1); len(dates) < n; d = d.AddDate(0, 0, -1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		dates = append(dates, d)
	}
	out := make([]alphavantage.ParsedPriceData, n)
	price := 100.0
	z := 0.0
	for i := range n {
		out[i] = alphavantage.ParsedPriceData{Date: dates[n-1-i], Close: price}
		if i%2 == 0 {
			z = rng.NormFloat64()
		} else {
			z = -z
		}
		price *= math.Exp(drift + vol*z)
	}
	return out
}

func newTestStore(t *testing.T) repository.SecurityStore {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store, err := repository.NewSQLiteSecurityStore(db)
	require.NoError(t, err)
	return store
}

type testEnv struct {
	store    repository.SecurityStore
	prices   *fakePrices
	treasury *fakeTreasury
	estr     *fakeESTR
	cache    *cache.MemoryCache
	secSvc   *SecurityService
	rateSvc  *RateService
	optSvc   *OptimizationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store: newTestStore(t),
		prices: &fakePrices{
			prices: map[string][]alphavantage.ParsedPriceData{
				"AAA": priceHistory(300, 0.0004, 0.010, 1),
				"BBB": priceHistory(300, 0.0008, 0.020, 2),
				"CCC": priceHistory(250, 0.0002, 0.005, 3),
			},
			names: map[string]string{"AAA": "Alpha Corp", "BBB": "Beta Inc"},
		},
		treasury: &fakeTreasury{rates: []alphavantage.ParsedTreasuryRate{
			{Date: time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC), Rate: 4.25},
			{Date: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), Rate: 4.20},
		}},
		estr: &fakeESTR{obs: []ecb.Observation{
			{Date: time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC), Rate: 1.92},
		}},
		cache: cache.NewMemoryCache(time.Hour),
	}
	env.secSvc = NewSecurityService(env.store, env.prices)
	env.secSvc.now = func() time.Time { return testNow }
	env.rateSvc = NewRateService(env.cache, env.treasury, env.estr)
	env.rateSvc.now = func() time.Time { return testNow }
	env.optSvc = NewOptimizationService(env.secSvc, env.rateSvc, OptimizationConfig{
		FrontierPoints:  20,
		SimulationCount: 100,
	})
	env.optSvc.newRand = func() *rand.Rand { return rand.New(rand.NewPCG(42, 43)) }
	return env
}

func (env *testEnv) ingest(t *testing.T, tickers ...string) {
	t.Helper()
	for _, ticker := range tickers {
		_, err := env.secSvc.AddSecurity(context.Background(), ticker)
		require.NoError(t, err)
	}
}
