package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/epeers/markowitz/internal/alphavantage"
	"github.com/epeers/markowitz/internal/markowitz"
	"github.com/epeers/markowitz/internal/models"
	"github.com/epeers/markowitz/internal/repository"
	"github.com/epeers/markowitz/internal/util"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

const (
	// LookbackYears is how much price history an ingest keeps.
	LookbackYears = 5
	// UnknownLongName is stored when the provider has no company name.
	UnknownLongName = "N/A"

	// InfoDaysPerYear annualizes the per-security statistics. The optimizer
	// uses markowitz.TradingDaysPerYear instead.
	InfoDaysPerYear = 250

	bulkIngestLimit = 4
)

var (
	// ErrSecurityExists is returned when ingesting a ticker whose data is still current.
	ErrSecurityExists = errors.New("security already exists")
	// ErrMarketData wraps market data provider failures.
	ErrMarketData = errors.New("market data unavailable")
)

// PriceSource provides daily closes and company names.
type PriceSource interface {
	GetDailyPrices(ctx context.Context, symbol string, outputSize string) ([]alphavantage.ParsedPriceData, error)
	GetCompanyName(ctx context.Context, symbol string) (string, error)
}

// SecurityService ingests securities from the price source into the store and
// serves them back as return series.
type SecurityService struct {
	store  repository.SecurityStore
	prices PriceSource
	now    func() time.Time
}

// NewSecurityService creates a new SecurityService
func NewSecurityService(store repository.SecurityStore, prices PriceSource) *SecurityService {
	return &SecurityService{
		store:  store,
		prices: prices,
		now:    time.Now,
	}
}

// NormalizeTicker upper-cases and trims a ticker.
func NormalizeTicker(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}

// NormalizeTickers normalizes a ticker list, dropping blanks and duplicates
// while keeping first-seen order.
func NormalizeTickers(tickers []string) []string {
	out := make([]string, 0, len(tickers))
	seen := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		t = NormalizeTicker(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// AddSecurity fetches price history for ticker and stores its daily log
// returns. A ticker already in the store is only refreshed once a newer daily
// close is available; before that ErrSecurityExists is returned.
func (s *SecurityService) AddSecurity(ctx context.Context, ticker string) (*models.AddSecurityResponse, error) {
	defer TrackTime("SecurityService.AddSecurity", time.Now())

	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("%w: ticker is required", markowitz.ErrInvalidInput)
	}
	now := s.now().UTC()

	existing, err := s.store.Get(ctx, ticker)
	switch {
	case err == nil:
		if !util.IsStale(existing.FetchedOn, now) {
			return nil, fmt.Errorf("%w: %s was fetched on %s and is current",
				ErrSecurityExists, ticker, existing.FetchedOn.Format(time.RFC3339))
		}
		log.Infof("refreshing stale security %s (fetched %s)", ticker, existing.FetchedOn.Format(time.RFC3339))
	case errors.Is(err, repository.ErrSecurityNotFound):
		existing = nil
	default:
		return nil, fmt.Errorf("failed to look up %s: %w", ticker, err)
	}

	prices, err := s.prices.GetDailyPrices(ctx, ticker, "full")
	if err != nil {
		if errors.Is(err, alphavantage.ErrUnknownSymbol) {
			return nil, fmt.Errorf("%w: %s is not known to the market data provider", repository.ErrSecurityNotFound, ticker)
		}
		return nil, fmt.Errorf("%w: %v", ErrMarketData, err)
	}

	dates, returns, err := logReturns(prices, util.LookbackStart(now, LookbackYears))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ticker, err)
	}

	longName, err := s.prices.GetCompanyName(ctx, ticker)
	if err != nil {
		log.Warnf("company name lookup for %s failed: %v", ticker, err)
	}
	if longName == "" {
		longName = UnknownLongName
	}

	sec := &models.Security{
		Ticker:       ticker,
		LongName:     longName,
		CloseDates:   dates,
		DailyReturns: returns,
		FetchedOn:    now,
	}
	if err := s.store.Upsert(ctx, sec); err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", ticker, err)
	}
	log.Infof("stored %s (%s): %d daily returns", ticker, longName, len(returns))

	verb := "added"
	if existing != nil {
		verb = "refreshed"
	}
	return &models.AddSecurityResponse{
		Message:      fmt.Sprintf("%s %s", ticker, verb),
		Ticker:       ticker,
		LongName:     longName,
		Observations: len(returns),
		FirstDate:    dates[0].Format("2006-01-02"),
		LastDate:     dates[len(dates)-1].Format("2006-01-02"),
		FetchedOn:    now,
		Refreshed:    existing != nil,
	}, nil
}

// AddSecurities ingests several tickers concurrently. Per-ticker failures are
// reported in the result rather than failing the batch.
func (s *SecurityService) AddSecurities(ctx context.Context, tickers []string) (*models.BulkAddResponse, error) {
	defer TrackTime("SecurityService.AddSecurities", time.Now())

	tickers = NormalizeTickers(tickers)
	if len(tickers) == 0 {
		return nil, fmt.Errorf("%w: at least one ticker is required", markowitz.ErrInvalidInput)
	}

	results := make([]models.BulkAddResult, len(tickers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkIngestLimit)
	for i, ticker := range tickers {
		g.Go(func() error {
			res, err := s.AddSecurity(gctx, ticker)
			results[i] = bulkResult(ticker, res, err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &models.BulkAddResponse{Results: results}, nil
}

func bulkResult(ticker string, res *models.AddSecurityResponse, err error) models.BulkAddResult {
	switch {
	case err == nil && res.Refreshed:
		return models.BulkAddResult{Ticker: ticker, Status: "refreshed", Result: res}
	case err == nil:
		return models.BulkAddResult{Ticker: ticker, Status: "created", Result: res}
	case errors.Is(err, ErrSecurityExists):
		return models.BulkAddResult{Ticker: ticker, Status: "exists", Error: err.Error()}
	}
	return models.BulkAddResult{Ticker: ticker, Status: "error", Error: err.Error()}
}

// logReturns computes ln(p_t/p_{t-1}) over prices dated on or after since.
// The first retained date has no return and is dropped.
func logReturns(prices []alphavantage.ParsedPriceData, since time.Time) ([]time.Time, []float64, error) {
	kept := make([]alphavantage.ParsedPriceData, 0, len(prices))
	for _, p := range prices {
		if p.Date.Before(since) || p.Close <= 0 || math.IsNaN(p.Close) {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) < 2 {
		return nil, nil, fmt.Errorf("%w: need at least 2 prices since %s, got %d",
			ErrMarketData, since.Format("2006-01-02"), len(kept))
	}

	dates := make([]time.Time, 0, len(kept)-1)
	returns := make([]float64, 0, len(kept)-1)
	for i := 1; i < len(kept); i++ {
		dates = append(dates, kept[i].Date)
		returns = append(returns, math.Log(kept[i].Close/kept[i-1].Close))
	}
	return dates, returns, nil
}

// GetSecurityInfo returns a stored security with annualized statistics in percent.
func (s *SecurityService) GetSecurityInfo(ctx context.Context, ticker string) (*models.SecurityInfoResponse, error) {
	ticker = NormalizeTicker(ticker)
	sec, err := s.store.Get(ctx, ticker)
	if err != nil {
		return nil, err
	}

	info := &models.SecurityInfoResponse{
		Ticker:         sec.Ticker,
		LongName:       sec.LongName,
		DailyReturns:   sec.DailyReturns,
		FetchedOn:      sec.FetchedOn,
		LiquidityLabel: sec.LiquidityLabel,
		ProxyCategory:  sec.ProxyCategory,
	}
	if len(sec.DailyReturns) > 0 {
		mean, variance := stat.PopMeanVariance(sec.DailyReturns, nil)
		info.ExpectedReturn = mean * InfoDaysPerYear * 100
		info.VariancePct = variance * InfoDaysPerYear * 100
		info.StdDev = math.Sqrt(variance*InfoDaysPerYear) * 100
	}
	return info, nil
}

// ListSecurities returns every stored ticker with its long name.
func (s *SecurityService) ListSecurities(ctx context.Context) ([]models.SecuritySummary, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list securities: %w", err)
	}
	if list == nil {
		list = []models.SecuritySummary{}
	}
	return list, nil
}

// SetLiquidity labels one security.
func (s *SecurityService) SetLiquidity(ctx context.Context, ticker, label, proxyCategory string) error {
	ticker = NormalizeTicker(ticker)
	label = strings.TrimSpace(label)
	if ticker == "" || label == "" {
		return fmt.Errorf("%w: ticker and liquidity label are required", markowitz.ErrInvalidInput)
	}
	return s.store.SetLiquidity(ctx, ticker, label, strings.TrimSpace(proxyCategory))
}

// ImportLiquidityLabels applies a batch of labels. Unknown tickers are skipped
// with a warning; any other store error aborts the import.
func (s *SecurityService) ImportLiquidityLabels(ctx context.Context, updates []models.LiquidityUpdate) (int, error) {
	defer TrackTime("SecurityService.ImportLiquidityLabels", time.Now())

	updated := 0
	for _, u := range updates {
		err := s.SetLiquidity(ctx, u.Ticker, u.LiquidityLabel, u.ProxyCategory)
		switch {
		case err == nil:
			updated++
		case errors.Is(err, repository.ErrSecurityNotFound):
			AddWarning(ctx, models.WarnUnknownTicker, "liquidity label for %s skipped: security not found", NormalizeTicker(u.Ticker))
		default:
			return updated, err
		}
	}
	return updated, nil
}

// LoadReturnSeries reads the stored return series for tickers, in ticker
// order, plus their liquidity labels. Every ticker must be stored.
func (s *SecurityService) LoadReturnSeries(ctx context.Context, tickers []string) ([]markowitz.ReturnSeries, map[string]string, error) {
	stored, err := s.store.GetMany(ctx, tickers)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load securities: %w", err)
	}

	var missing []string
	series := make([]markowitz.ReturnSeries, 0, len(tickers))
	labels := make(map[string]string, len(tickers))
	for _, t := range tickers {
		sec, ok := stored[t]
		if !ok {
			missing = append(missing, t)
			continue
		}
		series = append(series, markowitz.ReturnSeries{
			Ticker:  t,
			Dates:   sec.CloseDates,
			Returns: sec.DailyReturns,
		})
		if sec.LiquidityLabel != "" {
			labels[t] = sec.LiquidityLabel
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %s", repository.ErrSecurityNotFound, strings.Join(missing, ", "))
	}
	return series, labels, nil
}
