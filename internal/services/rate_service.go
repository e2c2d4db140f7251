package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/epeers/markowitz/internal/alphavantage"
	"github.com/epeers/markowitz/internal/cache"
	"github.com/epeers/markowitz/internal/ecb"
	"github.com/epeers/markowitz/internal/markowitz"
	"github.com/epeers/markowitz/internal/models"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultFlatRatePercent is used when a flat rate is requested without a value.
const DefaultFlatRatePercent = 3.0

// ErrRateUnavailable is returned when a reference rate cannot be fetched and
// nothing is cached for it.
var ErrRateUnavailable = errors.New("risk-free rate unavailable")

// TreasurySource provides US treasury yields in percent, newest first.
type TreasurySource interface {
	GetTreasuryRate(ctx context.Context, outputSize string) ([]alphavantage.ParsedTreasuryRate, error)
}

// ESTRSource provides €STR fixings in percent, newest first.
type ESTRSource interface {
	GetESTR(ctx context.Context, lastN int) ([]ecb.Observation, error)
}

// RateService resolves a risk-free rate choice to an annual decimal. Market
// rates are cached; when a provider fails the last cached value is served
// with a warning.
type RateService struct {
	cache    *cache.MemoryCache
	treasury TreasurySource
	estr     ESTRSource
	now      func() time.Time
}

// NewRateService creates a new RateService
func NewRateService(c *cache.MemoryCache, treasury TreasurySource, estr ESTRSource) *RateService {
	return &RateService{
		cache:    c,
		treasury: treasury,
		estr:     estr,
		now:      time.Now,
	}
}

// ParseRateType maps a request value to a RateType. The labels used by the
// web frontend are accepted as aliases. Empty means flat.
func ParseRateType(s string) (models.RateType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "flat", "custom":
		return models.RateFlat, nil
	case "us10y", "t-bill", "treasury":
		return models.RateUS10Y, nil
	case "estr", "€str", "europe's risk-free":
		return models.RateESTR, nil
	}
	return "", fmt.Errorf("%w: unknown risk-free rate type %q", markowitz.ErrInvalidInput, s)
}

// Resolve returns the annual risk-free rate for rateType. flatPercent is only
// read for flat rates and is a percentage (3 means 3%); nil uses the default.
func (s *RateService) Resolve(ctx context.Context, rateType models.RateType, flatPercent *float64) (models.RiskFreeRate, error) {
	defer TrackTime("RateService.Resolve", time.Now())

	if rateType == models.RateFlat {
		pct := DefaultFlatRatePercent
		if flatPercent != nil {
			pct = *flatPercent
		}
		if pct < -100 || pct > 100 {
			return models.RiskFreeRate{}, fmt.Errorf("%w: risk-free rate %.4g%% is out of range", markowitz.ErrInvalidInput, pct)
		}
		return models.RiskFreeRate{Type: models.RateFlat, Rate: pct / 100, AsOf: s.now().UTC()}, nil
	}

	if rate, ok := s.cache.GetRate(rateType); ok {
		rate.FromCache = true
		return rate, nil
	}

	rate, err := s.fetch(ctx, rateType)
	if err == nil {
		s.cache.SetRate(rate)
		return rate, nil
	}

	if stale, fetchedAt, ok := s.cache.GetStaleRate(rateType); ok {
		AddWarning(ctx, models.WarnStaleRate, "%s provider failed (%v); using rate cached at %s",
			rateType, err, fetchedAt.Format(time.RFC3339))
		stale.FromCache = true
		return stale, nil
	}
	return models.RiskFreeRate{}, fmt.Errorf("%w: %s: %v", ErrRateUnavailable, rateType, err)
}

func (s *RateService) fetch(ctx context.Context, rateType models.RateType) (models.RiskFreeRate, error) {
	switch rateType {
	case models.RateUS10Y:
		if s.treasury == nil {
			return models.RiskFreeRate{}, fmt.Errorf("no treasury source configured")
		}
		rates, err := s.treasury.GetTreasuryRate(ctx, "compact")
		if err != nil {
			return models.RiskFreeRate{}, fmt.Errorf("failed to fetch treasury yield: %w", err)
		}
		if len(rates) == 0 {
			return models.RiskFreeRate{}, fmt.Errorf("treasury source returned no observations")
		}
		return models.RiskFreeRate{Type: rateType, Rate: rates[0].Rate / 100, AsOf: rates[0].Date}, nil

	case models.RateESTR:
		if s.estr == nil {
			return models.RiskFreeRate{}, fmt.Errorf("no €STR source configured")
		}
		obs, err := s.estr.GetESTR(ctx, 1)
		if err != nil {
			return models.RiskFreeRate{}, fmt.Errorf("failed to fetch €STR: %w", err)
		}
		if len(obs) == 0 {
			return models.RiskFreeRate{}, fmt.Errorf("€STR source returned no observations")
		}
		return models.RiskFreeRate{Type: rateType, Rate: obs[0].Rate / 100, AsOf: obs[0].Date}, nil
	}
	return models.RiskFreeRate{}, fmt.Errorf("rate type %q has no provider", rateType)
}

// Prefetch warms the cache for every market rate concurrently. A failed fetch
// does not stop the others; the first failure is returned.
func (s *RateService) Prefetch(ctx context.Context) error {
	defer TrackTime("RateService.Prefetch", time.Now())

	var g errgroup.Group
	for _, rt := range []models.RateType{models.RateUS10Y, models.RateESTR} {
		g.Go(func() error {
			rate, err := s.fetch(ctx, rt)
			if err != nil {
				return fmt.Errorf("prefetch of %s rate failed: %w", rt, err)
			}
			s.cache.SetRate(rate)
			log.Infof("prefetched %s rate %.4f (as of %s)", rt, rate.Rate, rate.AsOf.Format("2006-01-02"))
			return nil
		})
	}
	return g.Wait()
}

// Invalidate drops one cached rate, or all of them when rateType is empty.
func (s *RateService) Invalidate(rateType models.RateType) {
	if rateType == "" {
		s.cache.Clear()
		log.Info("rate cache cleared")
		return
	}
	s.cache.InvalidateRate(rateType)
	log.Infof("rate cache entry %s invalidated", rateType)
}
