package cache

import (
	"testing"
	"time"

	"github.com/epeers/markowitz/internal/models"
)

func TestMemoryCache_TTL(t *testing.T) {
	c := NewMemoryCache(time.Hour)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.SetRate(models.RiskFreeRate{Type: models.RateUS10Y, Rate: 0.042})

	got, ok := c.GetRate(models.RateUS10Y)
	if !ok || got.Rate != 0.042 {
		t.Fatalf("expected fresh rate 0.042, got %v (ok=%v)", got.Rate, ok)
	}

	now = now.Add(2 * time.Hour)
	if _, ok := c.GetRate(models.RateUS10Y); ok {
		t.Error("expected expired rate to miss")
	}

	stale, fetchedAt, ok := c.GetStaleRate(models.RateUS10Y)
	if !ok || stale.Rate != 0.042 {
		t.Fatalf("expected stale rate to be available, got %v (ok=%v)", stale.Rate, ok)
	}
	if !fetchedAt.Equal(now.Add(-2 * time.Hour)) {
		t.Errorf("unexpected fetchedAt %v", fetchedAt)
	}
}

func TestMemoryCache_Invalidate(t *testing.T) {
	c := NewMemoryCache(time.Hour)
	c.SetRate(models.RiskFreeRate{Type: models.RateUS10Y, Rate: 0.04})
	c.SetRate(models.RiskFreeRate{Type: models.RateESTR, Rate: 0.03})

	c.InvalidateRate(models.RateUS10Y)
	if _, _, ok := c.GetStaleRate(models.RateUS10Y); ok {
		t.Error("expected invalidated rate to be gone")
	}
	if _, ok := c.GetRate(models.RateESTR); !ok {
		t.Error("expected other rate to survive invalidation")
	}

	c.Clear()
	if _, _, ok := c.GetStaleRate(models.RateESTR); ok {
		t.Error("expected Clear to remove all rates")
	}
}
