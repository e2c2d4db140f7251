package services

import (
	"context"
	"sync"
	"testing"

	"github.com/epeers/markowitz/internal/models"
)

func TestWarningCollector_BasicUsage(t *testing.T) {
	ctx, wc := NewWarningContext(context.Background())

	AddWarning(ctx, models.WarnSeriesTruncated, "cut to %d observations", 250)
	AddWarning(ctx, models.WarnStaleRate, "stale rate")

	warnings := wc.GetWarnings()
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(warnings))
	}
	if warnings[0].Code != models.WarnSeriesTruncated || warnings[0].Message != "cut to 250 observations" {
		t.Errorf("unexpected first warning: %+v", warnings[0])
	}
	if warnings[1].Code != models.WarnStaleRate {
		t.Errorf("expected code %s, got %s", models.WarnStaleRate, warnings[1].Code)
	}
}

func TestWarningCollector_NoCollectorNoPanic(t *testing.T) {
	AddWarning(context.Background(), models.WarnZeroVariance, "dropped")
}

func TestWarningCollector_EmptyByDefault(t *testing.T) {
	_, wc := NewWarningContext(context.Background())
	if n := len(wc.GetWarnings()); n != 0 {
		t.Errorf("expected 0 warnings, got %d", n)
	}
}

func TestWarningCollector_ConcurrentSafe(t *testing.T) {
	ctx, wc := NewWarningContext(context.Background())

	var wg sync.WaitGroup
	n := 100
	wg.Add(n)
	for range n {
		go func() {
			defer wg.Done()
			AddWarning(ctx, models.WarnUnknownTicker, "concurrent warning")
		}()
	}
	wg.Wait()

	if got := len(wc.GetWarnings()); got != n {
		t.Errorf("expected %d warnings, got %d", n, got)
	}
}

func TestWarningCollector_GetWarningsReturnsCopy(t *testing.T) {
	ctx, wc := NewWarningContext(context.Background())
	AddWarning(ctx, models.WarnStaleRate, "one")

	got := wc.GetWarnings()
	got[0].Message = "changed"

	if wc.GetWarnings()[0].Message != "one" {
		t.Error("collector state was modified through the returned slice")
	}
}
