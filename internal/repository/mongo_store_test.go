package repository

import (
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func decodeSecurityDocument(t *testing.T, doc bson.D) securityDocument {
	t.Helper()
	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out securityDocument
	if err := bson.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}

// storedDocument flattens an upsert into the document it leaves behind on insert.
func storedDocument(ticker string, update bson.D) bson.D {
	doc := bson.D{{Key: "ticker", Value: ticker}}
	for _, op := range update {
		doc = append(doc, op.Value.(bson.D)...)
	}
	return doc
}

func TestMongoDocument_StringFetchedOnWithoutLabels(t *testing.T) {
	doc := decodeSecurityDocument(t, bson.D{
		{Key: "ticker", Value: "AAPL"},
		{Key: "long_name", Value: "Apple Inc"},
		{Key: "close_date", Value: bson.A{"2024-01-02", "2024-01-03"}},
		{Key: "daily_return", Value: bson.A{0.012, -0.004}},
		{Key: "fetched_on", Value: "2024-01-03 18:22:10"},
	})

	sec, err := doc.toModel()
	if err != nil {
		t.Fatalf("toModel: %v", err)
	}
	want := time.Date(2024, 1, 3, 18, 22, 10, 0, time.UTC)
	if !sec.FetchedOn.Equal(want) {
		t.Errorf("FetchedOn = %v, want %v", sec.FetchedOn, want)
	}
	if len(sec.CloseDates) != 2 || !sec.CloseDates[1].Equal(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("CloseDates = %v", sec.CloseDates)
	}
	if len(sec.DailyReturns) != 2 || sec.DailyReturns[0] != 0.012 {
		t.Errorf("DailyReturns = %v", sec.DailyReturns)
	}
	if sec.LiquidityLabel != "" || sec.ProxyCategory != "" {
		t.Errorf("expected unlabelled security, got %q/%q", sec.LiquidityLabel, sec.ProxyCategory)
	}
}

func TestMongoDocument_RoundTripFromUpsert(t *testing.T) {
	in := testSecurity("SPY")
	in.LiquidityLabel = "liquid"
	in.ProxyCategory = "equity"

	doc := decodeSecurityDocument(t, storedDocument(in.Ticker, upsertUpdate(in)))
	got, err := doc.toModel()
	if err != nil {
		t.Fatalf("toModel: %v", err)
	}

	if got.Ticker != "SPY" || got.LongName != in.LongName {
		t.Errorf("got %s/%s", got.Ticker, got.LongName)
	}
	if !got.FetchedOn.Equal(in.FetchedOn) {
		t.Errorf("FetchedOn = %v, want %v", got.FetchedOn, in.FetchedOn)
	}
	if len(got.CloseDates) != len(in.CloseDates) {
		t.Fatalf("got %d dates, want %d", len(got.CloseDates), len(in.CloseDates))
	}
	for i := range in.CloseDates {
		if !got.CloseDates[i].Equal(in.CloseDates[i]) || got.DailyReturns[i] != in.DailyReturns[i] {
			t.Errorf("row %d: got %v %v", i, got.CloseDates[i], got.DailyReturns[i])
		}
	}
	if got.LiquidityLabel != "liquid" || got.ProxyCategory != "equity" {
		t.Errorf("labels = %q/%q", got.LiquidityLabel, got.ProxyCategory)
	}
}

func TestMongoUpsert_LabelsOnlyOnInsert(t *testing.T) {
	update := upsertUpdate(testSecurity("SPY"))
	if len(update) != 2 || update[0].Key != "$set" || update[1].Key != "$setOnInsert" {
		t.Fatalf("unexpected update shape: %v", update)
	}
	for _, e := range update[0].Value.(bson.D) {
		if e.Key == "liquidity_label" || e.Key == "proxy_category" {
			t.Errorf("$set must not overwrite %s on refresh", e.Key)
		}
	}
}

func TestMongoDocument_InvalidCloseDate(t *testing.T) {
	doc := decodeSecurityDocument(t, bson.D{
		{Key: "ticker", Value: "BAD"},
		{Key: "close_date", Value: bson.A{"2024-01-02", "01/03/2024"}},
		{Key: "daily_return", Value: bson.A{0.01, 0.02}},
		{Key: "fetched_on", Value: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)},
	})

	_, err := doc.toModel()
	if err == nil || !strings.Contains(err.Error(), "01/03/2024") {
		t.Errorf("expected invalid close_date error, got %v", err)
	}
}

func TestMongoDocument_InvalidFetchedOn(t *testing.T) {
	raw, err := bson.Marshal(bson.D{
		{Key: "ticker", Value: "BAD"},
		{Key: "fetched_on", Value: "yesterday"},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc securityDocument
	if err := bson.Unmarshal(raw, &doc); err == nil {
		t.Error("expected error for unparseable fetched_on")
	}
}
