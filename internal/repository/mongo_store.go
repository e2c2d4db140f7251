package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/epeers/markowitz/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	securitiesCollection = "securities"
	mongoDateLayout      = "2006-01-02"
	mongoTimestampLayout = "2006-01-02 15:04:05"
)

// fetchedOn decodes fetched_on written either as a BSON datetime or as a
// "2006-01-02 15:04:05" string in UTC. Null decodes to the zero time.
type fetchedOn time.Time

func (f *fetchedOn) UnmarshalBSONValue(typ byte, data []byte) error {
	rv := bson.RawValue{Type: bson.Type(typ), Value: data}
	switch rv.Type {
	case bson.TypeDateTime:
		*f = fetchedOn(rv.Time().UTC())
	case bson.TypeString:
		raw := rv.StringValue()
		t, err := time.ParseInLocation(mongoTimestampLayout, raw, time.UTC)
		if err != nil {
			if t, err = time.Parse(time.RFC3339, raw); err != nil {
				return fmt.Errorf("invalid fetched_on %q: %w", raw, err)
			}
		}
		*f = fetchedOn(t.UTC())
	case bson.TypeNull, bson.TypeUndefined:
		*f = fetchedOn(time.Time{})
	default:
		return fmt.Errorf("fetched_on has unsupported BSON type %s", rv.Type)
	}
	return nil
}

// securityDocument is the stored shape. Dates are kept as YYYY-MM-DD strings.
// Labels are absent on documents that were never labelled.
type securityDocument struct {
	Ticker         string    `bson:"ticker"`
	LongName       string    `bson:"long_name"`
	CloseDate      []string  `bson:"close_date"`
	DailyReturn    []float64 `bson:"daily_return"`
	FetchedOn      fetchedOn `bson:"fetched_on"`
	LiquidityLabel string    `bson:"liquidity_label"`
	ProxyCategory  string    `bson:"proxy_category"`
}

func (d *securityDocument) toModel() (*models.Security, error) {
	dates := make([]time.Time, len(d.CloseDate))
	for i, s := range d.CloseDate {
		t, err := time.Parse(mongoDateLayout, s)
		if err != nil {
			return nil, fmt.Errorf("security %s has invalid close_date %q: %w", d.Ticker, s, err)
		}
		dates[i] = t
	}
	return &models.Security{
		Ticker:         d.Ticker,
		LongName:       d.LongName,
		CloseDates:     dates,
		DailyReturns:   d.DailyReturn,
		FetchedOn:      time.Time(d.FetchedOn),
		LiquidityLabel: d.LiquidityLabel,
		ProxyCategory:  d.ProxyCategory,
	}, nil
}

// MongoSecurityStore stores one document per security in the securities collection.
type MongoSecurityStore struct {
	coll *mongo.Collection
}

// NewMongoSecurityStore creates a new MongoSecurityStore
func NewMongoSecurityStore(db *mongo.Database) *MongoSecurityStore {
	return &MongoSecurityStore{coll: db.Collection(securitiesCollection)}
}

// EnsureIndexes creates the unique ticker index.
func (r *MongoSecurityStore) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "ticker", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create ticker index: %w", err)
	}
	return nil
}

// Get retrieves a security by ticker
func (r *MongoSecurityStore) Get(ctx context.Context, ticker string) (*models.Security, error) {
	var doc securityDocument
	err := r.coll.FindOne(ctx, bson.D{{Key: "ticker", Value: ticker}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSecurityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get security %s: %w", ticker, err)
	}
	return doc.toModel()
}

// GetMany retrieves all securities whose ticker is in tickers
func (r *MongoSecurityStore) GetMany(ctx context.Context, tickers []string) (map[string]*models.Security, error) {
	result := make(map[string]*models.Security, len(tickers))
	if len(tickers) == 0 {
		return result, nil
	}

	cur, err := r.coll.Find(ctx, bson.D{{Key: "ticker", Value: bson.D{{Key: "$in", Value: tickers}}}})
	if err != nil {
		return nil, fmt.Errorf("failed to query securities: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc securityDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode security: %w", err)
		}
		s, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		result[s.Ticker] = s
	}
	return result, cur.Err()
}

// List returns ticker and name of every stored security
func (r *MongoSecurityStore) List(ctx context.Context) ([]models.SecuritySummary, error) {
	opts := options.Find().
		SetProjection(bson.D{{Key: "_id", Value: 0}, {Key: "ticker", Value: 1}, {Key: "long_name", Value: 1}}).
		SetSort(bson.D{{Key: "ticker", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list securities: %w", err)
	}
	defer cur.Close(ctx)

	result := []models.SecuritySummary{}
	for cur.Next(ctx) {
		var doc securityDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode security: %w", err)
		}
		result = append(result, models.SecuritySummary{Ticker: doc.Ticker, LongName: doc.LongName})
	}
	return result, cur.Err()
}

// upsertUpdate refreshes price-derived fields and sets labels only on insert,
// so a refresh keeps existing labels.
func upsertUpdate(s *models.Security) bson.D {
	dates := make([]string, len(s.CloseDates))
	for i, d := range s.CloseDates {
		dates[i] = d.Format(mongoDateLayout)
	}
	return bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "long_name", Value: s.LongName},
			{Key: "close_date", Value: dates},
			{Key: "daily_return", Value: s.DailyReturns},
			{Key: "fetched_on", Value: s.FetchedOn.UTC()},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "liquidity_label", Value: s.LiquidityLabel},
			{Key: "proxy_category", Value: s.ProxyCategory},
		}},
	}
}

// Upsert inserts a security or refreshes its price-derived fields
func (r *MongoSecurityStore) Upsert(ctx context.Context, s *models.Security) error {
	_, err := r.coll.UpdateOne(ctx, bson.D{{Key: "ticker", Value: s.Ticker}}, upsertUpdate(s), options.UpdateOne().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert security %s: %w", s.Ticker, err)
	}
	return nil
}

// SetLiquidity updates the liquidity metadata of a security
func (r *MongoSecurityStore) SetLiquidity(ctx context.Context, ticker, label, proxyCategory string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "ticker", Value: ticker}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "liquidity_label", Value: label},
			{Key: "proxy_category", Value: proxyCategory},
		}}},
	)
	if err != nil {
		return fmt.Errorf("failed to set liquidity for %s: %w", ticker, err)
	}
	if res.MatchedCount == 0 {
		return ErrSecurityNotFound
	}
	return nil
}
