package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/epeers/markowitz/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS securities (
		ticker          TEXT PRIMARY KEY,
		long_name       TEXT NOT NULL DEFAULT '',
		close_dates     DATE[] NOT NULL,
		daily_returns   DOUBLE PRECISION[] NOT NULL,
		fetched_on      TIMESTAMPTZ NOT NULL,
		liquidity_label TEXT NOT NULL DEFAULT '',
		proxy_category  TEXT NOT NULL DEFAULT ''
	)
`

// PostgresSecurityStore stores one row per security with return history in array columns.
type PostgresSecurityStore struct {
	pool *pgxpool.Pool
}

// NewPostgresSecurityStore creates a new PostgresSecurityStore
func NewPostgresSecurityStore(pool *pgxpool.Pool) *PostgresSecurityStore {
	return &PostgresSecurityStore{pool: pool}
}

// EnsureSchema creates the securities table if it does not exist.
func (r *PostgresSecurityStore) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to create securities table: %w", err)
	}
	return nil
}

// Get retrieves a security by ticker
func (r *PostgresSecurityStore) Get(ctx context.Context, ticker string) (*models.Security, error) {
	query := `
		SELECT ticker, long_name, close_dates, daily_returns, fetched_on, liquidity_label, proxy_category
		FROM securities
		WHERE ticker = $1
	`
	s := &models.Security{}
	err := r.pool.QueryRow(ctx, query, ticker).Scan(
		&s.Ticker, &s.LongName, &s.CloseDates, &s.DailyReturns, &s.FetchedOn, &s.LiquidityLabel, &s.ProxyCategory,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSecurityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get security %s: %w", ticker, err)
	}
	return s, nil
}

// GetMany retrieves all securities whose ticker is in tickers
func (r *PostgresSecurityStore) GetMany(ctx context.Context, tickers []string) (map[string]*models.Security, error) {
	result := make(map[string]*models.Security, len(tickers))
	if len(tickers) == 0 {
		return result, nil
	}

	query := `
		SELECT ticker, long_name, close_dates, daily_returns, fetched_on, liquidity_label, proxy_category
		FROM securities
		WHERE ticker = ANY($1)
	`
	rows, err := r.pool.Query(ctx, query, tickers)
	if err != nil {
		return nil, fmt.Errorf("failed to query securities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s := &models.Security{}
		if err := rows.Scan(&s.Ticker, &s.LongName, &s.CloseDates, &s.DailyReturns, &s.FetchedOn, &s.LiquidityLabel, &s.ProxyCategory); err != nil {
			return nil, fmt.Errorf("failed to scan security: %w", err)
		}
		result[s.Ticker] = s
	}
	return result, rows.Err()
}

// List returns ticker and name of every stored security
func (r *PostgresSecurityStore) List(ctx context.Context) ([]models.SecuritySummary, error) {
	rows, err := r.pool.Query(ctx, `SELECT ticker, long_name FROM securities ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("failed to list securities: %w", err)
	}
	defer rows.Close()

	result := []models.SecuritySummary{}
	for rows.Next() {
		var s models.SecuritySummary
		if err := rows.Scan(&s.Ticker, &s.LongName); err != nil {
			return nil, fmt.Errorf("failed to scan security: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// Upsert inserts a security or refreshes its price-derived fields
func (r *PostgresSecurityStore) Upsert(ctx context.Context, s *models.Security) error {
	query := `
		INSERT INTO securities (ticker, long_name, close_dates, daily_returns, fetched_on, liquidity_label, proxy_category)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (ticker) DO UPDATE SET
			long_name = EXCLUDED.long_name,
			close_dates = EXCLUDED.close_dates,
			daily_returns = EXCLUDED.daily_returns,
			fetched_on = EXCLUDED.fetched_on
	`
	_, err := r.pool.Exec(ctx, query,
		s.Ticker, s.LongName, s.CloseDates, s.DailyReturns, s.FetchedOn, s.LiquidityLabel, s.ProxyCategory)
	if err != nil {
		return fmt.Errorf("failed to upsert security %s: %w", s.Ticker, err)
	}
	return nil
}

// SetLiquidity updates the liquidity metadata of a security
func (r *PostgresSecurityStore) SetLiquidity(ctx context.Context, ticker, label, proxyCategory string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE securities SET liquidity_label = $2, proxy_category = $3 WHERE ticker = $1`,
		ticker, label, proxyCategory)
	if err != nil {
		return fmt.Errorf("failed to set liquidity for %s: %w", ticker, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSecurityNotFound
	}
	return nil
}
