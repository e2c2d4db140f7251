package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/epeers/markowitz/internal/models"
)

// SQLiteSecurityStore keeps return history as JSON arrays in a local SQLite file.
type SQLiteSecurityStore struct {
	db *sql.DB
}

// NewSQLiteSecurityStore runs migrations and returns the store.
func NewSQLiteSecurityStore(db *sql.DB) (*SQLiteSecurityStore, error) {
	s := &SQLiteSecurityStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	return s, nil
}

func (r *SQLiteSecurityStore) migrate() error {
	version := 0
	// missing table on first run leaves version at 0
	_ = r.db.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := r.db.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS securities (
				ticker          TEXT PRIMARY KEY,
				long_name       TEXT NOT NULL DEFAULT '',
				close_dates     TEXT NOT NULL,
				daily_returns   TEXT NOT NULL,
				fetched_on      TEXT NOT NULL,
				liquidity_label TEXT NOT NULL DEFAULT '',
				proxy_category  TEXT NOT NULL DEFAULT ''
			);

			INSERT OR IGNORE INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return err
		}
	}
	return nil
}

const sqliteSelect = `
	SELECT ticker, long_name, close_dates, daily_returns, fetched_on, liquidity_label, proxy_category
	FROM securities
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteSecurity(row rowScanner) (*models.Security, error) {
	var (
		s                   models.Security
		datesJSON, retsJSON string
		fetchedOn           string
		dates               []string
	)
	if err := row.Scan(&s.Ticker, &s.LongName, &datesJSON, &retsJSON, &fetchedOn, &s.LiquidityLabel, &s.ProxyCategory); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(datesJSON), &dates); err != nil {
		return nil, fmt.Errorf("security %s: invalid close_dates: %w", s.Ticker, err)
	}
	if err := json.Unmarshal([]byte(retsJSON), &s.DailyReturns); err != nil {
		return nil, fmt.Errorf("security %s: invalid daily_returns: %w", s.Ticker, err)
	}
	s.CloseDates = make([]time.Time, len(dates))
	for i, d := range dates {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			return nil, fmt.Errorf("security %s: invalid close date %q: %w", s.Ticker, d, err)
		}
		s.CloseDates[i] = t
	}
	t, err := time.Parse(time.RFC3339Nano, fetchedOn)
	if err != nil {
		return nil, fmt.Errorf("security %s: invalid fetched_on %q: %w", s.Ticker, fetchedOn, err)
	}
	s.FetchedOn = t
	return &s, nil
}

// Get retrieves a security by ticker
func (r *SQLiteSecurityStore) Get(ctx context.Context, ticker string) (*models.Security, error) {
	s, err := scanSQLiteSecurity(r.db.QueryRowContext(ctx, sqliteSelect+` WHERE ticker = ?`, ticker))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSecurityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get security %s: %w", ticker, err)
	}
	return s, nil
}

// GetMany retrieves all securities whose ticker is in tickers
func (r *SQLiteSecurityStore) GetMany(ctx context.Context, tickers []string) (map[string]*models.Security, error) {
	result := make(map[string]*models.Security, len(tickers))
	if len(tickers) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(tickers)), ",")
	args := make([]any, len(tickers))
	for i, t := range tickers {
		args[i] = t
	}
	rows, err := r.db.QueryContext(ctx, sqliteSelect+` WHERE ticker IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query securities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanSQLiteSecurity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan security: %w", err)
		}
		result[s.Ticker] = s
	}
	return result, rows.Err()
}

// List returns ticker and name of every stored security
func (r *SQLiteSecurityStore) List(ctx context.Context) ([]models.SecuritySummary, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT ticker, long_name FROM securities ORDER BY ticker`)
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
func (r *SQLiteSecurityStore) Upsert(ctx context.Context, s *models.Security) error {
	dates := make([]string, len(s.CloseDates))
	for i, d := range s.CloseDates {
		dates[i] = d.Format("2006-01-02")
	}
	datesJSON, err := json.Marshal(dates)
	if err != nil {
		return fmt.Errorf("failed to encode close dates: %w", err)
	}
	retsJSON, err := json.Marshal(s.DailyReturns)
	if err != nil {
		return fmt.Errorf("failed to encode daily returns: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO securities (ticker, long_name, close_dates, daily_returns, fetched_on, liquidity_label, proxy_category)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (ticker) DO UPDATE SET
			long_name = excluded.long_name,
			close_dates = excluded.close_dates,
			daily_returns = excluded.daily_returns,
			fetched_on = excluded.fetched_on
	`, s.Ticker, s.LongName, string(datesJSON), string(retsJSON), s.FetchedOn.UTC().Format(time.RFC3339Nano), s.LiquidityLabel, s.ProxyCategory)
	if err != nil {
		return fmt.Errorf("failed to upsert security %s: %w", s.Ticker, err)
	}
	return nil
}

// SetLiquidity updates the liquidity metadata of a security
func (r *SQLiteSecurityStore) SetLiquidity(ctx context.Context, ticker, label, proxyCategory string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE securities SET liquidity_label = ?, proxy_category = ? WHERE ticker = ?`,
		label, proxyCategory, ticker)
	if err != nil {
		return fmt.Errorf("failed to set liquidity for %s: %w", ticker, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to set liquidity for %s: %w", ticker, err)
	}
	if n == 0 {
		return ErrSecurityNotFound
	}
	return nil
}
