package repository

import (
	"context"
	"errors"

	"github.com/epeers/markowitz/internal/models"
)

var ErrSecurityNotFound = errors.New("security not found")

// SecurityStore persists securities keyed by ticker. Implementations exist for
// PostgreSQL, MongoDB and SQLite.
type SecurityStore interface {
	// Get returns ErrSecurityNotFound when the ticker is unknown.
	Get(ctx context.Context, ticker string) (*models.Security, error)
	// GetMany returns the securities that exist; unknown tickers are absent from the map.
	GetMany(ctx context.Context, tickers []string) (map[string]*models.Security, error)
	List(ctx context.Context) ([]models.SecuritySummary, error)
	// Upsert writes price-derived fields. Liquidity metadata is only written on
	// insert so a data refresh never clears labels.
	Upsert(ctx context.Context, s *models.Security) error
	// SetLiquidity returns ErrSecurityNotFound when the ticker is unknown.
	SetLiquidity(ctx context.Context, ticker, label, proxyCategory string) error
}
