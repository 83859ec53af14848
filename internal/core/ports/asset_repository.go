package ports

import (
	"context"

	"github.com/labops/server-loans/internal/core/domain"
)

// ListAssetsFilter carries the query parameters for the asset list page.
type ListAssetsFilter struct {
	Status domain.AssetStatus // optional: filter by status
	Search string             // optional: partial match on serial, model or manufacturer
}

// AssetRepository defines persistence operations for assets.
type AssetRepository interface {
	// Create inserts a new asset. A serial number held by any existing
	// asset yields domain.ErrDuplicateSerial.
	Create(ctx context.Context, asset *domain.Asset) error
	// Update rewrites all mutable fields. A serial number held by a
	// different asset yields domain.ErrDuplicateSerial.
	Update(ctx context.Context, asset *domain.Asset) error
	FindByID(ctx context.Context, id string) (*domain.Asset, error)
	List(ctx context.Context, filter ListAssetsFilter) ([]domain.Asset, error)
	// ListAvailable returns assets eligible for a new loan.
	ListAvailable(ctx context.Context) ([]domain.Asset, error)
	// Delete removes the asset, refusing with domain.ErrOpenLoanExists when
	// any loan in an open status references it. The check and the delete
	// run in one transaction.
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[domain.AssetStatus]int64, error)
}
