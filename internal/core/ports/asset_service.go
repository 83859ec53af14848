package ports

import (
	"context"
	"time"

	"github.com/labops/server-loans/internal/core/domain"
)

// CreateAssetInput carries the fields of the asset add form.
type CreateAssetInput struct {
	AssetType      string
	Manufacturer   string
	Model          string
	SerialNumber   string
	Specifications string
	Location       string
	Notes          string
}

// UpdateAssetInput carries the fields of the asset edit form. Status is an
// operator override and may be set directly.
type UpdateAssetInput struct {
	ID             string
	AssetType      string
	Manufacturer   string
	Model          string
	SerialNumber   string
	Specifications string
	Location       string
	Notes          string
	Status         domain.AssetStatus
}

// AssetService defines the asset use cases.
type AssetService interface {
	CreateAsset(ctx context.Context, input CreateAssetInput) (*domain.Asset, error)
	UpdateAsset(ctx context.Context, input UpdateAssetInput) (*domain.Asset, error)
	GetAsset(ctx context.Context, id string) (*domain.Asset, error)
	ListAssets(ctx context.Context, filter ListAssetsFilter) ([]domain.Asset, error)
	ListAvailableAssets(ctx context.Context) ([]domain.Asset, error)
	DeleteAsset(ctx context.Context, id string) error
}

// CreateLoanInput carries the fields of the loan record form.
type CreateLoanInput struct {
	AssetID            string
	CreatedByUserID    string
	StartDate          time.Time
	ExpectedReturnDate time.Time
	Purpose            string
	CustomerCompany    string
	CustomerEmail      string
	Notes              string
}

// ReturnLoanInput carries the fields of the loan return form.
type ReturnLoanInput struct {
	LoanID     string
	ReturnDate time.Time
	Notes      string
}

// CancelLoanInput carries the fields of the loan cancel form.
type CancelLoanInput struct {
	LoanID string
	Reason string
}

// LoanService defines the loan lifecycle use cases.
type LoanService interface {
	CreateLoan(ctx context.Context, input CreateLoanInput) (*domain.Loan, error)
	ReturnLoan(ctx context.Context, input ReturnLoanInput) (*domain.Loan, error)
	CancelLoan(ctx context.Context, input CancelLoanInput) (*domain.Loan, error)
	GetLoan(ctx context.Context, id string) (*domain.Loan, error)
	ListLoans(ctx context.Context, filter ListLoansFilter) ([]domain.Loan, error)
	DashboardCounts(ctx context.Context) (*DashboardCounts, error)
}

// DashboardCounts summarises the ledger for the landing page.
type DashboardCounts struct {
	TotalAssets     int64
	AvailableAssets int64
	ActiveLoans     int64
	PendingLoans    int64
}
