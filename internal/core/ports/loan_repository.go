package ports

import (
	"context"
	"time"

	"github.com/labops/server-loans/internal/core/domain"
)

// ListLoansFilter carries the query parameters for the loan list pages.
type ListLoansFilter struct {
	Status   domain.LoanStatus // optional: filter by loan status
	AssetID  string            // optional: scope to one asset
	OpenOnly bool              // only loans still holding their asset
}

// LoanRepository defines persistence operations for loans. The three
// lifecycle mutations each pair a loan write with the matching asset status
// flip inside a single transaction; a failure of either write rolls back
// both.
type LoanRepository interface {
	// CreateActive locks the asset row, verifies it is Available, inserts
	// the loan as Active and marks the asset On Loan. A concurrent loan
	// against the same asset loses the row lock race and gets
	// domain.ErrAssetUnavailable with nothing written.
	CreateActive(ctx context.Context, loan *domain.Loan) error
	// Return closes an Active loan as Returned, recording the actual return
	// date and notes, and releases the asset back to Available.
	Return(ctx context.Context, loanID string, returnDate time.Time, notes string) (*domain.Loan, error)
	// Cancel closes an Active loan as Cancelled, storing the reason in its
	// notes, and releases the asset back to Available.
	Cancel(ctx context.Context, loanID string, reason string) (*domain.Loan, error)
	FindByID(ctx context.Context, id string) (*domain.Loan, error)
	List(ctx context.Context, filter ListLoansFilter) ([]domain.Loan, error)
	CountByStatus(ctx context.Context) (map[domain.LoanStatus]int64, error)
}
