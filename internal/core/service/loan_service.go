package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/labops/server-loans/internal/api/metrics"
	"github.com/labops/server-loans/internal/core/domain"
	"github.com/labops/server-loans/internal/core/ports"
)

// LoanService implements the loan lifecycle use cases. All three mutations
// delegate the dual write (loan row + asset status) to the repository, which
// runs them in one transaction.
type LoanService struct {
	loans  ports.LoanRepository
	assets ports.AssetRepository
	logger zerolog.Logger
}

func NewLoanService(loans ports.LoanRepository, assets ports.AssetRepository, logger zerolog.Logger) *LoanService {
	return &LoanService{loans: loans, assets: assets, logger: logger}
}

// CreateLoan records a new Active loan against an Available asset and flips
// the asset to On Loan. When two submissions race on the same asset, the
// repository's row lock lets exactly one through.
func (s *LoanService) CreateLoan(ctx context.Context, input ports.CreateLoanInput) (*domain.Loan, error) {
	if input.AssetID == "" ||
		strings.TrimSpace(input.Purpose) == "" ||
		strings.TrimSpace(input.CustomerCompany) == "" ||
		input.StartDate.IsZero() || input.ExpectedReturnDate.IsZero() {
		return nil, domain.ErrMissingFields
	}
	if !input.StartDate.Before(input.ExpectedReturnDate) {
		return nil, domain.ErrBadDateOrder
	}

	now := time.Now().UTC()
	loan := &domain.Loan{
		ID:                 uuid.NewString(),
		AssetID:            input.AssetID,
		CreatedByUserID:    input.CreatedByUserID,
		RequestDate:        now,
		StartDate:          input.StartDate,
		ExpectedReturnDate: input.ExpectedReturnDate,
		Purpose:            input.Purpose,
		CustomerCompany:    input.CustomerCompany,
		CustomerEmail:      input.CustomerEmail,
		Notes:              input.Notes,
		Status:             domain.LoanActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.loans.CreateActive(ctx, loan); err != nil {
		if !domain.IsValidation(err) {
			s.logger.Error().Err(err).Str("asset_id", input.AssetID).Msg("failed to create loan")
		}
		return nil, err
	}

	metrics.LoansCreatedTotal.Inc()
	s.logger.Info().
		Str("loan_id", loan.ID).
		Str("asset_id", loan.AssetID).
		Str("customer", loan.CustomerCompany).
		Msg("loan created")
	return loan, nil
}

// ReturnLoan closes an Active loan as Returned and releases its asset.
func (s *LoanService) ReturnLoan(ctx context.Context, input ports.ReturnLoanInput) (*domain.Loan, error) {
	if input.LoanID == "" || input.ReturnDate.IsZero() {
		return nil, domain.ErrMissingFields
	}
	// Form dates are midnight UTC; compare dates so "today" is never future.
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if input.ReturnDate.After(today) {
		return nil, domain.ErrReturnInFuture
	}

	loan, err := s.loans.Return(ctx, input.LoanID, input.ReturnDate, input.Notes)
	if err != nil {
		if !domain.IsValidation(err) {
			s.logger.Error().Err(err).Str("loan_id", input.LoanID).Msg("failed to return loan")
		}
		return nil, err
	}

	metrics.LoansClosedTotal.WithLabelValues("returned").Inc()
	s.logger.Info().Str("loan_id", loan.ID).Str("asset_id", loan.AssetID).Msg("loan returned")
	return loan, nil
}

// CancelLoan closes an Active loan as Cancelled and releases its asset.
// A non-empty reason is mandatory and is stored in the loan notes.
func (s *LoanService) CancelLoan(ctx context.Context, input ports.CancelLoanInput) (*domain.Loan, error) {
	if input.LoanID == "" {
		return nil, domain.ErrMissingFields
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, domain.ErrMissingReason
	}

	loan, err := s.loans.Cancel(ctx, input.LoanID, reason)
	if err != nil {
		if !domain.IsValidation(err) {
			s.logger.Error().Err(err).Str("loan_id", input.LoanID).Msg("failed to cancel loan")
		}
		return nil, err
	}

	metrics.LoansClosedTotal.WithLabelValues("cancelled").Inc()
	s.logger.Info().Str("loan_id", loan.ID).Str("asset_id", loan.AssetID).Msg("loan cancelled")
	return loan, nil
}

func (s *LoanService) GetLoan(ctx context.Context, id string) (*domain.Loan, error) {
	return s.loans.FindByID(ctx, id)
}

func (s *LoanService) ListLoans(ctx context.Context, filter ports.ListLoansFilter) ([]domain.Loan, error) {
	return s.loans.List(ctx, filter)
}

// DashboardCounts aggregates the figures shown on the landing page.
func (s *LoanService) DashboardCounts(ctx context.Context) (*ports.DashboardCounts, error) {
	assetCounts, err := s.assets.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	loanCounts, err := s.loans.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range assetCounts {
		total += n
	}
	return &ports.DashboardCounts{
		TotalAssets:     total,
		AvailableAssets: assetCounts[domain.AssetAvailable],
		ActiveLoans:     loanCounts[domain.LoanActive],
		PendingLoans:    loanCounts[domain.LoanPending],
	}, nil
}
