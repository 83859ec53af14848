package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/labops/server-loans/internal/core/domain"
	"github.com/labops/server-loans/internal/core/ports"
)

// LoanRepository implements ports.LoanRepository on PostgreSQL. Every
// lifecycle mutation pairs its loan write with the asset status flip in one
// transaction; a crash or error rolls back both.
type LoanRepository struct {
	db *gorm.DB
}

func NewLoanRepository(db *gorm.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

// CreateActive inserts an Active loan and marks the asset On Loan. The asset
// row is locked with SELECT ... FOR UPDATE first, so of two concurrent
// submissions only one sees the asset Available.
func (r *LoanRepository) CreateActive(ctx context.Context, loan *domain.Loan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var asset domain.Asset
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&asset, "id = ?", loan.AssetID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrAssetNotFound
		}
		if err != nil {
			return err
		}
		if asset.Status != domain.AssetAvailable {
			return domain.ErrAssetUnavailable
		}

		if err := tx.Create(loan).Error; err != nil {
			return err
		}

		return tx.Model(&domain.Asset{}).
			Where("id = ?", asset.ID).
			Updates(map[string]any{"status": domain.AssetOnLoan, "updated_at": time.Now().UTC()}).Error
	})
}

// Return closes an Active loan as Returned and releases its asset.
func (r *LoanRepository) Return(ctx context.Context, loanID string, returnDate time.Time, notes string) (*domain.Loan, error) {
	return r.close(ctx, loanID, func(loan *domain.Loan) {
		loan.Status = domain.LoanReturned
		loan.ActualReturnDate = &returnDate
		if notes != "" {
			loan.Notes = domain.AppendNote(loan.Notes, notes)
		}
	})
}

// Cancel closes an Active loan as Cancelled, recording the reason.
func (r *LoanRepository) Cancel(ctx context.Context, loanID string, reason string) (*domain.Loan, error) {
	return r.close(ctx, loanID, func(loan *domain.Loan) {
		loan.Status = domain.LoanCancelled
		loan.Notes = domain.AppendNote(loan.Notes, "Cancelled: "+reason)
	})
}

// close locks the loan row, verifies it is Active, applies mutate and flips
// the asset back to Available, all in one transaction.
func (r *LoanRepository) close(ctx context.Context, loanID string, mutate func(*domain.Loan)) (*domain.Loan, error) {
	var loan domain.Loan
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&loan, "id = ?", loanID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrLoanNotFound
		}
		if err != nil {
			return err
		}
		if loan.Status != domain.LoanActive {
			return domain.ErrLoanNotActive
		}

		mutate(&loan)
		loan.UpdatedAt = time.Now().UTC()
		if err := tx.Save(&loan).Error; err != nil {
			return err
		}

		return tx.Model(&domain.Asset{}).
			Where("id = ?", loan.AssetID).
			Updates(map[string]any{"status": domain.AssetAvailable, "updated_at": time.Now().UTC()}).Error
	})
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *LoanRepository) FindByID(ctx context.Context, id string) (*domain.Loan, error) {
	var loan domain.Loan
	err := r.db.WithContext(ctx).Preload("Asset").First(&loan, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrLoanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *LoanRepository) List(ctx context.Context, filter ports.ListLoansFilter) ([]domain.Loan, error) {
	q := r.db.WithContext(ctx).Model(&domain.Loan{}).
		Preload("Asset").
		Order("created_at DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.AssetID != "" {
		q = q.Where("asset_id = ?", filter.AssetID)
	}
	if filter.OpenOnly {
		q = q.Where("status IN ?", domain.OpenLoanStatuses)
	}
	var loans []domain.Loan
	err := q.Find(&loans).Error
	return loans, err
}

func (r *LoanRepository) CountByStatus(ctx context.Context) (map[domain.LoanStatus]int64, error) {
	type row struct {
		Status domain.LoanStatus
		N      int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&domain.Loan{}).
		Select("status, count(*) as n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.LoanStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.N
	}
	return counts, nil
}
