package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labops/server-loans/internal/core/domain"
	"github.com/labops/server-loans/internal/core/ports"
)

// stubLedger is an in-memory implementation of both AssetRepository and
// LoanRepository. It mirrors the transactional semantics of the Postgres
// repositories: the dual writes happen under one lock, so either both apply
// or neither does.
type stubLedger struct {
	mu     sync.Mutex
	assets map[string]*domain.Asset
	loans  map[string]*domain.Loan
}

func newStubLedger() *stubLedger {
	return &stubLedger{
		assets: make(map[string]*domain.Asset),
		loans:  make(map[string]*domain.Loan),
	}
}

func cloneAsset(a *domain.Asset) *domain.Asset {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func cloneLoan(l *domain.Loan) *domain.Loan {
	if l == nil {
		return nil
	}
	clone := *l
	clone.Asset = nil
	return &clone
}

// --- AssetRepository ---

func (s *stubLedger) Create(_ context.Context, asset *domain.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.assets {
		if existing.SerialNumber == asset.SerialNumber {
			return domain.ErrDuplicateSerial
		}
	}
	s.assets[asset.ID] = cloneAsset(asset)
	return nil
}

func (s *stubLedger) Update(_ context.Context, asset *domain.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assets[asset.ID]; !ok {
		return domain.ErrAssetNotFound
	}
	for id, existing := range s.assets {
		if id != asset.ID && existing.SerialNumber == asset.SerialNumber {
			return domain.ErrDuplicateSerial
		}
	}
	s.assets[asset.ID] = cloneAsset(asset)
	return nil
}

func (s *stubLedger) FindByID(_ context.Context, id string) (*domain.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	asset, ok := s.assets[id]
	if !ok {
		return nil, domain.ErrAssetNotFound
	}
	return cloneAsset(asset), nil
}

func (s *stubLedger) List(_ context.Context, filter ports.ListAssetsFilter) ([]domain.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Asset
	for _, asset := range s.assets {
		if filter.Status != "" && asset.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(asset.SerialNumber, filter.Search) {
			continue
		}
		out = append(out, *cloneAsset(asset))
	}
	return out, nil
}

func (s *stubLedger) ListAvailable(ctx context.Context) ([]domain.Asset, error) {
	return s.List(ctx, ports.ListAssetsFilter{Status: domain.AssetAvailable})
}

func (s *stubLedger) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assets[id]; !ok {
		return domain.ErrAssetNotFound
	}
	for _, loan := range s.loans {
		if loan.AssetID == id && loan.Status.IsOpen() {
			return domain.ErrOpenLoanExists
		}
	}
	delete(s.assets, id)
	return nil
}

func (s *stubLedger) CountByStatus(_ context.Context) (map[domain.AssetStatus]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[domain.AssetStatus]int64)
	for _, asset := range s.assets {
		counts[asset.Status]++
	}
	return counts, nil
}

// --- LoanRepository ---

func (s *stubLedger) CreateActive(_ context.Context, loan *domain.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	asset, ok := s.assets[loan.AssetID]
	if !ok {
		return domain.ErrAssetNotFound
	}
	if asset.Status != domain.AssetAvailable {
		return domain.ErrAssetUnavailable
	}
	s.loans[loan.ID] = cloneLoan(loan)
	asset.Status = domain.AssetOnLoan
	return nil
}

func (s *stubLedger) Return(_ context.Context, loanID string, returnDate time.Time, notes string) (*domain.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loan, ok := s.loans[loanID]
	if !ok {
		return nil, domain.ErrLoanNotFound
	}
	if loan.Status != domain.LoanActive {
		return nil, domain.ErrLoanNotActive
	}
	loan.Status = domain.LoanReturned
	loan.ActualReturnDate = &returnDate
	if notes != "" {
		loan.Notes = domain.AppendNote(loan.Notes, notes)
	}
	if asset, ok := s.assets[loan.AssetID]; ok {
		asset.Status = domain.AssetAvailable
	}
	return cloneLoan(loan), nil
}

func (s *stubLedger) Cancel(_ context.Context, loanID string, reason string) (*domain.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loan, ok := s.loans[loanID]
	if !ok {
		return nil, domain.ErrLoanNotFound
	}
	if loan.Status != domain.LoanActive {
		return nil, domain.ErrLoanNotActive
	}
	loan.Status = domain.LoanCancelled
	loan.Notes = domain.AppendNote(loan.Notes, "Cancelled: "+reason)
	if asset, ok := s.assets[loan.AssetID]; ok {
		asset.Status = domain.AssetAvailable
	}
	return cloneLoan(loan), nil
}

func (s *stubLedger) FindLoanByID(_ context.Context, id string) (*domain.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loan, ok := s.loans[id]
	if !ok {
		return nil, domain.ErrLoanNotFound
	}
	return cloneLoan(loan), nil
}

func (s *stubLedger) ListLoans(_ context.Context, filter ports.ListLoansFilter) ([]domain.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Loan
	for _, loan := range s.loans {
		if filter.Status != "" && loan.Status != filter.Status {
			continue
		}
		if filter.AssetID != "" && loan.AssetID != filter.AssetID {
			continue
		}
		if filter.OpenOnly && !loan.Status.IsOpen() {
			continue
		}
		out = append(out, *cloneLoan(loan))
	}
	return out, nil
}

func (s *stubLedger) CountLoansByStatus(_ context.Context) (map[domain.LoanStatus]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[domain.LoanStatus]int64)
	for _, loan := range s.loans {
		counts[loan.Status]++
	}
	return counts, nil
}

// loanRepoView adapts stubLedger to ports.LoanRepository, whose FindByID,
// List and CountByStatus names collide with the asset side.
type loanRepoView struct{ *stubLedger }

func (v loanRepoView) FindByID(ctx context.Context, id string) (*domain.Loan, error) {
	return v.FindLoanByID(ctx, id)
}

func (v loanRepoView) List(ctx context.Context, filter ports.ListLoansFilter) ([]domain.Loan, error) {
	return v.ListLoans(ctx, filter)
}

func (v loanRepoView) CountByStatus(ctx context.Context) (map[domain.LoanStatus]int64, error) {
	return v.CountLoansByStatus(ctx)
}

// assertInvariant fails the test unless every asset's status mirrors the
// presence of exactly zero or one open loan against it.
func assertInvariant(t *testing.T, s *stubLedger) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	open := make(map[string]int)
	for _, loan := range s.loans {
		if loan.Status.IsOpen() {
			open[loan.AssetID]++
		}
	}
	for id, asset := range s.assets {
		n := open[id]
		if n > 1 {
			t.Fatalf("asset %s has %d open loans", id, n)
		}
		if (asset.Status == domain.AssetOnLoan) != (n == 1) {
			t.Fatalf("asset %s: status %q with %d open loans", id, asset.Status, n)
		}
	}
}
