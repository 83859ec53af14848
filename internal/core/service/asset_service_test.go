package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/labops/server-loans/internal/core/domain"
	"github.com/labops/server-loans/internal/core/ports"
)

func newAssetService(store *stubLedger) *AssetService {
	return NewAssetService(store, zerolog.Nop())
}

func mustCreateAsset(t *testing.T, svc *AssetService, serial string) *domain.Asset {
	t.Helper()
	asset, err := svc.CreateAsset(context.Background(), ports.CreateAssetInput{
		AssetType:    "Server",
		Manufacturer: "Dell",
		Model:        "PowerEdge R740",
		SerialNumber: serial,
	})
	if err != nil {
		t.Fatalf("CreateAsset(%s): %v", serial, err)
	}
	return asset
}

func TestAssetService_CreateAsset(t *testing.T) {
	store := newStubLedger()
	svc := newAssetService(store)

	asset := mustCreateAsset(t, svc, "SN-001")
	if asset.Status != domain.AssetAvailable {
		t.Fatalf("expected new asset to be Available, got %q", asset.Status)
	}
	if asset.ID == "" {
		t.Fatalf("expected generated asset ID")
	}
}

func TestAssetService_CreateAsset_MissingFields(t *testing.T) {
	svc := newAssetService(newStubLedger())

	_, err := svc.CreateAsset(context.Background(), ports.CreateAssetInput{
		AssetType: "Server", Model: "", SerialNumber: "SN-002",
	})
	if !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestAssetService_CreateAsset_DuplicateSerial(t *testing.T) {
	store := newStubLedger()
	svc := newAssetService(store)

	mustCreateAsset(t, svc, "SN-003")
	_, err := svc.CreateAsset(context.Background(), ports.CreateAssetInput{
		AssetType: "Appliance", Model: "FortiGate 100F", SerialNumber: "SN-003",
	})
	if !errors.Is(err, domain.ErrDuplicateSerial) {
		t.Fatalf("expected ErrDuplicateSerial, got %v", err)
	}
}

func TestAssetService_UpdateAsset_SerialCollision(t *testing.T) {
	store := newStubLedger()
	svc := newAssetService(store)

	mustCreateAsset(t, svc, "SN-010")
	second := mustCreateAsset(t, svc, "SN-011")

	_, err := svc.UpdateAsset(context.Background(), ports.UpdateAssetInput{
		ID:           second.ID,
		AssetType:    second.AssetType,
		Model:        second.Model,
		SerialNumber: "SN-010",
		Status:       domain.AssetAvailable,
	})
	if !errors.Is(err, domain.ErrDuplicateSerial) {
		t.Fatalf("expected ErrDuplicateSerial, got %v", err)
	}
}

func TestAssetService_UpdateAsset_OwnSerial(t *testing.T) {
	store := newStubLedger()
	svc := newAssetService(store)

	asset := mustCreateAsset(t, svc, "SN-020")

	updated, err := svc.UpdateAsset(context.Background(), ports.UpdateAssetInput{
		ID:           asset.ID,
		AssetType:    asset.AssetType,
		Model:        asset.Model,
		SerialNumber: "SN-020",
		Location:     "Rack B4",
		Status:       domain.AssetMaintenance,
	})
	if err != nil {
		t.Fatalf("UpdateAsset with own serial: %v", err)
	}
	if updated.Location != "Rack B4" || updated.Status != domain.AssetMaintenance {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestAssetService_DeleteAsset(t *testing.T) {
	store := newStubLedger()
	svc := newAssetService(store)

	asset := mustCreateAsset(t, svc, "SN-030")
	if err := svc.DeleteAsset(context.Background(), asset.ID); err != nil {
		t.Fatalf("DeleteAsset: %v", err)
	}
	if _, err := svc.GetAsset(context.Background(), asset.ID); !errors.Is(err, domain.ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound after delete, got %v", err)
	}
}

func TestAssetService_DeleteAsset_BlockedByOpenLoan(t *testing.T) {
	store := newStubLedger()
	assets := newAssetService(store)
	loans := NewLoanService(loanRepoView{store}, store, zerolog.Nop())

	asset := mustCreateAsset(t, assets, "SN-040")
	if _, err := loans.CreateLoan(context.Background(), validLoanInput(asset.ID)); err != nil {
		t.Fatalf("CreateLoan: %v", err)
	}

	if err := assets.DeleteAsset(context.Background(), asset.ID); !errors.Is(err, domain.ErrOpenLoanExists) {
		t.Fatalf("expected ErrOpenLoanExists, got %v", err)
	}
	// The row must remain unchanged.
	got, err := assets.GetAsset(context.Background(), asset.ID)
	if err != nil {
		t.Fatalf("asset disappeared after blocked delete: %v", err)
	}
	if got.Status != domain.AssetOnLoan {
		t.Fatalf("expected asset still On Loan, got %q", got.Status)
	}
	assertInvariant(t, store)
}
