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

// AssetService implements the asset use cases.
type AssetService struct {
	repo   ports.AssetRepository
	logger zerolog.Logger
}

func NewAssetService(repo ports.AssetRepository, logger zerolog.Logger) *AssetService {
	return &AssetService{repo: repo, logger: logger}
}

// CreateAsset inserts a new asset as Available.
func (s *AssetService) CreateAsset(ctx context.Context, input ports.CreateAssetInput) (*domain.Asset, error) {
	input.SerialNumber = strings.TrimSpace(input.SerialNumber)
	if strings.TrimSpace(input.AssetType) == "" ||
		strings.TrimSpace(input.Model) == "" ||
		input.SerialNumber == "" {
		return nil, domain.ErrMissingFields
	}

	now := time.Now().UTC()
	asset := &domain.Asset{
		ID:             uuid.NewString(),
		AssetType:      input.AssetType,
		Manufacturer:   input.Manufacturer,
		Model:          input.Model,
		SerialNumber:   input.SerialNumber,
		Specifications: input.Specifications,
		Location:       input.Location,
		Notes:          input.Notes,
		Status:         domain.AssetAvailable,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, asset); err != nil {
		if !domain.IsValidation(err) {
			s.logger.Error().Err(err).Str("serial", asset.SerialNumber).Msg("failed to create asset")
		}
		return nil, err
	}

	metrics.AssetWritesTotal.WithLabelValues("create").Inc()
	s.logger.Info().Str("asset_id", asset.ID).Str("serial", asset.SerialNumber).Msg("asset created")
	return asset, nil
}

// UpdateAsset rewrites all mutable fields, including a direct status
// override. Setting the serial to the asset's own current value is allowed;
// colliding with a different asset's serial is not.
func (s *AssetService) UpdateAsset(ctx context.Context, input ports.UpdateAssetInput) (*domain.Asset, error) {
	input.SerialNumber = strings.TrimSpace(input.SerialNumber)
	if strings.TrimSpace(input.AssetType) == "" ||
		strings.TrimSpace(input.Model) == "" ||
		input.SerialNumber == "" {
		return nil, domain.ErrMissingFields
	}
	if !domain.ValidAssetStatus(input.Status) {
		return nil, domain.ErrMissingFields
	}

	asset, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	asset.AssetType = input.AssetType
	asset.Manufacturer = input.Manufacturer
	asset.Model = input.Model
	asset.SerialNumber = input.SerialNumber
	asset.Specifications = input.Specifications
	asset.Location = input.Location
	asset.Notes = input.Notes
	asset.Status = input.Status
	asset.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, asset); err != nil {
		if !domain.IsValidation(err) {
			s.logger.Error().Err(err).Str("asset_id", asset.ID).Msg("failed to update asset")
		}
		return nil, err
	}

	metrics.AssetWritesTotal.WithLabelValues("update").Inc()
	s.logger.Info().Str("asset_id", asset.ID).Str("status", string(asset.Status)).Msg("asset updated")
	return asset, nil
}

func (s *AssetService) GetAsset(ctx context.Context, id string) (*domain.Asset, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AssetService) ListAssets(ctx context.Context, filter ports.ListAssetsFilter) ([]domain.Asset, error) {
	return s.repo.List(ctx, filter)
}

func (s *AssetService) ListAvailableAssets(ctx context.Context) ([]domain.Asset, error) {
	return s.repo.ListAvailable(ctx)
}

// DeleteAsset hard-deletes an asset. Open loans block the delete; the
// repository performs the check and the delete atomically so a loan created
// in between cannot slip through.
func (s *AssetService) DeleteAsset(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if !domain.IsValidation(err) {
			s.logger.Error().Err(err).Str("asset_id", id).Msg("failed to delete asset")
		}
		return err
	}
	metrics.AssetWritesTotal.WithLabelValues("delete").Inc()
	s.logger.Info().Str("asset_id", id).Msg("asset deleted")
	return nil
}
