package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/labops/server-loans/internal/core/domain"
	"github.com/labops/server-loans/internal/core/ports"
)

// AssetRepository implements ports.AssetRepository on PostgreSQL.
type AssetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

func (r *AssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	err := r.db.WithContext(ctx).Create(asset).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateSerial
	}
	return err
}

func (r *AssetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.Asset{}).
			Where("serial_number = ? AND id <> ?", asset.SerialNumber, asset.ID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrDuplicateSerial
		}

		res := tx.Model(&domain.Asset{}).Where("id = ?", asset.ID).Updates(map[string]any{
			"asset_type":     asset.AssetType,
			"manufacturer":   asset.Manufacturer,
			"model":          asset.Model,
			"serial_number":  asset.SerialNumber,
			"specifications": asset.Specifications,
			"location":       asset.Location,
			"notes":          asset.Notes,
			"status":         asset.Status,
			"updated_at":     asset.UpdatedAt,
		})
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicateSerial
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrAssetNotFound
		}
		return nil
	})
}

func (r *AssetRepository) FindByID(ctx context.Context, id string) (*domain.Asset, error) {
	var asset domain.Asset
	err := r.db.WithContext(ctx).First(&asset, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAssetNotFound
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *AssetRepository) List(ctx context.Context, filter ports.ListAssetsFilter) ([]domain.Asset, error) {
	q := r.db.WithContext(ctx).Model(&domain.Asset{}).
		Order("asset_type, manufacturer, model")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("serial_number ILIKE ? OR model ILIKE ? OR manufacturer ILIKE ?", like, like, like)
	}
	var assets []domain.Asset
	err := q.Find(&assets).Error
	return assets, err
}

func (r *AssetRepository) ListAvailable(ctx context.Context) ([]domain.Asset, error) {
	return r.List(ctx, ports.ListAssetsFilter{Status: domain.AssetAvailable})
}

// Delete removes the asset after confirming no open loan references it. The
// asset row is locked for the duration so a racing loan creation cannot slip
// between the check and the delete.
func (r *AssetRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var asset domain.Asset
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&asset, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrAssetNotFound
		}
		if err != nil {
			return err
		}

		var open int64
		if err := tx.Model(&domain.Loan{}).
			Where("asset_id = ? AND status IN ?", id, domain.OpenLoanStatuses).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return domain.ErrOpenLoanExists
		}

		return tx.Delete(&domain.Asset{}, "id = ?", id).Error
	})
}

func (r *AssetRepository) CountByStatus(ctx context.Context) (map[domain.AssetStatus]int64, error) {
	type row struct {
		Status domain.AssetStatus
		N      int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&domain.Asset{}).
		Select("status, count(*) as n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.AssetStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.N
	}
	return counts, nil
}
