package domain

import "time"

// AssetStatus is the availability state of an inventory item.
type AssetStatus string

const (
	AssetAvailable   AssetStatus = "Available"
	AssetOnLoan      AssetStatus = "On Loan"
	AssetMaintenance AssetStatus = "Maintenance"
	AssetRetired     AssetStatus = "Retired"
)

// AssetStatuses lists the states an operator may set directly on the edit
// form. "On Loan" is included so an edit can keep the current value, but the
// ledger is the only writer that flips an asset into or out of it.
var AssetStatuses = []AssetStatus{AssetAvailable, AssetOnLoan, AssetMaintenance, AssetRetired}

// Asset is a loanable inventory item tracked by serial number.
//
// Status is a cached field: it must read "On Loan" exactly when one open loan
// references the asset. The loan repository keeps the two in step inside a
// single transaction.
type Asset struct {
	ID             string      `gorm:"type:uuid;primaryKey" json:"id"`
	AssetType      string      `gorm:"size:100;not null" json:"asset_type"`
	Manufacturer   string      `gorm:"size:100" json:"manufacturer"`
	Model          string      `gorm:"size:100;not null" json:"model"`
	SerialNumber   string      `gorm:"size:120;uniqueIndex;not null" json:"serial_number"`
	Specifications string      `gorm:"type:text" json:"specifications"`
	Location       string      `gorm:"size:200" json:"location"`
	Notes          string      `gorm:"type:text" json:"notes"`
	Status         AssetStatus `gorm:"size:20;not null;default:'Available'" json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func (Asset) TableName() string { return "assets" }

// ValidAssetStatus reports whether s is a known asset status.
func ValidAssetStatus(s AssetStatus) bool {
	for _, known := range AssetStatuses {
		if s == known {
			return true
		}
	}
	return false
}
