package handler

import (
	"time"

	"github.com/labops/server-loans/internal/core/domain"
	"github.com/labops/server-loans/internal/core/ports"
)

// dateLayout is the wire format of HTML date inputs.
const dateLayout = "2006-01-02"

type loginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type assetForm struct {
	AssetType      string `form:"asset_type" validate:"required"`
	Manufacturer   string `form:"manufacturer"`
	Model          string `form:"model" validate:"required"`
	SerialNumber   string `form:"serial_number" validate:"required"`
	Specifications string `form:"specifications"`
	Location       string `form:"location"`
	Notes          string `form:"notes"`
	Status         string `form:"status" validate:"omitempty,oneof=Available 'On Loan' Maintenance Retired"`
}

// asAsset maps the form onto a domain value for re-rendering after a
// validation failure.
func (f *assetForm) asAsset(id string) domain.Asset {
	return domain.Asset{
		ID:             id,
		AssetType:      f.AssetType,
		Manufacturer:   f.Manufacturer,
		Model:          f.Model,
		SerialNumber:   f.SerialNumber,
		Specifications: f.Specifications,
		Location:       f.Location,
		Notes:          f.Notes,
		Status:         domain.AssetStatus(f.Status),
	}
}

type loanForm struct {
	AssetID            string `form:"asset_id" validate:"required"`
	StartDate          string `form:"loan_start_date" validate:"required,datetime=2006-01-02"`
	ExpectedReturnDate string `form:"expected_return_date" validate:"required,datetime=2006-01-02"`
	CustomerCompany    string `form:"customer_company" validate:"required"`
	CustomerEmail      string `form:"customer_email" validate:"omitempty,email"`
	Purpose            string `form:"loan_purpose" validate:"required"`
	Notes              string `form:"internal_notes"`
}

func (f *loanForm) toInput(userID string) (ports.CreateLoanInput, error) {
	start, err := time.Parse(dateLayout, f.StartDate)
	if err != nil {
		return ports.CreateLoanInput{}, err
	}
	expected, err := time.Parse(dateLayout, f.ExpectedReturnDate)
	if err != nil {
		return ports.CreateLoanInput{}, err
	}
	return ports.CreateLoanInput{
		AssetID:            f.AssetID,
		CreatedByUserID:    userID,
		StartDate:          start,
		ExpectedReturnDate: expected,
		CustomerCompany:    f.CustomerCompany,
		CustomerEmail:      f.CustomerEmail,
		Purpose:            f.Purpose,
		Notes:              f.Notes,
	}, nil
}

type returnForm struct {
	ReturnDate string `form:"return_date" validate:"required,datetime=2006-01-02"`
	Notes      string `form:"return_notes"`
}

func (f *returnForm) toInput(loanID string) (ports.ReturnLoanInput, error) {
	ret, err := time.Parse(dateLayout, f.ReturnDate)
	if err != nil {
		return ports.ReturnLoanInput{}, err
	}
	return ports.ReturnLoanInput{LoanID: loanID, ReturnDate: ret, Notes: f.Notes}, nil
}

type cancelForm struct {
	Reason  string `form:"cancellation_reason" validate:"required"`
	Confirm string `form:"confirm_cancel" validate:"required"`
}
