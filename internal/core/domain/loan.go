package domain

import "time"

// LoanStatus is the lifecycle state of a loan record.
type LoanStatus string

const (
	LoanPending   LoanStatus = "Pending"
	LoanApproved  LoanStatus = "Approved"
	LoanActive    LoanStatus = "Active"
	LoanReturned  LoanStatus = "Returned"
	LoanCancelled LoanStatus = "Cancelled"
)

// OpenLoanStatuses are the states that count against an asset's availability.
// Pending and Approved exist in the schema and history filters but no handler
// currently produces them; there is no approval workflow.
var OpenLoanStatuses = []LoanStatus{LoanPending, LoanApproved, LoanActive}

// IsOpen reports whether the loan still holds its asset.
func (s LoanStatus) IsOpen() bool {
	for _, open := range OpenLoanStatuses {
		if s == open {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the loan has been closed. A terminal loan is
// never reopened.
func (s LoanStatus) IsTerminal() bool {
	return s == LoanReturned || s == LoanCancelled
}

// Loan is a time-boxed record of an asset lent to an external customer.
// Many loans may reference one asset over time, but at most one may be open.
type Loan struct {
	ID                 string     `gorm:"type:uuid;primaryKey" json:"id"`
	AssetID            string     `gorm:"type:uuid;index;not null" json:"asset_id"`
	CreatedByUserID    string     `gorm:"type:uuid;index;not null" json:"created_by_user_id"`
	RequestDate        time.Time  `gorm:"not null" json:"request_date"`
	StartDate          time.Time  `gorm:"not null" json:"start_date"`
	ExpectedReturnDate time.Time  `gorm:"not null" json:"expected_return_date"`
	ActualReturnDate   *time.Time `json:"actual_return_date,omitempty"`
	Purpose            string     `gorm:"type:text;not null" json:"purpose"`
	CustomerCompany    string     `gorm:"size:200;not null" json:"customer_company"`
	CustomerEmail      string     `gorm:"size:200" json:"customer_email"`
	Notes              string     `gorm:"type:text" json:"notes"`
	Status             LoanStatus `gorm:"size:20;index;not null" json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	Asset *Asset `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
}

func (Loan) TableName() string { return "loans" }

// AppendNote appends a line to a notes field, separating entries with a
// newline.
func AppendNote(notes, line string) string {
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}
