package handler

import (
	"strings"
	"testing"
	"time"
)

func TestValidator_LoanForm(t *testing.T) {
	v := NewValidator()

	valid := loanForm{
		AssetID:            "a1",
		StartDate:          "2026-08-01",
		ExpectedReturnDate: "2026-09-01",
		CustomerCompany:    "Acme GmbH",
		Purpose:            "staging cluster",
	}
	if err := v.Validate(&valid); err != nil {
		t.Fatalf("valid form rejected: %v", err)
	}

	cases := []struct {
		name    string
		mutate  func(*loanForm)
		wantMsg string
	}{
		{"missing asset", func(f *loanForm) { f.AssetID = "" }, "assetid is required"},
		{"bad start date", func(f *loanForm) { f.StartDate = "01.08.2026" }, "YYYY-MM-DD"},
		{"bad return date", func(f *loanForm) { f.ExpectedReturnDate = "soon" }, "YYYY-MM-DD"},
		{"missing company", func(f *loanForm) { f.CustomerCompany = "" }, "customercompany is required"},
		{"missing purpose", func(f *loanForm) { f.Purpose = "" }, "purpose is required"},
		{"bad email", func(f *loanForm) { f.CustomerEmail = "not-an-email" }, "valid email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := valid
			tc.mutate(&form)
			err := v.Validate(&form)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("message %q does not mention %q", err.Error(), tc.wantMsg)
			}
		})
	}
}

func TestValidator_AssetFormStatus(t *testing.T) {
	v := NewValidator()

	form := assetForm{AssetType: "Server", Model: "R750", SerialNumber: "SN-1"}
	if err := v.Validate(&form); err != nil {
		t.Fatalf("empty status must be allowed: %v", err)
	}

	form.Status = "On Loan"
	if err := v.Validate(&form); err != nil {
		t.Fatalf("known status rejected: %v", err)
	}

	form.Status = "Broken"
	if err := v.Validate(&form); err == nil {
		t.Fatal("unknown status must be rejected")
	}
}

func TestValidator_CancelFormRequiresConfirmation(t *testing.T) {
	v := NewValidator()

	form := cancelForm{Reason: "customer withdrew"}
	if err := v.Validate(&form); err == nil {
		t.Fatal("missing confirmation must be rejected")
	}

	form.Confirm = "1"
	if err := v.Validate(&form); err != nil {
		t.Fatalf("confirmed form rejected: %v", err)
	}
}

func TestLoanForm_ToInput(t *testing.T) {
	form := loanForm{
		AssetID:            "a1",
		StartDate:          "2026-08-01",
		ExpectedReturnDate: "2026-09-01",
		CustomerCompany:    "Acme GmbH",
		Purpose:            "staging cluster",
	}

	input, err := form.toInput("u1")
	if err != nil {
		t.Fatalf("toInput: %v", err)
	}
	if input.CreatedByUserID != "u1" {
		t.Fatalf("user id not carried: %q", input.CreatedByUserID)
	}
	want := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if !input.StartDate.Equal(want) {
		t.Fatalf("start date = %v, want %v", input.StartDate, want)
	}
	if !input.StartDate.Before(input.ExpectedReturnDate) {
		t.Fatal("parsed dates out of order")
	}

	form.StartDate = "2026-13-40"
	if _, err := form.toInput("u1"); err == nil {
		t.Fatal("expected an error for an impossible date")
	}
}
