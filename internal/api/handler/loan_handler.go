package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/labops/server-loans/internal/api/metrics"
	"github.com/labops/server-loans/internal/core/domain"
	"github.com/labops/server-loans/internal/core/ports"
	"github.com/labops/server-loans/internal/web"
)

// LoanHandler serves the loan lifecycle pages.
type LoanHandler struct {
	loans  ports.LoanService
	assets ports.AssetService
}

func NewLoanHandler(loans ports.LoanService, assets ports.AssetService) *LoanHandler {
	return &LoanHandler{loans: loans, assets: assets}
}

type loanListView struct {
	web.Page
	Loans    []domain.Loan
	Statuses []domain.LoanStatus
	Filter   ports.ListLoansFilter
}

type loanFormView struct {
	web.Page
	Assets []domain.Asset
	Form   loanForm
}

type loanDetailView struct {
	web.Page
	Loan domain.Loan
}

type loanReturnView struct {
	web.Page
	Loan domain.Loan
	Form returnForm
}

type loanCancelView struct {
	web.Page
	Loan domain.Loan
	Form cancelForm
}

var loanHistoryStatuses = []domain.LoanStatus{
	domain.LoanPending,
	domain.LoanApproved,
	domain.LoanActive,
	domain.LoanReturned,
	domain.LoanCancelled,
}

// Active lists loans currently holding an asset.
func (h *LoanHandler) Active(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	loans, err := h.loans.ListLoans(c.Request().Context(), ports.ListLoansFilter{Status: domain.LoanActive})
	if err != nil {
		return err
	}
	view := loanListView{Loans: loans}
	view.Title = "Active loans"
	view.Active = "loans"
	view.Session = sess
	if c.QueryParam("created") != "" {
		view.Success = "Loan recorded; asset is now On Loan."
	}
	if c.QueryParam("returned") != "" {
		view.Success = "Loan returned; asset is Available again."
	}
	if c.QueryParam("cancelled") != "" {
		view.Success = "Loan cancelled; asset is Available again."
	}
	return c.Render(http.StatusOK, "loans_active.html", view)
}

// History lists all loans with an optional status filter. Pending and
// Approved appear in the filter for completeness even though no handler
// currently produces them.
func (h *LoanHandler) History(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	filter := ports.ListLoansFilter{Status: domain.LoanStatus(c.QueryParam("status"))}
	loans, err := h.loans.ListLoans(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	view := loanListView{Loans: loans, Statuses: loanHistoryStatuses, Filter: filter}
	view.Title = "Loan history"
	view.Active = "history"
	view.Session = sess
	return c.Render(http.StatusOK, "loans_history.html", view)
}

// NewPage renders the record-loan form listing the available assets.
func (h *LoanHandler) NewPage(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	return h.renderNew(c, sess, loanForm{StartDate: time.Now().UTC().Format(dateLayout)}, "", http.StatusOK)
}

// Create handles the record-loan submission. The availability check and the
// dual write happen atomically in the repository; a lost race surfaces here
// as a validation error with nothing written.
func (h *LoanHandler) Create(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var form loanForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if err := c.Validate(&form); err != nil {
		metrics.ValidationFailuresTotal.WithLabelValues("loan").Inc()
		return h.renderNew(c, sess, form, err.Error(), http.StatusUnprocessableEntity)
	}

	input, err := form.toInput(sess.UserID)
	if err != nil {
		metrics.ValidationFailuresTotal.WithLabelValues("loan").Inc()
		return h.renderNew(c, sess, form, "Dates must be in YYYY-MM-DD format.", http.StatusUnprocessableEntity)
	}

	if _, err := h.loans.CreateLoan(c.Request().Context(), input); err != nil {
		if domain.IsValidation(err) {
			metrics.ValidationFailuresTotal.WithLabelValues("loan").Inc()
			return h.renderNew(c, sess, form, err.Error(), http.StatusUnprocessableEntity)
		}
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/loans/active?created=1")
}

// View renders a single loan with its full details.
func (h *LoanHandler) View(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	loan, err := h.loans.GetLoan(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	view := loanDetailView{Loan: *loan}
	view.Title = "Loan details"
	view.Active = "loans"
	view.Session = sess
	return c.Render(http.StatusOK, "loan_view.html", view)
}

// ReturnPage renders the return form for an active loan.
func (h *LoanHandler) ReturnPage(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	loan, err := h.activeLoan(c)
	if err != nil {
		return err
	}
	form := returnForm{ReturnDate: time.Now().UTC().Format(dateLayout)}
	return h.renderReturn(c, sess, *loan, form, "", http.StatusOK)
}

// Return handles the return submission.
func (h *LoanHandler) Return(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	loan, err := h.activeLoan(c)
	if err != nil {
		return err
	}

	var form returnForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if err := c.Validate(&form); err != nil {
		metrics.ValidationFailuresTotal.WithLabelValues("return").Inc()
		return h.renderReturn(c, sess, *loan, form, err.Error(), http.StatusUnprocessableEntity)
	}

	input, err := form.toInput(loan.ID)
	if err != nil {
		metrics.ValidationFailuresTotal.WithLabelValues("return").Inc()
		return h.renderReturn(c, sess, *loan, form, "Return date must be in YYYY-MM-DD format.", http.StatusUnprocessableEntity)
	}

	if _, err := h.loans.ReturnLoan(c.Request().Context(), input); err != nil {
		if domain.IsValidation(err) {
			metrics.ValidationFailuresTotal.WithLabelValues("return").Inc()
			return h.renderReturn(c, sess, *loan, form, err.Error(), http.StatusUnprocessableEntity)
		}
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/loans/active?returned=1")
}

// CancelPage renders the cancel confirmation for an active loan.
func (h *LoanHandler) CancelPage(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	loan, err := h.activeLoan(c)
	if err != nil {
		return err
	}
	return h.renderCancel(c, sess, *loan, cancelForm{}, "", http.StatusOK)
}

// Cancel handles the cancel submission. A reason and an explicit
// confirmation are both required.
func (h *LoanHandler) Cancel(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	loan, err := h.activeLoan(c)
	if err != nil {
		return err
	}

	var form cancelForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if err := c.Validate(&form); err != nil {
		metrics.ValidationFailuresTotal.WithLabelValues("cancel").Inc()
		return h.renderCancel(c, sess, *loan, form, err.Error(), http.StatusUnprocessableEntity)
	}

	if _, err := h.loans.CancelLoan(c.Request().Context(), ports.CancelLoanInput{
		LoanID: loan.ID,
		Reason: form.Reason,
	}); err != nil {
		if domain.IsValidation(err) {
			metrics.ValidationFailuresTotal.WithLabelValues("cancel").Inc()
			return h.renderCancel(c, sess, *loan, form, err.Error(), http.StatusUnprocessableEntity)
		}
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/loans/active?cancelled=1")
}

// activeLoan loads the loan from the path parameter and verifies it is still
// open for lifecycle actions.
func (h *LoanHandler) activeLoan(c echo.Context) (*domain.Loan, error) {
	loan, err := h.loans.GetLoan(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanActive {
		return nil, echo.NewHTTPError(http.StatusConflict, "loan is not active")
	}
	return loan, nil
}

func (h *LoanHandler) renderNew(c echo.Context, sess *domain.Session, form loanForm, errMsg string, code int) error {
	available, err := h.assets.ListAvailableAssets(c.Request().Context())
	if err != nil {
		return err
	}
	view := loanFormView{Assets: available, Form: form}
	view.Title = "Record loan"
	view.Active = "loan-new"
	view.Session = sess
	view.Error = errMsg
	return c.Render(code, "loan_form.html", view)
}

func (h *LoanHandler) renderReturn(c echo.Context, sess *domain.Session, loan domain.Loan, form returnForm, errMsg string, code int) error {
	view := loanReturnView{Loan: loan, Form: form}
	view.Title = "Return loan"
	view.Active = "loans"
	view.Session = sess
	view.Error = errMsg
	return c.Render(code, "loan_return.html", view)
}

func (h *LoanHandler) renderCancel(c echo.Context, sess *domain.Session, loan domain.Loan, form cancelForm, errMsg string, code int) error {
	view := loanCancelView{Loan: loan, Form: form}
	view.Title = "Cancel loan"
	view.Active = "loans"
	view.Session = sess
	view.Error = errMsg
	return c.Render(code, "loan_cancel.html", view)
}
