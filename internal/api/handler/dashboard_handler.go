package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/labops/server-loans/internal/core/ports"
	"github.com/labops/server-loans/internal/web"
)

// DashboardHandler serves the landing page.
type DashboardHandler struct {
	loans ports.LoanService
}

func NewDashboardHandler(loans ports.LoanService) *DashboardHandler {
	return &DashboardHandler{loans: loans}
}

type dashboardView struct {
	web.Page
	Counts *ports.DashboardCounts
}

func (h *DashboardHandler) Index(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	counts, err := h.loans.DashboardCounts(c.Request().Context())
	if err != nil {
		return err
	}
	view := dashboardView{Counts: counts}
	view.Title = "Dashboard"
	view.Active = "dashboard"
	view.Session = sess
	return c.Render(http.StatusOK, "dashboard.html", view)
}
