package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/labops/server-loans/internal/api/metrics"
	"github.com/labops/server-loans/internal/core/domain"
	"github.com/labops/server-loans/internal/core/ports"
	"github.com/labops/server-loans/internal/web"
)

// AssetHandler serves the asset CRUD pages.
type AssetHandler struct {
	assets ports.AssetService
}

func NewAssetHandler(assets ports.AssetService) *AssetHandler {
	return &AssetHandler{assets: assets}
}

type assetListView struct {
	web.Page
	Assets   []domain.Asset
	Statuses []domain.AssetStatus
	Filter   ports.ListAssetsFilter
}

type assetFormView struct {
	web.Page
	Asset    domain.Asset
	Statuses []domain.AssetStatus
}

type assetDeleteView struct {
	web.Page
	Asset domain.Asset
}

// List renders the asset inventory with optional status/search filters.
func (h *AssetHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	filter := ports.ListAssetsFilter{
		Status: domain.AssetStatus(c.QueryParam("status")),
		Search: c.QueryParam("q"),
	}
	if filter.Status != "" && !domain.ValidAssetStatus(filter.Status) {
		filter.Status = ""
	}

	assets, err := h.assets.ListAssets(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	view := assetListView{Assets: assets, Statuses: domain.AssetStatuses, Filter: filter}
	view.Title = "Assets"
	view.Active = "assets"
	view.Session = sess
	if c.QueryParam("created") != "" {
		view.Success = "Asset created."
	}
	if c.QueryParam("updated") != "" {
		view.Success = "Asset updated."
	}
	if c.QueryParam("deleted") != "" {
		view.Success = "Asset deleted."
	}
	return c.Render(http.StatusOK, "assets_list.html", view)
}

// NewPage renders the empty add-asset form.
func (h *AssetHandler) NewPage(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	view := assetFormView{Statuses: domain.AssetStatuses}
	view.Title = "Add asset"
	view.Active = "assets"
	view.Session = sess
	return c.Render(http.StatusOK, "asset_form.html", view)
}

// Create handles the add-asset form submission.
func (h *AssetHandler) Create(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var form assetForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if err := c.Validate(&form); err != nil {
		metrics.ValidationFailuresTotal.WithLabelValues("asset").Inc()
		return h.renderForm(c, sess, form.asAsset(""), err.Error())
	}

	_, err = h.assets.CreateAsset(c.Request().Context(), ports.CreateAssetInput{
		AssetType:      form.AssetType,
		Manufacturer:   form.Manufacturer,
		Model:          form.Model,
		SerialNumber:   form.SerialNumber,
		Specifications: form.Specifications,
		Location:       form.Location,
		Notes:          form.Notes,
	})
	if err != nil {
		if domain.IsValidation(err) {
			metrics.ValidationFailuresTotal.WithLabelValues("asset").Inc()
			return h.renderForm(c, sess, form.asAsset(""), err.Error())
		}
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/assets?created=1")
}

// EditPage renders the edit form pre-filled with the current values.
func (h *AssetHandler) EditPage(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	asset, err := h.assets.GetAsset(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return h.renderForm(c, sess, *asset, "")
}

// Update handles the edit form submission, including the operator status
// override.
func (h *AssetHandler) Update(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id := c.Param("id")

	var form assetForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if err := c.Validate(&form); err != nil {
		metrics.ValidationFailuresTotal.WithLabelValues("asset").Inc()
		return h.renderForm(c, sess, form.asAsset(id), err.Error())
	}

	status := domain.AssetStatus(form.Status)
	if status == "" {
		status = domain.AssetAvailable
	}
	_, err = h.assets.UpdateAsset(c.Request().Context(), ports.UpdateAssetInput{
		ID:             id,
		AssetType:      form.AssetType,
		Manufacturer:   form.Manufacturer,
		Model:          form.Model,
		SerialNumber:   form.SerialNumber,
		Specifications: form.Specifications,
		Location:       form.Location,
		Notes:          form.Notes,
		Status:         status,
	})
	if err != nil {
		if domain.IsValidation(err) {
			metrics.ValidationFailuresTotal.WithLabelValues("asset").Inc()
			return h.renderForm(c, sess, form.asAsset(id), err.Error())
		}
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/assets?updated=1")
}

// DeletePage renders the delete confirmation.
func (h *AssetHandler) DeletePage(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	asset, err := h.assets.GetAsset(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	view := assetDeleteView{Asset: *asset}
	view.Title = "Delete asset"
	view.Active = "assets"
	view.Session = sess
	return c.Render(http.StatusOK, "asset_delete.html", view)
}

// Delete hard-deletes the asset unless an open loan blocks it.
func (h *AssetHandler) Delete(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id := c.Param("id")

	if err := h.assets.DeleteAsset(c.Request().Context(), id); err != nil {
		if domain.IsValidation(err) {
			asset, gerr := h.assets.GetAsset(c.Request().Context(), id)
			if gerr != nil {
				return gerr
			}
			view := assetDeleteView{Asset: *asset}
			view.Title = "Delete asset"
			view.Active = "assets"
			view.Session = sess
			view.Error = err.Error()
			return c.Render(http.StatusConflict, "asset_delete.html", view)
		}
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/assets?deleted=1")
}

func (h *AssetHandler) renderForm(c echo.Context, sess *domain.Session, asset domain.Asset, errMsg string) error {
	view := assetFormView{Asset: asset, Statuses: domain.AssetStatuses}
	if asset.ID == "" {
		view.Title = "Add asset"
	} else {
		view.Title = "Edit asset"
	}
	view.Active = "assets"
	view.Session = sess
	view.Error = errMsg
	code := http.StatusOK
	if errMsg != "" {
		code = http.StatusUnprocessableEntity
	}
	return c.Render(code, "asset_form.html", view)
}
