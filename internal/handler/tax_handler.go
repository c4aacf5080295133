package handler

import (
	"errors"
	"net/http"

	"taxapi/internal/service"
	"taxapi/pkg/response"

	"github.com/gin-gonic/gin"
)

type TaxHandler struct {
	taxService service.TaxService
}

func NewTaxHandler(taxService service.TaxService) *TaxHandler {
	return &TaxHandler{taxService: taxService}
}

func (h *TaxHandler) RegisterRoutes(router *gin.RouterGroup) {
	taxes := router.Group("/api/taxes")
	{
		taxes.GET("/", h.ListTaxes)
		taxes.POST("/", h.CreateTax)
		taxes.GET("/summary/", h.GetSummary)
		taxes.POST("/calculate/", h.CalculateTax)
		taxes.GET("/:id/", h.GetTax)
		taxes.PUT("/:id/", h.UpdateTax)
		taxes.PATCH("/:id/", h.PartialUpdateTax)
		taxes.DELETE("/:id/", h.DeleteTax)
		taxes.POST("/:id/toggle_active/", h.ToggleActive)
	}
}

// ListTaxes returns taxes newest first
// @Summary      List taxes
// @Tags         taxes
// @Produce      json
// @Param        is_active  query     bool    false  "Filter by active flag"
// @Param        tax_type   query     string  false  "Filter by type: income, sales, property, corporate, vat, other"
// @Success      200        {object}  response.Response{data=[]service.TaxResponse}
// @Router       /api/taxes/ [get]
func (h *TaxHandler) ListTaxes(c *gin.Context) {
	taxes, err := h.taxService.ListTaxes(c.Request.Context(), listQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, taxes))
}

// CreateTax creates a new tax record
// @Summary      Create tax
// @Tags         taxes
// @Accept       json
// @Produce      json
// @Param        payload  body      service.TaxRequest  true  "Tax payload"
// @Success      201      {object}  response.Response{data=service.TaxResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/taxes/ [post]
func (h *TaxHandler) CreateTax(c *gin.Context) {
	req, ok := bindTaxRequest(c)
	if !ok {
		return
	}

	tax, err := h.taxService.CreateTax(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, tax))
}

// GetTax returns one tax
// @Summary      Get tax
// @Tags         taxes
// @Produce      json
// @Param        id   path      string  true  "Tax ID"
// @Success      200  {object}  response.Response{data=service.TaxResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/taxes/{id}/ [get]
func (h *TaxHandler) GetTax(c *gin.Context) {
	tax, err := h.taxService.GetTax(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tax))
}

// UpdateTax replaces a tax; name, tax_type and rate are required
// @Summary      Update tax
// @Tags         taxes
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Tax ID"
// @Param        payload  body      service.TaxRequest  true  "Tax payload"
// @Success      200      {object}  response.Response{data=service.TaxResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/taxes/{id}/ [put]
func (h *TaxHandler) UpdateTax(c *gin.Context) {
	h.update(c, false)
}

// PartialUpdateTax changes only the fields present in the body
// @Summary      Partially update tax
// @Tags         taxes
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Tax ID"
// @Param        payload  body      service.TaxRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=service.TaxResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/taxes/{id}/ [patch]
func (h *TaxHandler) PartialUpdateTax(c *gin.Context) {
	h.update(c, true)
}

func (h *TaxHandler) update(c *gin.Context, partial bool) {
	req, ok := bindTaxRequest(c)
	if !ok {
		return
	}

	tax, err := h.taxService.UpdateTax(c.Request.Context(), c.Param("id"), req, partial)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tax))
}

// DeleteTax removes a tax permanently
// @Summary      Delete tax
// @Tags         taxes
// @Param        id   path  string  true  "Tax ID"
// @Success      204
// @Failure      404  {object}  response.Response
// @Router       /api/taxes/{id}/ [delete]
func (h *TaxHandler) DeleteTax(c *gin.Context) {
	if err := h.taxService.DeleteTax(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetSummary aggregates the filtered taxes
// @Summary      Tax summary
// @Tags         taxes
// @Produce      json
// @Param        is_active  query     bool    false  "Filter by active flag"
// @Param        tax_type   query     string  false  "Filter by type"
// @Success      200        {object}  response.Response{data=service.TaxSummaryResponse}
// @Router       /api/taxes/summary/ [get]
func (h *TaxHandler) GetSummary(c *gin.Context) {
	summary, err := h.taxService.GetSummary(c.Request.Context(), listQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// ToggleActive flips is_active and returns the updated tax
// @Summary      Toggle active flag
// @Tags         taxes
// @Produce      json
// @Param        id   path      string  true  "Tax ID"
// @Success      200  {object}  response.Response{data=service.TaxResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/taxes/{id}/toggle_active/ [post]
func (h *TaxHandler) ToggleActive(c *gin.Context) {
	tax, err := h.taxService.ToggleActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tax))
}

// CalculateTax previews amount * rate / 100 without storing anything
// @Summary      Calculate tax
// @Tags         taxes
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CalculateTaxRequest  true  "Amount and rate"
// @Success      200      {object}  response.Response{data=service.CalculateTaxResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/taxes/calculate/ [post]
func (h *TaxHandler) CalculateTax(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		invalidPayload(c, err)
		return
	}
	req, err := service.DecodeCalculateTaxRequest(body)
	if err != nil {
		bindError(c, err)
		return
	}

	res, err := h.taxService.Calculate(req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// bindTaxRequest writes the 400 itself and reports false when the body cannot be used
func bindTaxRequest(c *gin.Context) (service.TaxRequest, bool) {
	body, err := c.GetRawData()
	if err != nil {
		invalidPayload(c, err)
		return service.TaxRequest{}, false
	}
	req, err := service.DecodeTaxRequest(body)
	if err != nil {
		bindError(c, err)
		return service.TaxRequest{}, false
	}
	return req, true
}

// bindError sends field type errors with their details and anything else as a malformed body
func bindError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		writeError(c, err)
		return
	}
	invalidPayload(c, err)
}

func invalidPayload(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
}

func listQuery(c *gin.Context) service.TaxListQuery {
	return service.TaxListQuery{
		IsActive: c.Query("is_active"),
		TaxType:  c.Query("tax_type"),
	}
}

// writeError maps service errors onto status codes
func writeError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, response.ValidationError(http.StatusBadRequest, "Validation failed", vErr.Fields))
	case errors.Is(err, service.ErrTaxNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Tax not found"))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	}
}
