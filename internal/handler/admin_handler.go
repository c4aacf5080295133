package handler

import (
	"net/http"

	"taxapi/internal/service"
	"taxapi/pkg/pagination"
	"taxapi/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the read-only operator view
type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin/taxes")
	{
		admin.GET("/", h.ListTaxes)
		admin.GET("/meta/", h.GetMeta)
		admin.GET("/:id/", h.GetTax)
	}
}

// GetMeta describes the listing columns, filters, search fields and fieldsets
// @Summary      Admin tax metadata
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.Response{data=service.AdminTaxMeta}
// @Router       /admin/taxes/meta/ [get]
func (h *AdminHandler) GetMeta(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.adminService.Meta()))
}

// ListTaxes returns one page of the operator listing
// @Summary      Admin tax listing
// @Tags         admin
// @Produce      json
// @Param        page        query     int     false  "Page number (default: 1)"
// @Param        limit       query     int     false  "Items per page (default: 20)"
// @Param        q           query     string  false  "Search name and description"
// @Param        tax_type    query     string  false  "Filter by type"
// @Param        is_active   query     bool    false  "Filter by active flag"
// @Param        created_at  query     string  false  "today, past_7_days, this_month, this_year"
// @Success      200         {object}  response.Response{data=[]service.AdminTaxRow}
// @Router       /admin/taxes/ [get]
func (h *AdminHandler) ListTaxes(c *gin.Context) {
	params := pagination.Parse(c)

	rows, total, err := h.adminService.ListTaxes(c.Request.Context(), service.AdminTaxQuery{
		TaxType:   c.Query("tax_type"),
		IsActive:  c.Query("is_active"),
		CreatedAt: c.Query("created_at"),
		Search:    c.Query("q"),
		Offset:    params.Offset,
		Limit:     params.Limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, rows, params.Page, params.Limit, total))
}

// GetTax returns one tax grouped by fieldset
// @Summary      Admin tax detail
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Tax ID"
// @Success      200  {object}  response.Response{data=service.AdminTaxDetail}
// @Failure      404  {object}  response.Response
// @Router       /admin/taxes/{id}/ [get]
func (h *AdminHandler) GetTax(c *gin.Context) {
	detail, err := h.adminService.GetTax(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, detail))
}
