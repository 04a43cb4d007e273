package handler

import (
	"net/http"

	"accesshub/internal/middleware"
	"accesshub/internal/service"
	"accesshub/pkg/apperror"
	"accesshub/pkg/pagination"
	"accesshub/pkg/response"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

// NewCatalogHandler sets up the routing dependencies for catalog endpoints
func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	software := router.Group("/software", auth)
	{
		software.POST("", h.RegisterSoftware)
		software.GET("", h.ListSoftware)
	}
}

// RegisterSoftware handles POST /software
// @Summary      Register software
// @Description  Registers a new catalog entry with its permitted access levels (admin only)
// @Tags         software
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.RegisterSoftwareRequest  true  "Software Payload"
// @Success      201      {object}  response.Response{data=service.SoftwareResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /software [post]
func (h *CatalogHandler) RegisterSoftware(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authentication required"))
		return
	}

	var req service.RegisterSoftwareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	software, err := h.catalogService.RegisterSoftware(c.Request.Context(), principal, req)
	if err != nil {
		status := apperror.Status(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, software))
}

// ListSoftware handles GET /software
// @Summary      List software
// @Description  Lists all registered catalog entries
// @Tags         software
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=response.Page}
// @Failure      401    {object}  response.Response
// @Router       /software [get]
func (h *CatalogHandler) ListSoftware(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authentication required"))
		return
	}

	params := pagination.Parse(c)
	entries, total, err := h.catalogService.ListSoftware(c.Request.Context(), principal, params.Page, params.Limit)
	if err != nil {
		status := apperror.Status(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, entries, total, params.Page, params.Limit))
}
