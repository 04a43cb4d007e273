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

type RequestHandler struct {
	requestService service.RequestService
}

// NewRequestHandler sets up the routing dependencies for request endpoints
func NewRequestHandler(requestService service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	requests := router.Group("/requests", auth)
	{
		requests.POST("", h.CreateRequest)
		requests.GET("/pending", h.ListPendingRequests)
		requests.GET("/user", h.ListOwnRequests)
		requests.PATCH("/:id", h.DecideRequest)
	}
}

// CreateRequest handles POST /requests
// @Summary      Create access request
// @Description  Creates a pending access request against a catalog entry (employee only)
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateRequestDTO  true  "Request Payload"
// @Success      201      {object}  response.Response{data=service.RequestResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /requests [post]
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authentication required"))
		return
	}

	var req service.CreateRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requestService.CreateRequest(c.Request.Context(), principal, req)
	if err != nil {
		status := apperror.Status(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListPendingRequests handles GET /requests/pending
// @Summary      List pending requests
// @Description  Lists all pending requests with requester and software details (manager/admin only)
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=response.Page}
// @Failure      403    {object}  response.Response
// @Router       /requests/pending [get]
func (h *RequestHandler) ListPendingRequests(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authentication required"))
		return
	}

	params := pagination.Parse(c)
	requests, total, err := h.requestService.ListPendingRequests(c.Request.Context(), principal, params.Page, params.Limit)
	if err != nil {
		status := apperror.Status(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, requests, total, params.Page, params.Limit))
}

// ListOwnRequests handles GET /requests/user
// @Summary      List own requests
// @Description  Lists the authenticated user's access requests
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=response.Page}
// @Failure      401    {object}  response.Response
// @Router       /requests/user [get]
func (h *RequestHandler) ListOwnRequests(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authentication required"))
		return
	}

	params := pagination.Parse(c)
	requests, total, err := h.requestService.ListOwnRequests(c.Request.Context(), principal, params.Page, params.Limit)
	if err != nil {
		status := apperror.Status(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, requests, total, params.Page, params.Limit))
}

// DecideRequest handles PATCH /requests/:id
// @Summary      Decide request
// @Description  Approves or rejects a pending request (manager/admin only); deciding an already-decided request returns 409
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                    true  "Request ID"
// @Param        payload  body      service.DecideRequestDTO  true  "Decision Payload"
// @Success      200      {object}  response.Response{data=service.RequestResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /requests/{id} [patch]
func (h *RequestHandler) DecideRequest(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authentication required"))
		return
	}

	var req service.DecideRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requestService.DecideRequest(c.Request.Context(), principal, c.Param("id"), req)
	if err != nil {
		status := apperror.Status(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
