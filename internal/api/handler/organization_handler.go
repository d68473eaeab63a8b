package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/multidisease/platform-api/internal/core/domain"
	"github.com/multidisease/platform-api/internal/core/ports"
)

type OrganizationHandler struct {
	service ports.OrganizationService
}

func NewOrganizationHandler(service ports.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{service: service}
}

// List returns a page of organizations.
//
// @Summary   List organizations
// @Tags      organizations
// @Produce   json
// @Security  BearerAuth
// @Param     type   query     string  false  "HOSPITAL or SERVICE_DESK"
// @Param     page   query     int     false  "Page (1-based)"
// @Param     limit  query     int     false  "Page size (max 100)"
// @Success   200    {object}  listOrganizationsResponse
// @Failure   400    {object}  errorResponse
// @Failure   401    {object}  errorResponse
// @Failure   403    {object}  errorResponse
// @Router    /api/organizations [get]
func (h *OrganizationHandler) List(c echo.Context) error {
	var q listOrganizationsQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.ListOrganizations(c.Request().Context(), ports.ListOrganizationsFilter{
		Type:  domain.OrganizationType(q.Type),
		Page:  q.Page,
		Limit: q.Limit,
	})
	if err != nil {
		return err
	}

	data := res.Items
	if data == nil {
		data = []*domain.Organization{}
	}
	return c.JSON(http.StatusOK, listOrganizationsResponse{
		Data: data,
		Pagination: paginationResponse{
			Total:      res.Total,
			Page:       res.Page,
			Limit:      res.Limit,
			TotalPages: res.TotalPages,
		},
	})
}

// Create registers an organization.
//
// @Summary   Create organization
// @Tags      organizations
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      createOrganizationRequest  true  "Organization"
// @Success   201   {object}  domain.Organization
// @Failure   400   {object}  errorResponse
// @Failure   401   {object}  errorResponse
// @Failure   403   {object}  errorResponse
// @Router    /api/organizations [post]
func (h *OrganizationHandler) Create(c echo.Context) error {
	var req createOrganizationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	caller, err := currentIdentity(c)
	if err != nil {
		return err
	}

	org, err := h.service.CreateOrganization(c.Request().Context(), ports.CreateOrganizationInput{
		Name:          req.Name,
		Type:          domain.OrganizationType(req.Type),
		Address:       req.Address,
		Phone:         req.Phone,
		Email:         req.Email,
		Website:       req.Website,
		ServiceDeskID: req.ServiceDeskID,
		CreatedBy:     caller.ID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, org)
}

// Get returns one organization.
//
// @Summary   Get organization
// @Tags      organizations
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "Organization ID"
// @Success   200  {object}  domain.Organization
// @Failure   404  {object}  errorResponse
// @Router    /api/organizations/{id} [get]
func (h *OrganizationHandler) Get(c echo.Context) error {
	org, err := h.service.GetOrganization(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, org)
}

// Update applies a partial update to an organization.
//
// @Summary   Update organization
// @Tags      organizations
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      string                     true  "Organization ID"
// @Param     body  body      updateOrganizationRequest  true  "Fields to change"
// @Success   200   {object}  domain.Organization
// @Failure   400   {object}  errorResponse
// @Failure   404   {object}  errorResponse
// @Router    /api/organizations/{id} [put]
func (h *OrganizationHandler) Update(c echo.Context) error {
	var req updateOrganizationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	org, err := h.service.UpdateOrganization(c.Request().Context(), c.Param("id"), ports.OrganizationUpdate{
		Name:          req.Name,
		Address:       req.Address,
		Phone:         req.Phone,
		Email:         req.Email,
		Website:       req.Website,
		ServiceDeskID: req.ServiceDeskID,
		IsActive:      req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, org)
}

// ServiceDesks lists every service desk, for hospital assignment.
//
// @Summary   List service desks
// @Tags      organizations
// @Produce   json
// @Security  BearerAuth
// @Success   200  {array}   domain.Organization
// @Router    /api/organizations/service-desks [get]
func (h *OrganizationHandler) ServiceDesks(c echo.Context) error {
	desks, err := h.service.ListServiceDesks(c.Request().Context())
	if err != nil {
		return err
	}
	if desks == nil {
		desks = []*domain.Organization{}
	}
	return c.JSON(http.StatusOK, desks)
}
