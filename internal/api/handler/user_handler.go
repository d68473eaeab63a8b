package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/multidisease/platform-api/internal/core/domain"
	"github.com/multidisease/platform-api/internal/core/ports"
)

type UserHandler struct {
	authService ports.AuthService
}

func NewUserHandler(authService ports.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// Me returns the identity of the authenticated caller.
//
// @Summary   Current user
// @Tags      users
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  domain.Identity
// @Failure   401  {object}  errorResponse
// @Router    /api/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, id)
}

// Roles lists the role catalogue.
//
// @Summary   List roles
// @Tags      users
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  rolesResponse
// @Router    /api/users/roles [get]
func (h *UserHandler) Roles(c echo.Context) error {
	return c.JSON(http.StatusOK, rolesResponse{Roles: domain.RoleCatalogue()})
}

// Create opens a new account with the given roles.
//
// @Summary   Create user
// @Tags      users
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      createUserRequest  true  "New user"
// @Success   201   {object}  userResponse
// @Failure   400   {object}  errorResponse
// @Failure   403   {object}  errorResponse
// @Failure   409   {object}  errorResponse
// @Router    /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var roles domain.RoleSet
	for _, name := range req.Roles {
		// validated by the "role" tag
		r, _ := domain.ParseRole(name)
		roles = roles.Add(r)
	}

	user, err := h.authService.CreateUser(c.Request().Context(), ports.CreateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Roles:     roles,
	})
	if err != nil {
		return err
	}

	effective, _ := user.EffectiveRoles(time.Now())
	return c.JSON(http.StatusCreated, toUserResponse(user, effective))
}
