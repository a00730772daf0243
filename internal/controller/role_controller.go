package controller

import (
	"github.com/celaops/cela/internal/dto"
	"github.com/celaops/cela/internal/middleware"
	"github.com/celaops/cela/internal/service"
	"github.com/celaops/cela/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	pkgdto "github.com/celaops/cela/pkg/dto"
)

type RoleController struct {
	service service.RoleService
}

func CreateRoleController(g *echo.Group, svc service.RoleService, auth *middleware.AuthMiddleware) {
	rc := RoleController{service: svc}

	g.GET("/roles", rc.GetRoles, auth.RequireScopes("role:list"))
	g.POST("/roles", rc.AddRole, auth.RequireScopes("role:create"))
	g.GET("/roles/:id", rc.GetRole, auth.RequireScopes("role:info"))
	g.PUT("/roles/:id", rc.UpdateRole, auth.RequireScopes("role:update"))
	g.DELETE("/roles/:id", rc.DeleteRole, auth.RequireScopes("role:delete"))
	g.POST("/roles/:id/restore", rc.RestoreRole, auth.RequireScopes("role:delete"))
	g.DELETE("/roles/:id/purge", rc.ForceDeleteRole, auth.RequireScopes("role:delete"))
}

func (rc *RoleController) GetRoles(e echo.Context) error {
	filter := pkgdto.Filter{}
	if err := e.Bind(&filter); err != nil {
		log.Error().Err(err).Str("component", "GetRoles").Msg("")
	}

	roles, err := rc.service.GetRoles(e.Request().Context(), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", roles)
}

func (rc *RoleController) GetRole(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	role, err := rc.service.GetRole(e.Request().Context(), id, includeTrashed(e))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", role)
}

func (rc *RoleController) AddRole(e echo.Context) error {
	payload := dto.RoleRequest{}
	if err := e.Bind(&payload); err != nil {
		log.Error().Err(err).Str("component", "AddRole").Msg("")
	}

	role, err := rc.service.AddRole(e.Request().Context(), middleware.ClaimsFrom(e).UserID, payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", role)
}

func (rc *RoleController) UpdateRole(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	forms := []dto.UpdateForm{}
	if err := e.Bind(&forms); err != nil {
		log.Error().Err(err).Str("component", "UpdateRole").Msg("")
	}

	role, err := rc.service.UpdateRole(e.Request().Context(), id, forms)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", role)
}

func (rc *RoleController) DeleteRole(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	role, err := rc.service.DeleteRole(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", role)
}

func (rc *RoleController) RestoreRole(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	role, err := rc.service.RestoreRole(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", role)
}

func (rc *RoleController) ForceDeleteRole(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	role, err := rc.service.ForceDeleteRole(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", role)
}
