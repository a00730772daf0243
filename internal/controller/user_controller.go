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

type UserController struct {
	service service.UserService
	custody service.CustodyService
}

func CreateUserController(g *echo.Group, svc service.UserService, custody service.CustodyService, auth *middleware.AuthMiddleware) {
	uc := UserController{service: svc, custody: custody}

	g.GET("/users", uc.GetUsers, auth.RequireScopes("user:list"))
	g.POST("/users", uc.AddUser, auth.RequireScopes("user:create"))
	g.GET("/users/:id", uc.GetUser, auth.RequireScopes("user:info"))
	g.PUT("/users/:id", uc.UpdateUser, auth.RequireScopes("user:update"))
	g.DELETE("/users/:id", uc.DeleteUser, auth.RequireScopes("user:delete"))
	g.POST("/users/:id/restore", uc.RestoreUser, auth.RequireScopes("user:delete"))
	g.DELETE("/users/:id/purge", uc.ForceDeleteUser, auth.RequireScopes("user:delete"))
	g.GET("/users/:id/role_history", uc.RoleHistory, auth.RequireScopes("user_has_role:list"))
}

func (uc *UserController) GetUsers(e echo.Context) error {
	filter := pkgdto.Filter{}
	if err := e.Bind(&filter); err != nil {
		log.Error().Err(err).Str("component", "GetUsers").Msg("")
	}

	users, pagination, err := uc.service.GetUsers(e.Request().Context(), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", response.DataWithPaginationResponse{Data: users, Pagination: pagination})
}

func (uc *UserController) GetUser(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	user, err := uc.service.GetUser(e.Request().Context(), id, includeTrashed(e))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", user)
}

func (uc *UserController) AddUser(e echo.Context) error {
	payload := dto.UserRequest{}
	if err := e.Bind(&payload); err != nil {
		log.Error().Err(err).Str("component", "AddUser").Msg("")
	}

	user, err := uc.service.AddUser(e.Request().Context(), middleware.ClaimsFrom(e).UserID, payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", user)
}

func (uc *UserController) UpdateUser(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	forms := []dto.UpdateForm{}
	if err := e.Bind(&forms); err != nil {
		log.Error().Err(err).Str("component", "UpdateUser").Msg("")
	}

	user, err := uc.service.UpdateUser(e.Request().Context(), id, forms)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", user)
}

func (uc *UserController) DeleteUser(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	user, err := uc.service.DeleteUser(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", user)
}

func (uc *UserController) RestoreUser(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	user, err := uc.service.RestoreUser(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", user)
}

func (uc *UserController) ForceDeleteUser(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	user, err := uc.service.ForceDeleteUser(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", user)
}

func (uc *UserController) RoleHistory(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	history, err := uc.custody.RoleHistory(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", history)
}
