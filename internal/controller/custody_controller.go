package controller

import (
	"github.com/celaops/cela/internal/dto"
	"github.com/celaops/cela/internal/middleware"
	"github.com/celaops/cela/internal/service"
	"github.com/celaops/cela/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type CustodyController struct {
	service service.CustodyService
}

func CreateCustodyController(g *echo.Group, svc service.CustodyService, auth *middleware.AuthMiddleware) {
	cc := CustodyController{service: svc}

	g.POST("/custody/checkout", cc.Checkout, auth.RequireScopes("user_has_device:create"))
	g.POST("/custody/return", cc.Return, auth.RequireScopes("user_has_device:delete"))
	g.POST("/custody/roles", cc.GrantRole, auth.RequireScopes("user_has_role:create"))
	g.DELETE("/custody/users/:user_id/roles/:role_id", cc.RevokeRole, auth.RequireScopes("user_has_role:delete"))
}

func (cc *CustodyController) Checkout(e echo.Context) error {
	payload := dto.CheckoutRequest{}
	if err := e.Bind(&payload); err != nil {
		log.Error().Err(err).Str("component", "Checkout").Msg("")
	}

	assignment, err := cc.service.Checkout(e.Request().Context(), middleware.ClaimsFrom(e).UserID, payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", assignment)
}

func (cc *CustodyController) Return(e echo.Context) error {
	payload := dto.ReturnRequest{}
	if err := e.Bind(&payload); err != nil {
		log.Error().Err(err).Str("component", "Return").Msg("")
	}

	assignment, err := cc.service.Return(e.Request().Context(), middleware.ClaimsFrom(e).UserID, payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", assignment)
}

func (cc *CustodyController) GrantRole(e echo.Context) error {
	payload := dto.GrantRoleRequest{}
	if err := e.Bind(&payload); err != nil {
		log.Error().Err(err).Str("component", "GrantRole").Msg("")
	}

	assignment, err := cc.service.GrantRole(e.Request().Context(), middleware.ClaimsFrom(e).UserID, payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", assignment)
}

func (cc *CustodyController) RevokeRole(e echo.Context) error {
	userID, err := pathID(e, "user_id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}
	roleID, err := pathID(e, "role_id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	revoked, err := cc.service.RevokeRole(e.Request().Context(), userID, roleID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", revoked)
}
