package controller

import (
	"github.com/celaops/cela/internal/dto"
	"github.com/celaops/cela/internal/middleware"
	"github.com/celaops/cela/internal/service"
	"github.com/celaops/cela/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type AuthController struct {
	service service.AuthService
}

func CreateAuthController(g *echo.Group, svc service.AuthService, auth *middleware.AuthMiddleware) {
	ac := AuthController{service: svc}

	g.GET("/auth/init", ac.Init)
	g.POST("/auth/login", ac.Login)
	g.GET("/auth/me", ac.Me, auth.RequireScopes("auth:me"))
	g.PUT("/auth/change_password", ac.ChangePassword, auth.RequireScopes("auth:me"))
	g.POST("/auth/renew", ac.Renew, auth.RequireScopes("auth:me"))
	g.GET("/auth/scopes", ac.Scopes, auth.RequireScopes("auth:me"))
}

func (ac *AuthController) Init(e echo.Context) error {
	if err := ac.service.Bootstrap(e.Request().Context()); err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Inited successfully, login with the default admin credentials and change the password.", nil)
}

func (ac *AuthController) Login(e echo.Context) error {
	payload := dto.LoginRequest{}
	if err := e.Bind(&payload); err != nil {
		log.Error().Err(err).Str("component", "Login").Msg("")
	}

	resp, err := ac.service.Login(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (ac *AuthController) Me(e echo.Context) error {
	resp, err := ac.service.Me(e.Request().Context(), middleware.ClaimsFrom(e))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (ac *AuthController) ChangePassword(e echo.Context) error {
	payload := dto.ChangePasswordRequest{}
	if err := e.Bind(&payload); err != nil {
		log.Error().Err(err).Str("component", "ChangePassword").Msg("")
	}

	err := ac.service.ChangePassword(e.Request().Context(), middleware.ClaimsFrom(e), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", nil)
}

func (ac *AuthController) Renew(e echo.Context) error {
	resp, err := ac.service.Renew(e.Request().Context(), middleware.ClaimsFrom(e))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (ac *AuthController) Scopes(e echo.Context) error {
	return response.WriteSuccessResponse(e, "", Scopes)
}
