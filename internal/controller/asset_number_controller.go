package controller

import (
	"github.com/celaops/cela/internal/middleware"
	"github.com/celaops/cela/internal/service"
	"github.com/celaops/cela/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	pkgdto "github.com/celaops/cela/pkg/dto"
)

type AssetNumberController struct {
	service service.AssetRegistryService
}

func CreateAssetNumberController(g *echo.Group, svc service.AssetRegistryService, auth *middleware.AuthMiddleware) {
	ac := AssetNumberController{service: svc}

	g.GET("/asset_numbers", ac.List, auth.RequireScopes("asset_number:list"))
	g.GET("/asset_numbers/:number", ac.Resolve, auth.RequireScopes("asset_number:info"))
}

func (ac *AssetNumberController) List(e echo.Context) error {
	filter := pkgdto.Filter{}
	if err := e.Bind(&filter); err != nil {
		log.Error().Err(err).Str("component", "List").Msg("")
	}

	mappings, err := ac.service.List(e.Request().Context(), filter.IncludeTrashed, filter.Skip(), filter.Limit)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", mappings)
}

func (ac *AssetNumberController) Resolve(e echo.Context) error {
	resolution, err := ac.service.Resolve(e.Request().Context(), e.Param("number"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resolution)
}
