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

type DeviceController struct {
	service service.DeviceService
	custody service.CustodyService
}

func CreateDeviceController(g *echo.Group, svc service.DeviceService, custody service.CustodyService, auth *middleware.AuthMiddleware) {
	dc := DeviceController{service: svc, custody: custody}

	g.GET("/devices", dc.GetDevices, auth.RequireScopes("device:list"))
	g.POST("/devices", dc.AddDevice, auth.RequireScopes("device:create"))
	g.GET("/devices/:id", dc.GetDevice, auth.RequireScopes("device:info"))
	g.PUT("/devices/:id", dc.UpdateDevice, auth.RequireScopes("device:update"))
	g.DELETE("/devices/:id", dc.DeleteDevice, auth.RequireScopes("device:delete"))
	g.POST("/devices/:id/restore", dc.RestoreDevice, auth.RequireScopes("device:delete"))
	g.DELETE("/devices/:id/purge", dc.ForceDeleteDevice, auth.RequireScopes("device:delete"))
	g.GET("/devices/:id/history", dc.History, auth.RequireScopes("user_has_device:list"))
}

func (dc *DeviceController) GetDevices(e echo.Context) error {
	filter := pkgdto.Filter{}
	if err := e.Bind(&filter); err != nil {
		log.Error().Err(err).Str("component", "GetDevices").Msg("")
	}

	devices, pagination, err := dc.service.GetDevices(e.Request().Context(), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", response.DataWithPaginationResponse{Data: devices, Pagination: pagination})
}

func (dc *DeviceController) GetDevice(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	device, err := dc.service.GetDevice(e.Request().Context(), id, includeTrashed(e))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", device)
}

func (dc *DeviceController) AddDevice(e echo.Context) error {
	payload := dto.DeviceRequest{}
	if err := e.Bind(&payload); err != nil {
		log.Error().Err(err).Str("component", "AddDevice").Msg("")
	}

	device, err := dc.service.AddDevice(e.Request().Context(), middleware.ClaimsFrom(e).UserID, payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", device)
}

func (dc *DeviceController) UpdateDevice(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	forms := []dto.UpdateForm{}
	if err := e.Bind(&forms); err != nil {
		log.Error().Err(err).Str("component", "UpdateDevice").Msg("")
	}

	device, err := dc.service.UpdateDevice(e.Request().Context(), id, forms)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", device)
}

func (dc *DeviceController) DeleteDevice(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	device, err := dc.service.DeleteDevice(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", device)
}

func (dc *DeviceController) RestoreDevice(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	device, err := dc.service.RestoreDevice(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", device)
}

func (dc *DeviceController) ForceDeleteDevice(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	device, err := dc.service.ForceDeleteDevice(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", device)
}

func (dc *DeviceController) History(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	history, err := dc.custody.DeviceHistory(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", history)
}
