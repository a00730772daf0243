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

type TicketController struct {
	service service.TicketService
}

func CreateTicketController(g *echo.Group, svc service.TicketService, auth *middleware.AuthMiddleware) {
	tc := TicketController{service: svc}

	g.GET("/tickets", tc.GetTickets, auth.RequireScopes("ticket:list"))
	g.POST("/tickets", tc.AddTicket, auth.RequireScopes("ticket:create"))
	g.GET("/tickets/:id", tc.GetTicket, auth.RequireScopes("ticket:info"))
	g.PUT("/tickets/:id", tc.UpdateTicket, auth.RequireScopes("ticket:update"))
	g.POST("/tickets/:id/resolve", tc.ResolveTicket, auth.RequireScopes("ticket:update"))
	g.DELETE("/tickets/:id", tc.DeleteTicket, auth.RequireScopes("ticket:delete"))
	g.POST("/tickets/:id/restore", tc.RestoreTicket, auth.RequireScopes("ticket:delete"))
	g.DELETE("/tickets/:id/purge", tc.ForceDeleteTicket, auth.RequireScopes("ticket:delete"))
}

func (tc *TicketController) GetTickets(e echo.Context) error {
	filter := pkgdto.Filter{}
	if err := e.Bind(&filter); err != nil {
		log.Error().Err(err).Str("component", "GetTickets").Msg("")
	}

	tickets, err := tc.service.GetTickets(e.Request().Context(), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", tickets)
}

func (tc *TicketController) GetTicket(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	ticket, err := tc.service.GetTicket(e.Request().Context(), id, includeTrashed(e))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", ticket)
}

func (tc *TicketController) AddTicket(e echo.Context) error {
	payload := dto.TicketRequest{}
	if err := e.Bind(&payload); err != nil {
		log.Error().Err(err).Str("component", "AddTicket").Msg("")
	}

	ticket, err := tc.service.AddTicket(e.Request().Context(), middleware.ClaimsFrom(e).UserID, payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", ticket)
}

func (tc *TicketController) UpdateTicket(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	forms := []dto.UpdateForm{}
	if err := e.Bind(&forms); err != nil {
		log.Error().Err(err).Str("component", "UpdateTicket").Msg("")
	}

	ticket, err := tc.service.UpdateTicket(e.Request().Context(), id, forms)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", ticket)
}

func (tc *TicketController) ResolveTicket(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	ticket, err := tc.service.ResolveTicket(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", ticket)
}

func (tc *TicketController) DeleteTicket(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	ticket, err := tc.service.DeleteTicket(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", ticket)
}

func (tc *TicketController) RestoreTicket(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	ticket, err := tc.service.RestoreTicket(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", ticket)
}

func (tc *TicketController) ForceDeleteTicket(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	ticket, err := tc.service.ForceDeleteTicket(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", ticket)
}
