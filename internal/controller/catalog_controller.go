package controller

import (
	"github.com/celaops/cela/internal/domain"
	"github.com/celaops/cela/internal/dto"
	"github.com/celaops/cela/internal/middleware"
	"github.com/celaops/cela/internal/service"
	"github.com/celaops/cela/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	pkgdto "github.com/celaops/cela/pkg/dto"
)

// CatalogController serves the shared CRUD routes of one name-keyed lookup
// entity under its own path and scope prefix.
type CatalogController[T domain.Entity] struct {
	service service.CatalogService[T]
}

func CreateBrandController(g *echo.Group, svc service.CatalogService[domain.Brand], auth *middleware.AuthMiddleware) {
	registerCatalogRoutes(g, "/brands", "brand", svc, auth)
}

func CreateDeviceCategoryController(g *echo.Group, svc service.CatalogService[domain.DeviceCategory], auth *middleware.AuthMiddleware) {
	registerCatalogRoutes(g, "/device_categories", "device_category", svc, auth)
}

func registerCatalogRoutes[T domain.Entity](g *echo.Group, path string, scope string, svc service.CatalogService[T], auth *middleware.AuthMiddleware) {
	cc := CatalogController[T]{service: svc}

	g.GET(path, cc.GetAll, auth.RequireScopes(scope+":list"))
	g.POST(path, cc.Add, auth.RequireScopes(scope+":create"))
	g.GET(path+"/:id", cc.Get, auth.RequireScopes(scope+":info"))
	g.PUT(path+"/:id", cc.Update, auth.RequireScopes(scope+":update"))
	g.DELETE(path+"/:id", cc.Delete, auth.RequireScopes(scope+":delete"))
	g.POST(path+"/:id/restore", cc.Restore, auth.RequireScopes(scope+":delete"))
	g.DELETE(path+"/:id/purge", cc.ForceDelete, auth.RequireScopes(scope+":delete"))
}

func (cc *CatalogController[T]) GetAll(e echo.Context) error {
	filter := pkgdto.Filter{}
	if err := e.Bind(&filter); err != nil {
		log.Error().Err(err).Str("component", "GetAll").Msg("")
	}

	items, err := cc.service.GetAll(e.Request().Context(), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", items)
}

func (cc *CatalogController[T]) Get(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	item, err := cc.service.Get(e.Request().Context(), id, includeTrashed(e))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", item)
}

func (cc *CatalogController[T]) Add(e echo.Context) error {
	payload := dto.NameRequest{}
	if err := e.Bind(&payload); err != nil {
		log.Error().Err(err).Str("component", "Add").Msg("")
	}

	item, err := cc.service.Add(e.Request().Context(), middleware.ClaimsFrom(e).UserID, payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", item)
}

func (cc *CatalogController[T]) Update(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	forms := []dto.UpdateForm{}
	if err := e.Bind(&forms); err != nil {
		log.Error().Err(err).Str("component", "Update").Msg("")
	}

	item, err := cc.service.Update(e.Request().Context(), id, forms)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", item)
}

func (cc *CatalogController[T]) Delete(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	item, err := cc.service.Delete(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", item)
}

func (cc *CatalogController[T]) Restore(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	item, err := cc.service.Restore(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", item)
}

func (cc *CatalogController[T]) ForceDelete(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	item, err := cc.service.ForceDelete(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", item)
}
