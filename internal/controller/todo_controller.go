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

type TodoController struct {
	service service.TodoService
}

func CreateTodoController(g *echo.Group, svc service.TodoService, auth *middleware.AuthMiddleware) {
	tc := TodoController{service: svc}

	g.GET("/todos", tc.GetTodos, auth.RequireScopes("todo:list"))
	g.POST("/todos", tc.AddTodo, auth.RequireScopes("todo:create"))
	g.GET("/todos/:id", tc.GetTodo, auth.RequireScopes("todo:info"))
	g.POST("/todos/:id/finish", tc.FinishTodo, auth.RequireScopes("todo:update"))
	g.DELETE("/todos/:id", tc.DeleteTodo, auth.RequireScopes("todo:delete"))
	g.POST("/todos/:id/restore", tc.RestoreTodo, auth.RequireScopes("todo:delete"))
	g.DELETE("/todos/:id/purge", tc.ForceDeleteTodo, auth.RequireScopes("todo:delete"))
}

func (tc *TodoController) GetTodos(e echo.Context) error {
	filter := pkgdto.Filter{}
	if err := e.Bind(&filter); err != nil {
		log.Error().Err(err).Str("component", "GetTodos").Msg("")
	}

	todos, err := tc.service.GetTodos(e.Request().Context(), filter, e.QueryParam("include_finished") == "true")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", todos)
}

func (tc *TodoController) GetTodo(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	todo, err := tc.service.GetTodo(e.Request().Context(), id, includeTrashed(e))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", todo)
}

func (tc *TodoController) AddTodo(e echo.Context) error {
	payload := dto.TodoRequest{}
	if err := e.Bind(&payload); err != nil {
		log.Error().Err(err).Str("component", "AddTodo").Msg("")
	}

	todo, err := tc.service.AddTodo(e.Request().Context(), middleware.ClaimsFrom(e).UserID, payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", todo)
}

func (tc *TodoController) FinishTodo(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	todo, err := tc.service.FinishTodo(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", todo)
}

func (tc *TodoController) DeleteTodo(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	todo, err := tc.service.DeleteTodo(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", todo)
}

func (tc *TodoController) RestoreTodo(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	todo, err := tc.service.RestoreTodo(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", todo)
}

func (tc *TodoController) ForceDeleteTodo(e echo.Context) error {
	id, err := pathID(e, "id")
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	todo, err := tc.service.ForceDeleteTodo(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", todo)
}
