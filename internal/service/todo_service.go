package service

import (
	"context"

	"github.com/celaops/cela/internal/domain"
	"github.com/celaops/cela/internal/dto"
	"github.com/celaops/cela/internal/repository"
	"github.com/celaops/cela/pkg/errs"
	pkgdto "github.com/celaops/cela/pkg/dto"
)

type TodoService interface {
	GetTodos(ctx context.Context, filter pkgdto.Filter, includeFinished bool) ([]domain.Todo, error)
	GetTodo(ctx context.Context, id int64, includeTrashed bool) (domain.Todo, error)
	AddTodo(ctx context.Context, actorID int64, payload dto.TodoRequest) (domain.Todo, error)
	FinishTodo(ctx context.Context, id int64) (domain.Todo, error)
	DeleteTodo(ctx context.Context, id int64) (domain.Todo, error)
	RestoreTodo(ctx context.Context, id int64) (domain.Todo, error)
	ForceDeleteTodo(ctx context.Context, id int64) (domain.Todo, error)
}

type TodoServiceImpl struct {
	reg *repository.Registry
}

func CreateNewTodoService(reg *repository.Registry) TodoService {
	return &TodoServiceImpl{reg: reg}
}

func (s *TodoServiceImpl) GetTodos(ctx context.Context, filter pkgdto.Filter, includeFinished bool) ([]domain.Todo, error) {
	query := repository.Query{
		IncludeTrashed: filter.IncludeTrashed,
		Skip:           filter.Skip(),
		Limit:          filter.Limit,
	}
	if !includeFinished {
		query.Conds = append(query.Conds, repository.Eq("is_finished", false))
	}
	if filter.Q != "" {
		query.Conds = append(query.Conds, repository.Like("name", filter.Q))
	}

	return s.reg.Todos.Select(ctx, query)
}

func (s *TodoServiceImpl) GetTodo(ctx context.Context, id int64, includeTrashed bool) (domain.Todo, error) {
	return s.reg.Todos.Get(ctx, id, includeTrashed)
}

func (s *TodoServiceImpl) AddTodo(ctx context.Context, actorID int64, payload dto.TodoRequest) (todo domain.Todo, err error) {
	if _, err = s.reg.Users.Get(ctx, payload.UserID, false); err != nil {
		return todo, err
	}

	return s.reg.Todos.Create(ctx, domain.Todo{
		Record: domain.Record{CreatorID: actorID},
		Name:   payload.Name,
		UserID: payload.UserID,
	})
}

func (s *TodoServiceImpl) FinishTodo(ctx context.Context, id int64) (domain.Todo, error) {
	todo, err := s.reg.Todos.Get(ctx, id, false)
	if err != nil {
		return todo, err
	}
	if todo.IsFinished {
		return todo, errs.ErrConflict
	}

	return s.reg.Todos.Update(ctx, id, repository.Set("is_finished", true))
}

func (s *TodoServiceImpl) DeleteTodo(ctx context.Context, id int64) (domain.Todo, error) {
	return s.reg.Todos.Delete(ctx, id)
}

func (s *TodoServiceImpl) RestoreTodo(ctx context.Context, id int64) (domain.Todo, error) {
	return s.reg.Todos.Restore(ctx, id)
}

func (s *TodoServiceImpl) ForceDeleteTodo(ctx context.Context, id int64) (domain.Todo, error) {
	return s.reg.Todos.ForceDelete(ctx, id)
}
