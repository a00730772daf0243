package service

import (
	"context"
	"time"

	"github.com/celaops/cela/internal/domain"
	"github.com/celaops/cela/internal/dto"
	"github.com/celaops/cela/internal/repository"
	"github.com/celaops/cela/pkg/errs"
	pkgdto "github.com/celaops/cela/pkg/dto"
)

type TicketService interface {
	GetTickets(ctx context.Context, filter pkgdto.Filter) ([]domain.Ticket, error)
	GetTicket(ctx context.Context, id int64, includeTrashed bool) (domain.Ticket, error)
	AddTicket(ctx context.Context, actorID int64, payload dto.TicketRequest) (domain.Ticket, error)
	UpdateTicket(ctx context.Context, id int64, forms []dto.UpdateForm) (domain.Ticket, error)
	ResolveTicket(ctx context.Context, id int64) (domain.Ticket, error)
	DeleteTicket(ctx context.Context, id int64) (domain.Ticket, error)
	RestoreTicket(ctx context.Context, id int64) (domain.Ticket, error)
	ForceDeleteTicket(ctx context.Context, id int64) (domain.Ticket, error)
}

type TicketServiceImpl struct {
	reg *repository.Registry
}

func CreateNewTicketService(reg *repository.Registry) TicketService {
	return &TicketServiceImpl{reg: reg}
}

func (s *TicketServiceImpl) GetTickets(ctx context.Context, filter pkgdto.Filter) ([]domain.Ticket, error) {
	query := repository.Query{
		IncludeTrashed: filter.IncludeTrashed,
		Skip:           filter.Skip(),
		Limit:          filter.Limit,
	}
	if filter.Q != "" {
		query.Conds = append(query.Conds, repository.Like("title", filter.Q))
	}

	return s.reg.Tickets.Select(ctx, query)
}

func (s *TicketServiceImpl) GetTicket(ctx context.Context, id int64, includeTrashed bool) (domain.Ticket, error) {
	return s.reg.Tickets.Get(ctx, id, includeTrashed)
}

func (s *TicketServiceImpl) AddTicket(ctx context.Context, actorID int64, payload dto.TicketRequest) (ticket domain.Ticket, err error) {
	if payload.AssigneeID != nil {
		if _, err = s.reg.Users.Get(ctx, *payload.AssigneeID, false); err != nil {
			return ticket, err
		}
	}

	return s.reg.Tickets.Create(ctx, domain.Ticket{
		Record:     domain.Record{CreatorID: actorID},
		Title:      payload.Title,
		Body:       payload.Body,
		AssigneeID: payload.AssigneeID,
	})
}

func (s *TicketServiceImpl) UpdateTicket(ctx context.Context, id int64, forms []dto.UpdateForm) (updated domain.Ticket, err error) {
	changes := make([]repository.Change, 0, len(forms))
	for _, form := range forms {
		switch form.Key {
		case "title", "body", "assignee_id":
			changes = append(changes, repository.Set(form.Key, form.Value))
		default:
			return updated, errs.ErrClient
		}
	}

	return s.reg.Tickets.Update(ctx, id, changes...)
}

func (s *TicketServiceImpl) ResolveTicket(ctx context.Context, id int64) (domain.Ticket, error) {
	ticket, err := s.reg.Tickets.Get(ctx, id, false)
	if err != nil {
		return ticket, err
	}
	if ticket.ResolvedAt != nil {
		return ticket, errs.ErrConflict
	}

	return s.reg.Tickets.Update(ctx, id, repository.Set("resolved_at", time.Now()))
}

func (s *TicketServiceImpl) DeleteTicket(ctx context.Context, id int64) (domain.Ticket, error) {
	return s.reg.Tickets.Delete(ctx, id)
}

func (s *TicketServiceImpl) RestoreTicket(ctx context.Context, id int64) (domain.Ticket, error) {
	return s.reg.Tickets.Restore(ctx, id)
}

func (s *TicketServiceImpl) ForceDeleteTicket(ctx context.Context, id int64) (domain.Ticket, error) {
	return s.reg.Tickets.ForceDelete(ctx, id)
}
