package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/celaops/cela/internal/domain"
	"github.com/celaops/cela/internal/dto"
	"github.com/celaops/cela/internal/repository"
	"github.com/celaops/cela/pkg/errs"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// CustodyService is the ledger of who holds what. Custody rows and role
// bindings are append-only: ending one soft-deletes it into history instead
// of rewriting it.
type CustodyService interface {
	Checkout(ctx context.Context, actorID int64, payload dto.CheckoutRequest) (domain.CustodyAssignment, error)
	Return(ctx context.Context, actorID int64, payload dto.ReturnRequest) (domain.CustodyAssignment, error)
	GrantRole(ctx context.Context, actorID int64, payload dto.GrantRoleRequest) (domain.RoleAssignment, error)
	RevokeRole(ctx context.Context, userID int64, roleID int64) (domain.RoleAssignment, error)
	DeviceHistory(ctx context.Context, deviceID int64) ([]dto.ClosedAssignment, error)
	RoleHistory(ctx context.Context, userID int64) ([]dto.ClosedAssignment, error)
}

type CustodyServiceImpl struct {
	reg           *repository.Registry
	kafkaProducer *kafka.Conn
}

func CreateNewCustodyService(reg *repository.Registry, kafkaProducer *kafka.Conn) CustodyService {
	return &CustodyServiceImpl{reg: reg, kafkaProducer: kafkaProducer}
}

func (s *CustodyServiceImpl) Checkout(ctx context.Context, actorID int64, payload dto.CheckoutRequest) (assignment domain.CustodyAssignment, err error) {
	flag := domain.Flag(payload.Flag)
	if flag != domain.FlagManage && flag != domain.FlagBorrow {
		return assignment, errs.ErrClient
	}

	if _, err = s.reg.Users.Get(ctx, payload.UserID, false); err != nil {
		return assignment, err
	}
	if _, err = s.reg.Devices.Get(ctx, payload.DeviceID, false); err != nil {
		return assignment, err
	}

	open, err := s.openAssignment(ctx, repository.Eq("device_id", payload.DeviceID))
	if err != nil {
		return assignment, err
	}
	if open != nil {
		return assignment, errs.ErrDeviceHeld
	}

	assignment, err = s.reg.Assignments.Create(ctx, domain.CustodyAssignment{
		Record:    domain.Record{CreatorID: actorID},
		UserID:    payload.UserID,
		DeviceID:  payload.DeviceID,
		Flag:      flag,
		Status:    domain.StatusOpen,
		Message:   payload.Message,
		ExpiredAt: payload.ExpiredAt,
	})
	if err != nil {
		return assignment, err
	}

	s.publish("device_checkout", assignment)
	return assignment, nil
}

// Return closes the open assignment for (user, device). The open row is
// soft-deleted untouched and a terminal row (flag=returned, status=closed)
// is appended straight into history; both writes commit as one unit.
func (s *CustodyServiceImpl) Return(ctx context.Context, actorID int64, payload dto.ReturnRequest) (terminal domain.CustodyAssignment, err error) {
	open, err := s.openAssignment(ctx,
		repository.Eq("user_id", payload.UserID),
		repository.Eq("device_id", payload.DeviceID),
	)
	if err != nil {
		return terminal, err
	}
	if open == nil {
		return terminal, errs.ErrNoOpenAssignment
	}

	err = s.reg.Transact(ctx, func(tx *repository.Registry) error {
		if _, err := tx.Assignments.Delete(ctx, open.ID); err != nil {
			return err
		}

		created, err := tx.Assignments.Create(ctx, domain.CustodyAssignment{
			Record:   domain.Record{CreatorID: actorID},
			UserID:   payload.UserID,
			DeviceID: payload.DeviceID,
			Flag:     domain.FlagReturned,
			Status:   domain.StatusClosed,
			Message:  open.Message,
		})
		if err != nil {
			return err
		}

		terminal, err = tx.Assignments.Delete(ctx, created.ID)
		return err
	})
	if err != nil {
		return terminal, err
	}

	s.publish("device_return", terminal)
	return terminal, nil
}

func (s *CustodyServiceImpl) GrantRole(ctx context.Context, actorID int64, payload dto.GrantRoleRequest) (assignment domain.RoleAssignment, err error) {
	if _, err = s.reg.Users.Get(ctx, payload.UserID, false); err != nil {
		return assignment, err
	}
	if _, err = s.reg.Roles.Get(ctx, payload.RoleID, false); err != nil {
		return assignment, err
	}

	active, err := s.reg.RoleAssignments.Select(ctx, repository.Query{
		Conds: []repository.Cond{
			repository.Eq("user_id", payload.UserID),
			repository.Eq("role_id", payload.RoleID),
		},
		Limit: 1,
	})
	if err != nil {
		return assignment, err
	}
	if len(active) > 0 {
		return assignment, errs.ErrRoleAlreadyGranted
	}

	assignment, err = s.reg.RoleAssignments.Create(ctx, domain.RoleAssignment{
		Record: domain.Record{CreatorID: actorID},
		UserID: payload.UserID,
		RoleID: payload.RoleID,
	})
	if err != nil {
		return assignment, err
	}

	s.publish("role_grant", assignment)
	return assignment, nil
}

func (s *CustodyServiceImpl) RevokeRole(ctx context.Context, userID int64, roleID int64) (revoked domain.RoleAssignment, err error) {
	active, err := s.reg.RoleAssignments.Select(ctx, repository.Query{
		Conds: []repository.Cond{
			repository.Eq("user_id", userID),
			repository.Eq("role_id", roleID),
		},
		Limit: 1,
	})
	if err != nil {
		return revoked, err
	}
	if len(active) == 0 {
		return revoked, errs.ErrNotFound
	}

	role, err := s.reg.Roles.Get(ctx, roleID, true)
	if err != nil {
		return revoked, err
	}
	user, err := s.reg.Users.Get(ctx, userID, true)
	if err != nil {
		return revoked, err
	}
	if role.Name == ReservedRoleName && user.Username == ReservedUsername {
		return revoked, errs.ErrReservedBinding
	}

	revoked, err = s.reg.RoleAssignments.Delete(ctx, active[0].ID)
	if err != nil {
		return revoked, err
	}

	s.publish("role_revoke", revoked)
	return revoked, nil
}

// DeviceHistory lists the closed custody rows of one device, oldest first,
// each enriched with who recorded it.
func (s *CustodyServiceImpl) DeviceHistory(ctx context.Context, deviceID int64) ([]dto.ClosedAssignment, error) {
	rows, err := s.reg.Assignments.Select(ctx, repository.Query{
		Conds: []repository.Cond{
			repository.Eq("device_id", deviceID),
			repository.Eq("status", domain.StatusClosed),
			repository.Neq("deleted_at", nil),
		},
		IncludeTrashed: true,
		OrderBy:        "created_at, id",
	})
	if err != nil {
		return nil, err
	}

	history := make([]dto.ClosedAssignment, 0, len(rows))
	for _, row := range rows {
		entry := dto.ClosedAssignment{
			ID:        row.ID,
			UserID:    row.UserID,
			SubjectID: row.DeviceID,
			Flag:      int16(row.Flag),
			Message:   row.Message,
			CreatedAt: row.CreatedAt,
			ClosedAt:  row.DeletedAt,
		}
		entry.Creator = s.creatorOf(ctx, row.CreatorID)
		history = append(history, entry)
	}

	return history, nil
}

// RoleHistory lists the revoked role bindings of one user, oldest first.
func (s *CustodyServiceImpl) RoleHistory(ctx context.Context, userID int64) ([]dto.ClosedAssignment, error) {
	rows, err := s.reg.RoleAssignments.Select(ctx, repository.Query{
		Conds: []repository.Cond{
			repository.Eq("user_id", userID),
			repository.Neq("deleted_at", nil),
		},
		IncludeTrashed: true,
		OrderBy:        "created_at, id",
	})
	if err != nil {
		return nil, err
	}

	history := make([]dto.ClosedAssignment, 0, len(rows))
	for _, row := range rows {
		entry := dto.ClosedAssignment{
			ID:        row.ID,
			UserID:    row.UserID,
			SubjectID: row.RoleID,
			CreatedAt: row.CreatedAt,
			ClosedAt:  row.DeletedAt,
		}
		entry.Creator = s.creatorOf(ctx, row.CreatorID)
		history = append(history, entry)
	}

	return history, nil
}

func (s *CustodyServiceImpl) openAssignment(ctx context.Context, conds ...repository.Cond) (*domain.CustodyAssignment, error) {
	conds = append(conds, repository.Eq("status", domain.StatusOpen))
	open, err := s.reg.Assignments.Select(ctx, repository.Query{Conds: conds, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(open) == 0 {
		return nil, nil
	}
	return &open[0], nil
}

func (s *CustodyServiceImpl) creatorOf(ctx context.Context, creatorID int64) *dto.Creator {
	creator, err := s.reg.Users.Get(ctx, creatorID, true)
	if err != nil {
		return nil
	}
	return dto.CreatorOf(creator)
}

// publish sends a ledger event to the broker, best effort. The ledger write
// has already committed; a broker outage must not undo it.
func (s *CustodyServiceImpl) publish(eventType string, data interface{}) {
	if s.kafkaProducer == nil {
		return
	}

	jsonMsg, err := json.Marshal(dto.KafkaMessage{EventType: eventType, Data: data})
	if err != nil {
		log.Error().Err(err).Str("component", "publish").Msg("")
		return
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		_, err = s.kafkaProducer.WriteMessages(kafka.Message{Value: jsonMsg})
		if err == nil {
			return
		}
		log.Error().Err(err).Str("component", "publish").Msgf("write attempt %d/%d failed", i+1, maxRetries)
		time.Sleep(time.Second * time.Duration(i+1))
	}
}
