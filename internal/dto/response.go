package dto

import (
	"time"

	"github.com/celaops/cela/internal/domain"
)

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Type        string `json:"type"`
}

// Creator is the resolved creator reference attached to record payloads.
type Creator struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

func CreatorOf(user domain.User) *Creator {
	return &Creator{ID: user.ID, Username: user.Username, Name: user.Name}
}

type UserResponse struct {
	domain.User
	Creator *Creator      `json:"creator,omitempty"`
	Roles   []domain.Role `json:"roles,omitempty"`
	Scopes  []string      `json:"scopes,omitempty"`
}

type DeviceResponse struct {
	domain.Device
	Creator *Creator `json:"creator,omitempty"`
}

// ClosedAssignment is one history entry: a custody or role binding that has
// ended, enriched with who recorded it.
type ClosedAssignment struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	SubjectID int64      `json:"subject_id"`
	Flag      int16      `json:"flag,omitempty"`
	Message   *string    `json:"message,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	Creator   *Creator   `json:"creator,omitempty"`
}
