package dto

import "time"

// UpdateForm is one field/value patch. Endpoints accept a list of these and
// the services translate allowed keys into store changes.
type UpdateForm struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

type UserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type RoleRequest struct {
	Name   string   `json:"name"`
	Scopes []string `json:"scopes"`
}

type NameRequest struct {
	Name string `json:"name"`
}

type DeviceRequest struct {
	Hostname    string  `json:"hostname"`
	AssetNumber string  `json:"asset_number"`
	IPv4Address *string `json:"ipv4_address"`
	IPv6Address *string `json:"ipv6_address"`
	MACAddress  *string `json:"mac_address"`
	Description *string `json:"description"`
	BrandID     int64   `json:"brand_id"`
	CategoryID  int64   `json:"category_id"`
}

type CheckoutRequest struct {
	UserID    int64      `json:"user_id"`
	DeviceID  int64      `json:"device_id"`
	Flag      int16      `json:"flag"`
	Message   *string    `json:"message"`
	ExpiredAt *time.Time `json:"expired_at"`
}

type ReturnRequest struct {
	UserID   int64 `json:"user_id"`
	DeviceID int64 `json:"device_id"`
}

type GrantRoleRequest struct {
	UserID int64 `json:"user_id"`
	RoleID int64 `json:"role_id"`
}

type TicketRequest struct {
	Title      string  `json:"title"`
	Body       *string `json:"body"`
	AssigneeID *int64  `json:"assignee_id"`
}

type TodoRequest struct {
	Name   string `json:"name"`
	UserID int64  `json:"user_id"`
}
