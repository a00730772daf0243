package errs

import (
	"errors"
	"net/http"
)

var (
	ErrInternalServer = errors.New("Internal server error")
	ErrClient         = errors.New("Bad request")
	ErrNotFound       = errors.New("Resource not found")
	ErrConflict       = errors.New("Conflicting record found")
	ErrLocked         = errors.New("Field cannot be updated")
	ErrNotLoggedIn    = errors.New("Unauthorized access")
	ErrExpiredToken   = errors.New("Token has expired")
	ErrForbidden      = errors.New("Not enough permissions")

	ErrInvalidCredentials = errors.New("Username or password is incorrect")
	ErrUsernameTaken      = errors.New("Username has already been used")
	ErrRoleExists         = errors.New("Role already exists")
	ErrNameTaken          = errors.New("Name has already been used")
	ErrAssetNumberTaken   = errors.New("Asset number has already been claimed")
	ErrDeviceHeld         = errors.New("Device already has an open assignment")
	ErrRoleAlreadyGranted = errors.New("User already has this role")
	ErrNoOpenAssignment   = errors.New("No open assignment for this device")
	ErrReservedBinding    = errors.New("Reserved binding cannot be revoked")
	ErrStillLive          = errors.New("Record must be trashed first")
)

var errorMap = map[error]int{
	ErrInternalServer: http.StatusInternalServerError,
	ErrClient:         http.StatusBadRequest,
	ErrNotFound:       http.StatusNotFound,
	ErrConflict:       http.StatusConflict,
	ErrLocked:         http.StatusLocked,
	ErrNotLoggedIn:    http.StatusUnauthorized,
	ErrExpiredToken:   http.StatusUnauthorized,
	ErrForbidden:      http.StatusForbidden,

	ErrInvalidCredentials: http.StatusUnauthorized,
	ErrUsernameTaken:      http.StatusConflict,
	ErrRoleExists:         http.StatusConflict,
	ErrNameTaken:          http.StatusConflict,
	ErrAssetNumberTaken:   http.StatusConflict,
	ErrDeviceHeld:         http.StatusConflict,
	ErrRoleAlreadyGranted: http.StatusConflict,
	ErrNoOpenAssignment:   http.StatusConflict,
	ErrReservedBinding:    http.StatusConflict,
	ErrStillLive:          http.StatusConflict,
}

func GetErrorStatusCode(err error) int {
	for candidate, code := range errorMap {
		if errors.Is(err, candidate) {
			return code
		}
	}
	return http.StatusInternalServerError
}

// IsNotFound reports whether err belongs to the not-found family.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err maps to a 409.
func IsConflict(err error) bool {
	return GetErrorStatusCode(err) == http.StatusConflict
}
