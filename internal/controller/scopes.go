package controller

// Scopes is the static table of every permission scope a route may declare,
// with the description shown in API docs and admin tooling.
var Scopes = map[string]string{
	"su": "Super user",

	"auth:me": "Read and update information about the current user.",

	"user:list":   "Read information about users.",
	"user:info":   "Read information about one user.",
	"user:create": "Create new user.",
	"user:update": "Update user.",
	"user:delete": "Delete user.",

	"role:list":   "Read information about roles.",
	"role:info":   "Read information about one role.",
	"role:create": "Create new role.",
	"role:update": "Update role.",
	"role:delete": "Delete role.",

	"user_has_role:list":   "Read information about user roles.",
	"user_has_role:info":   "Read information about one user role.",
	"user_has_role:create": "Grant a role to a user.",
	"user_has_role:delete": "Revoke a role from a user.",

	"device:list":   "Read information about devices.",
	"device:info":   "Read information about one device.",
	"device:create": "Create new device.",
	"device:update": "Update device.",
	"device:delete": "Delete device.",

	"user_has_device:list":   "Read information about device assignments.",
	"user_has_device:info":   "Read information about one device assignment.",
	"user_has_device:create": "Check a device out to a user.",
	"user_has_device:delete": "Return a device.",

	"brand:list":   "Read information about brands.",
	"brand:info":   "Read information about one brand.",
	"brand:create": "Create new brand.",
	"brand:update": "Update brand.",
	"brand:delete": "Delete brand.",

	"device_category:list":   "Read information about device categories.",
	"device_category:info":   "Read information about one device category.",
	"device_category:create": "Create new device category.",
	"device_category:update": "Update device category.",
	"device_category:delete": "Delete device category.",

	"asset_number:list": "Read the asset number registry.",
	"asset_number:info": "Resolve one asset number.",

	"ticket:list":   "Read information about tickets.",
	"ticket:info":   "Read information about one ticket.",
	"ticket:create": "Create new ticket.",
	"ticket:update": "Update ticket.",
	"ticket:delete": "Delete ticket.",

	"todo:list":   "Read information about todos.",
	"todo:info":   "Read information about one todo.",
	"todo:create": "Create new todo.",
	"todo:update": "Update todo.",
	"todo:delete": "Delete todo.",
}
