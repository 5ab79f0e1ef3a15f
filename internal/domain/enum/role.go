package enum

// Role names used by the auth layer. Admins carry the all-tenants privilege;
// bookers and managers act within their home distribution.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleBooker  = "booker"
)
