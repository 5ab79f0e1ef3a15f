package enum

// TenantStatus represents the lifecycle state of a distribution
type TenantStatus int

const (
	TenantStatusActive TenantStatus = iota
	TenantStatusSuspended
)

// String returns the string representation of the tenant status
func (s TenantStatus) String() string {
	switch s {
	case TenantStatusActive:
		return "active"
	case TenantStatusSuspended:
		return "suspended"
	default:
		return "unknown"
	}
}
