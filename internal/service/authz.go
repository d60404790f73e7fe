package service

// Role is the closed set of actor roles. Authorization is a pure
// function over (role, capability) so adding a capability forces a
// decision for every role here, not in scattered string checks.
type Role int

const (
	RoleClient Role = iota
	RoleIncharge
	RoleAdmin
)

// String returns the role name as stored in userinfo.usertype.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleIncharge:
		return "Incharge"
	default:
		return "Client"
	}
}

// Staff reports whether the role belongs to operations staff.
func (r Role) Staff() bool { return r == RoleAdmin || r == RoleIncharge }

// ParseRole maps a stored usertype string onto the closed enum.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "Admin":
		return RoleAdmin, true
	case "Incharge":
		return RoleIncharge, true
	case "Client":
		return RoleClient, true
	}
	return RoleClient, false
}

// Capability names a permission checked by the guard. The values appear
// in ForbiddenError messages, so they are stable identifiers.
type Capability string

const (
	CapReadOwnBookings  Capability = "read-own-bookings"
	CapReadAllBookings  Capability = "read-all-bookings"
	CapWriteBookings    Capability = "write-bookings"
	CapManageRooms      Capability = "manage-rooms"
	CapManageCategories Capability = "manage-categories"
	CapReadCategories   Capability = "read-categories"
	CapManageUsers      Capability = "manage-users"
	CapReadClients      Capability = "read-clients"
)

// Allow is the fixed policy table. Client status mutation is narrower
// than CapWriteBookings ("cancel own pending/approved") and is enforced
// where the current booking row is known, in Reservations.ChangeStatus.
func Allow(r Role, c Capability) bool {
	switch c {
	case CapReadOwnBookings:
		return true
	case CapReadAllBookings:
		return r.Staff()
	case CapWriteBookings:
		return r.Staff()
	case CapManageRooms:
		return r == RoleAdmin
	case CapManageCategories:
		return r == RoleAdmin
	case CapReadCategories:
		return r.Staff()
	case CapManageUsers:
		return r == RoleAdmin
	case CapReadClients:
		return r.Staff()
	}
	return false
}

// Require returns a ForbiddenError unless the role holds the capability.
func Require(r Role, c Capability) error {
	if !Allow(r, c) {
		return &ForbiddenError{Capability: c}
	}
	return nil
}

// Identity is a resolved actor. It is passed explicitly through every
// core call; the engine keeps no request-scoped globals.
type Identity struct {
	UserID uint64
	Role   Role
}
