package entities

type Role string

const (
	RoleShipper   Role = "shipper"
	RoleCorporate Role = "corporate_shipper"
	RoleCarrier   Role = "carrier"
	RoleDriver    Role = "driver"
)

func (r Role) Valid() bool {
	switch r {
	case RoleShipper, RoleCorporate, RoleCarrier, RoleDriver:
		return true
	}
	return false
}

// Actor is the authenticated caller. Identity is established by the upstream
// auth layer, the engine never re-derives it.
type Actor struct {
	UserID int64
	Role   Role
}

// IsShipper covers both individual and corporate shipper accounts; the engine
// does not branch between them.
func (a Actor) IsShipper() bool {
	return a.Role == RoleShipper || a.Role == RoleCorporate
}

func (a Actor) IsTransport() bool {
	return a.Role == RoleCarrier || a.Role == RoleDriver
}
