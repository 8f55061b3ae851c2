package auth

// Roles known to the application. Seeded users cover all three.
const (
	RolAdministrador = "administrador"
	RolUsuario       = "usuario"
	RolRepartidor    = "repartidor"
)

// Caller is the authenticated identity behind a request. Services take a
// Caller explicitly instead of reading ambient session state, and evaluate
// capabilities once at each operation entry point.
type Caller struct {
	ID  uint
	Rol string
}

// IsAdmin reports whether the caller holds the administrator role.
func (c Caller) IsAdmin() bool { return c.Rol == RolAdministrador }

// Is reports whether the caller holds any of the given roles.
func (c Caller) Is(roles ...string) bool {
	for _, r := range roles {
		if c.Rol == r {
			return true
		}
	}
	return false
}

// Owns reports whether the caller owns a resource belonging to userID.
func (c Caller) Owns(userID uint) bool { return c.ID == userID }

// FromClaims builds a Caller from validated JWT claims.
func FromClaims(claims *Claims) Caller {
	return Caller{ID: claims.UserID, Rol: claims.Rol}
}
