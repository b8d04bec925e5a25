package entity

import "time"

// Roles válidos en el directorio de identidades.
const (
	RoleCustomer        = "customer"
	RoleServiceProvider = "service_provider"
	RoleAdmin           = "admin"
	RoleUnknown         = "user" // identidades sin rol en metadata
)

// Estados administrables de un usuario.
const (
	StatusActive   = "active"
	StatusBlocked  = "blocked"
	StatusInactive = "inactive"
)

// NormalizeStatus devuelve el estado si es válido; cualquier otro valor cae en active.
func NormalizeStatus(s string) string {
	switch s {
	case StatusActive, StatusBlocked, StatusInactive:
		return s
	default:
		return StatusActive
	}
}

// Identity es el registro crudo del proveedor de identidad (Supabase Auth).
// UserMetadata es la bolsa libre donde viven rol, estado, créditos y perfil de negocio.
type Identity struct {
	ID           string
	Email        string
	Phone        string
	CreatedAt    time.Time
	LastSignInAt *time.Time
	ConfirmedAt  *time.Time
	BannedUntil  *time.Time
	UserMetadata Metadata
	AppMetadata  Metadata
}

// Role resuelve el rol: user_metadata, luego app_metadata, por defecto "user".
func (i *Identity) Role() string {
	if r := i.UserMetadata.String("role"); r != "" {
		return r
	}
	if r := i.AppMetadata.String("role"); r != "" {
		return r
	}
	return RoleUnknown
}

// JobRef referencia a un trabajo dentro de jobLeadsPaid / jobsQuoted.
type JobRef struct {
	JobID string
}

// User es la proyección del directorio (cliente o proveedor). Los admins nunca se proyectan.
type User struct {
	ID           string
	Email        string
	Phone        string
	CreatedAt    time.Time
	LastSignInAt *time.Time
	ConfirmedAt  *time.Time
	BannedUntil  *time.Time
	Profile      Profile
}

// ProjectUser convierte una identidad en User. Devuelve false para admins.
func ProjectUser(i *Identity) (User, bool) {
	if i == nil || i.Role() == RoleAdmin {
		return User{}, false
	}
	p := ParseProfile(i.UserMetadata)
	p.Role = i.Role()
	return User{
		ID:           i.ID,
		Email:        i.Email,
		Phone:        i.Phone,
		CreatedAt:    i.CreatedAt,
		LastSignInAt: i.LastSignInAt,
		ConfirmedAt:  i.ConfirmedAt,
		BannedUntil:  i.BannedUntil,
		Profile:      p,
	}, true
}
