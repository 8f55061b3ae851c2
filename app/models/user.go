// Package models holds the GORM entities. Column and JSON names keep the
// Spanish wire names the frontend expects.
package models

import "time"

// User roles. Mirrored in pkg/auth for route guards.
const (
	RolAdministrador = "administrador"
	RolUsuario       = "usuario"
	RolRepartidor    = "repartidor"
)

// User is an account: customer, admin, or delivery driver.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	NombreCompleto string    `gorm:"column:nombre_completo;size:255;not null" json:"nombreCompleto"`
	Rut            string    `gorm:"column:rut;size:20;uniqueIndex;not null" json:"rut"`
	Email          string    `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	Password       string    `gorm:"column:password;size:255;not null" json:"-"` // bcrypt hash, never serialised
	Rol            string    `gorm:"column:rol;size:20;not null;default:usuario" json:"rol"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool { return u.Rol == RolAdministrador }
