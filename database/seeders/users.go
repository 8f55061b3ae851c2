package seeders

import (
	"errors"

	"github.com/hbdiaz/ferremat/app/models"
	"github.com/hbdiaz/ferremat/pkg/auth"
	"gorm.io/gorm"
)

func init() {
	Register("users", SeedUsers)
}

// SeedUsers creates the initial accounts. Existing emails are left alone so
// the seeder can run repeatedly.
func SeedUsers(db *gorm.DB) error {
	seeds := []struct {
		nombre   string
		rut      string
		email    string
		password string
		rol      string
	}{
		{"Héctor Bastián Díaz Fernández", "21.353.846-2", "administrador2024@gmail.cl", "admin1234", models.RolAdministrador},
		{"Juan Eduardo Hidalgo Milchio", "13.456.789-0", "usuario1.2024@gmail.cl", "user1234", models.RolUsuario},
		{"Vicente Manuel Díaz Fernández", "24.396.686-8", "usuario2.2024@gmail.cl", "user1234", models.RolUsuario},
		{"Carlos Andrés Rojas Vargas", "18.234.567-9", "repartidor2024@gmail.cl", "repartidor1234", models.RolRepartidor},
	}

	for _, s := range seeds {
		var existing models.User
		err := db.Where("email = ?", s.email).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := auth.HashPassword(s.password)
		if err != nil {
			return err
		}

		user := models.User{
			NombreCompleto: s.nombre,
			Rut:            s.rut,
			Email:          s.email,
			Password:       hash,
			Rol:            s.rol,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}
	return nil
}
