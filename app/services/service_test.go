package services

import (
	"testing"

	"github.com/hbdiaz/ferremat/app/models"
	"github.com/hbdiaz/ferremat/pkg/auth"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory sqlite database with the full schema.
// Pool size 1 keeps every query on the same in-memory connection.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, rol string) *models.User {
	t.Helper()

	user := &models.User{
		NombreCompleto: "Cuenta de prueba " + rol,
		Rut:            "11.111.111-1",
		Email:          rol + "@test.cl",
		Password:       "$2a$10$hash",
		Rol:            rol,
	}
	// Keep rut/email unique when several users share a role suffix.
	var n int64
	db.Model(&models.User{}).Count(&n)
	user.Rut = user.Rut[:len(user.Rut)-1] + string(rune('0'+n))
	user.Email = rol + string(rune('a'+n)) + "@test.cl"

	require.NoError(t, db.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, nombre string, precio float64, stock int, descuento float64) *models.Product {
	t.Helper()

	p := &models.Product{
		Nombre:       nombre,
		Codigo:       "COD-" + nombre,
		Precio:       precio,
		Stock:        stock,
		Categoria:    "test",
		UnidadMedida: "unidad",
		Descuento:    descuento,
		Activo:       true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func callerFor(u *models.User) auth.Caller {
	return auth.Caller{ID: u.ID, Rol: u.Rol}
}
