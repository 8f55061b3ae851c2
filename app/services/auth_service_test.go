package services

import (
	"testing"

	"github.com/hbdiaz/ferremat/app/models"
	"github.com/hbdiaz/ferremat/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegister() RegisterInput {
	return RegisterInput{
		NombreCompleto: "María José Soto Pérez",
		Rut:            "12.345.678-5",
		Email:          "maria@test.cl",
		Password:       "secreto123",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	user, err := svc.Register(validRegister())
	require.NoError(t, err)
	assert.Equal(t, models.RolUsuario, user.Rol, "new accounts get the usuario role")
	assert.NotEqual(t, "secreto123", user.Password, "password must be hashed")

	result, err := svc.Login(LoginInput{Email: "maria@test.cl", Password: "secreto123"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, user.ID, result.Usuario.ID)
}

func TestRegisterDuplicateEmailAndRut(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	_, err := svc.Register(validRegister())
	require.NoError(t, err)

	dup := validRegister()
	dup.Rut = "9.876.543-2"
	_, err = svc.Register(dup)
	require.Error(t, err)
	assert.Equal(t, apperr.BusinessRule, apperr.KindOf(err))

	dup = validRegister()
	dup.Email = "otra@test.cl"
	_, err = svc.Register(dup)
	require.Error(t, err)
	assert.Equal(t, apperr.BusinessRule, apperr.KindOf(err))
}

func TestLoginBadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	_, err := svc.Register(validRegister())
	require.NoError(t, err)

	_, err = svc.Login(LoginInput{Email: "maria@test.cl", Password: "incorrecta"})
	require.Error(t, err)
	wrongPass := err.Error()

	_, err = svc.Login(LoginInput{Email: "nadie@test.cl", Password: "incorrecta"})
	require.Error(t, err)
	assert.Equal(t, wrongPass, err.Error(), "unknown email and bad password are indistinguishable")
}
