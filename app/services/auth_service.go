// Package services holds the business logic. Services return (result, error)
// where errors carry an apperr.Kind that controllers map to an HTTP status.
package services

import (
	"errors"

	"github.com/hbdiaz/ferremat/app/models"
	"github.com/hbdiaz/ferremat/app/repositories"
	"github.com/hbdiaz/ferremat/pkg/apperr"
	"github.com/hbdiaz/ferremat/pkg/auth"
	"gorm.io/gorm"
)

type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{users: repositories.NewUserRepository(db)}
}

// RegisterInput is the sign-up payload.
type RegisterInput struct {
	NombreCompleto string `json:"nombreCompleto" validate:"required,min=3,max=255"`
	Rut            string `json:"rut" validate:"required,rut"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8,max=72"`
}

// Register creates a new account with the usuario role.
func (s *AuthService) Register(in RegisterInput) (*models.User, error) {
	if _, err := s.users.FindByEmail(in.Email); err == nil {
		return nil, apperr.New(apperr.BusinessRule, "El email ya está registrado")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.Internal, err, "error consultando usuarios")
	}

	if _, err := s.users.FindByRut(in.Rut); err == nil {
		return nil, apperr.New(apperr.BusinessRule, "El RUT ya está registrado")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.Internal, err, "error consultando usuarios")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "error generando hash de contraseña")
	}

	user := &models.User{
		NombreCompleto: in.NombreCompleto,
		Rut:            in.Rut,
		Email:          in.Email,
		Password:       hash,
		Rol:            models.RolUsuario,
	}
	if err := s.users.Create(user); err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "error creando usuario")
	}
	return user, nil
}

// LoginInput is the sign-in payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the issued token and the authenticated user.
type LoginResult struct {
	Token   string       `json:"token"`
	Usuario *models.User `json:"usuario"`
}

// Login verifies credentials and issues a JWT. Wrong email and wrong
// password produce the same message.
func (s *AuthService) Login(in LoginInput) (*LoginResult, error) {
	user, err := s.users.FindByEmail(in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.Permission, "Credenciales inválidas")
		}
		return nil, apperr.Wrap(apperr.Internal, err, "error consultando usuarios")
	}

	if !auth.CheckPassword(user.Password, in.Password) {
		return nil, apperr.New(apperr.Permission, "Credenciales inválidas")
	}

	token, err := auth.GenerateToken(user.ID, user.Rol)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "error generando token")
	}

	return &LoginResult{Token: token, Usuario: user}, nil
}
