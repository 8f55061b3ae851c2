package services

import (
	"errors"

	"github.com/hbdiaz/ferremat/app/models"
	"github.com/hbdiaz/ferremat/app/repositories"
	"github.com/hbdiaz/ferremat/pkg/apperr"
	"github.com/hbdiaz/ferremat/pkg/auth"
	"gorm.io/gorm"
)

type UserService struct {
	users *repositories.UserRepository
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{users: repositories.NewUserRepository(db)}
}

// List returns all accounts. Admin only.
func (s *UserService) List(caller auth.Caller) ([]models.User, error) {
	if !caller.IsAdmin() {
		return nil, apperr.New(apperr.Permission, "No autorizado")
	}
	users, err := s.users.All()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "error listando usuarios")
	}
	return users, nil
}

// Get returns one account. Admins see anyone; users see themselves.
func (s *UserService) Get(caller auth.Caller, id uint) (*models.User, error) {
	if !caller.IsAdmin() && !caller.Owns(id) {
		return nil, apperr.New(apperr.Permission, "No autorizado")
	}

	user, err := s.users.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Usuario no encontrado")
		}
		return nil, apperr.Wrap(apperr.Internal, err, "error consultando usuario")
	}
	return user, nil
}

// UpdateUserInput carries optional profile changes. Rol is honoured only
// when the caller is an admin.
type UpdateUserInput struct {
	NombreCompleto *string `json:"nombreCompleto" validate:"nullable,min=3,max=255"`
	Email          *string `json:"email" validate:"nullable,email"`
	Password       *string `json:"password" validate:"nullable,min=8,max=72"`
	Rol            *string `json:"rol" validate:"nullable,in=administrador,usuario,repartidor"`
}

// Update applies profile changes. Admins edit anyone; users edit themselves.
func (s *UserService) Update(caller auth.Caller, id uint, in UpdateUserInput) (*models.User, error) {
	user, err := s.Get(caller, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != user.Email {
		if _, err := s.users.FindByEmail(*in.Email); err == nil {
			return nil, apperr.New(apperr.BusinessRule, "El email ya está registrado")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Wrap(apperr.Internal, err, "error consultando usuarios")
		}
		user.Email = *in.Email
	}
	if in.NombreCompleto != nil {
		user.NombreCompleto = *in.NombreCompleto
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, err, "error generando hash de contraseña")
		}
		user.Password = hash
	}
	if in.Rol != nil {
		if !caller.IsAdmin() {
			return nil, apperr.New(apperr.Permission, "Solo un administrador puede cambiar roles")
		}
		user.Rol = *in.Rol
	}

	if err := s.users.Update(user); err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "error actualizando usuario")
	}
	return user, nil
}

// Delete removes an account. Admin only; admins cannot delete themselves.
func (s *UserService) Delete(caller auth.Caller, id uint) error {
	if !caller.IsAdmin() {
		return apperr.New(apperr.Permission, "No autorizado")
	}
	if caller.Owns(id) {
		return apperr.New(apperr.BusinessRule, "No puedes eliminar tu propia cuenta")
	}

	if _, err := s.users.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "Usuario no encontrado")
		}
		return apperr.Wrap(apperr.Internal, err, "error consultando usuario")
	}

	if err := s.users.Delete(id); err != nil {
		return apperr.Wrap(apperr.Internal, err, "error eliminando usuario")
	}
	return nil
}
