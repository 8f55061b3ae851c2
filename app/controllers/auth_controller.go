package controllers

import (
	"github.com/hbdiaz/ferremat/app/services"
	"github.com/hbdiaz/ferremat/pkg/ctx"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Register handles POST /api/auth/register.
func (c *AuthController) Register(cx *ctx.Context) {
	var in services.RegisterInput
	if !cx.BindJSON(&in) {
		return
	}

	user, err := c.auth.Register(in)
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Created("Usuario registrado exitosamente", user)
}

// Login handles POST /api/auth/login.
func (c *AuthController) Login(cx *ctx.Context) {
	var in services.LoginInput
	if !cx.BindJSON(&in) {
		return
	}

	result, err := c.auth.Login(in)
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Success("Inicio de sesión exitoso", result)
}
