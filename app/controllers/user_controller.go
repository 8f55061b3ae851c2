package controllers

import (
	"github.com/hbdiaz/ferremat/app/services"
	"github.com/hbdiaz/ferremat/pkg/ctx"
	"github.com/hbdiaz/ferremat/pkg/response"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// Index handles GET /api/users (admin).
func (c *UserController) Index(cx *ctx.Context) {
	caller, ok := cx.Caller()
	if !ok {
		response.Unauthorized(cx.W)
		return
	}

	users, err := c.users.List(caller)
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Success("Usuarios obtenidos exitosamente", users)
}

// Show handles GET /api/users/{id}.
func (c *UserController) Show(cx *ctx.Context) {
	caller, ok := cx.Caller()
	if !ok {
		response.Unauthorized(cx.W)
		return
	}

	id, err := cx.ParamUint("id")
	if err != nil {
		cx.NotFound("Usuario no encontrado")
		return
	}

	user, err := c.users.Get(caller, id)
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Success("Usuario obtenido exitosamente", user)
}

// Update handles PATCH /api/users/{id}.
func (c *UserController) Update(cx *ctx.Context) {
	caller, ok := cx.Caller()
	if !ok {
		response.Unauthorized(cx.W)
		return
	}

	id, err := cx.ParamUint("id")
	if err != nil {
		cx.NotFound("Usuario no encontrado")
		return
	}

	var in services.UpdateUserInput
	if !cx.BindJSON(&in) {
		return
	}

	user, err := c.users.Update(caller, id, in)
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Success("Usuario actualizado exitosamente", user)
}

// Destroy handles DELETE /api/users/{id} (admin).
func (c *UserController) Destroy(cx *ctx.Context) {
	caller, ok := cx.Caller()
	if !ok {
		response.Unauthorized(cx.W)
		return
	}

	id, err := cx.ParamUint("id")
	if err != nil {
		cx.NotFound("Usuario no encontrado")
		return
	}

	if err := c.users.Delete(caller, id); err != nil {
		fail(cx, err)
		return
	}
	cx.Success("Usuario eliminado exitosamente", nil)
}
