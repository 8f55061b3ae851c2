package controllers

import (
	"github.com/hbdiaz/ferremat/app/models"
	"github.com/hbdiaz/ferremat/app/services"
	"github.com/hbdiaz/ferremat/pkg/apperr"
	"github.com/hbdiaz/ferremat/pkg/ctx"
	"github.com/hbdiaz/ferremat/pkg/response"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Store handles POST /api/orders.
func (c *OrderController) Store(cx *ctx.Context) {
	caller, ok := cx.Caller()
	if !ok {
		response.Unauthorized(cx.W)
		return
	}

	var in services.CreateOrderInput
	if !cx.BindJSON(&in) {
		return
	}

	order, err := c.orders.CreateOrder(caller, in)
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Created("Orden creada exitosamente", order)
}

// Index handles GET /api/orders?estado&fechaDesde&fechaHasta&onlyOwn.
func (c *OrderController) Index(cx *ctx.Context) {
	caller, ok := cx.Caller()
	if !ok {
		response.Unauthorized(cx.W)
		return
	}

	in := services.ListOrdersInput{
		Estado:     cx.Query("estado"),
		FechaDesde: cx.Query("fechaDesde"),
		FechaHasta: cx.Query("fechaHasta"),
		OnlyOwn:    cx.Query("onlyOwn") == "true",
	}

	orders, err := c.orders.ListOrders(caller, in)
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Success("Órdenes obtenidas exitosamente", orders)
}

// Show handles GET /api/orders/{id}. Another user's order is reported as
// not found rather than forbidden, so order ids don't leak.
func (c *OrderController) Show(cx *ctx.Context) {
	caller, ok := cx.Caller()
	if !ok {
		response.Unauthorized(cx.W)
		return
	}

	id, err := cx.ParamUint("id")
	if err != nil {
		cx.NotFound("Orden no encontrada")
		return
	}

	order, err := c.orders.GetOrder(caller, id)
	if err != nil {
		if apperr.KindOf(err) == apperr.Permission {
			cx.NotFound("Orden no encontrada")
			return
		}
		fail(cx, err)
		return
	}
	cx.Success("Orden obtenida exitosamente", order)
}

// updateStatusInput is the PATCH /status body.
type updateStatusInput struct {
	Estado string `json:"estado" validate:"required,in=pendiente,procesando,enviado,entregado,cancelado"`
}

// UpdateStatus handles PATCH /api/orders/{id}/status (admin).
func (c *OrderController) UpdateStatus(cx *ctx.Context) {
	caller, ok := cx.Caller()
	if !ok {
		response.Unauthorized(cx.W)
		return
	}

	id, err := cx.ParamUint("id")
	if err != nil {
		cx.NotFound("Orden no encontrada")
		return
	}

	var in updateStatusInput
	if !cx.BindJSON(&in) {
		return
	}

	order, err := c.orders.UpdateStatus(caller, id, models.EstadoOrden(in.Estado))
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Success("Estado actualizado exitosamente", order)
}

// Cancel handles DELETE /api/orders/{id} (self-service cancellation).
func (c *OrderController) Cancel(cx *ctx.Context) {
	caller, ok := cx.Caller()
	if !ok {
		response.Unauthorized(cx.W)
		return
	}

	id, err := cx.ParamUint("id")
	if err != nil {
		cx.NotFound("Orden no encontrada")
		return
	}

	order, err := c.orders.CancelOrder(caller, id)
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Success("Orden cancelada exitosamente", order)
}

// Stats handles GET /api/orders/stats (admin).
func (c *OrderController) Stats(cx *ctx.Context) {
	caller, ok := cx.Caller()
	if !ok {
		response.Unauthorized(cx.W)
		return
	}

	stats, err := c.orders.Stats(caller)
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Success("Estadísticas obtenidas exitosamente", stats)
}
