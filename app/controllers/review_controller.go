package controllers

import (
	"github.com/hbdiaz/ferremat/app/services"
	"github.com/hbdiaz/ferremat/pkg/ctx"
	"github.com/hbdiaz/ferremat/pkg/response"
)

type ReviewController struct {
	reviews *services.ReviewService
}

func NewReviewController(reviews *services.ReviewService) *ReviewController {
	return &ReviewController{reviews: reviews}
}

// ByProduct handles GET /api/reviews/product/{productId} (public).
func (c *ReviewController) ByProduct(cx *ctx.Context) {
	productID, err := cx.ParamUint("productId")
	if err != nil {
		cx.NotFound("Producto no encontrado")
		return
	}

	result, err := c.reviews.ListByProduct(productID)
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Success("Reseñas obtenidas exitosamente", result)
}

// Mine handles GET /api/reviews/product/{productId}/mine.
func (c *ReviewController) Mine(cx *ctx.Context) {
	caller, ok := cx.Caller()
	if !ok {
		response.Unauthorized(cx.W)
		return
	}

	productID, err := cx.ParamUint("productId")
	if err != nil {
		cx.NotFound("Producto no encontrado")
		return
	}

	review, err := c.reviews.Mine(caller, productID)
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Success("Reseña obtenida exitosamente", review)
}

// Store handles POST /api/reviews.
func (c *ReviewController) Store(cx *ctx.Context) {
	caller, ok := cx.Caller()
	if !ok {
		response.Unauthorized(cx.W)
		return
	}

	var in services.CreateReviewInput
	if !cx.BindJSON(&in) {
		return
	}

	review, err := c.reviews.Create(caller, in)
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Created("Reseña creada exitosamente", review)
}

// Update handles PATCH /api/reviews/{id}.
func (c *ReviewController) Update(cx *ctx.Context) {
	caller, ok := cx.Caller()
	if !ok {
		response.Unauthorized(cx.W)
		return
	}

	id, err := cx.ParamUint("id")
	if err != nil {
		cx.NotFound("Reseña no encontrada")
		return
	}

	var in services.UpdateReviewInput
	if !cx.BindJSON(&in) {
		return
	}

	review, err := c.reviews.Update(caller, id, in)
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Success("Reseña actualizada exitosamente", review)
}

// Destroy handles DELETE /api/reviews/{id}.
func (c *ReviewController) Destroy(cx *ctx.Context) {
	caller, ok := cx.Caller()
	if !ok {
		response.Unauthorized(cx.W)
		return
	}

	id, err := cx.ParamUint("id")
	if err != nil {
		cx.NotFound("Reseña no encontrada")
		return
	}

	if err := c.reviews.Delete(caller, id); err != nil {
		fail(cx, err)
		return
	}
	cx.Success("Reseña eliminada exitosamente", nil)
}
