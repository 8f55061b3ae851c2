package controllers

import (
	"github.com/hbdiaz/ferremat/app/services"
	"github.com/hbdiaz/ferremat/pkg/ctx"
	"github.com/hbdiaz/ferremat/pkg/response"
)

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// Index handles GET /api/products (public).
func (c *ProductController) Index(cx *ctx.Context) {
	products, err := c.products.List()
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Success("Productos obtenidos exitosamente", products)
}

// Show handles GET /api/products/{id} (public).
func (c *ProductController) Show(cx *ctx.Context) {
	id, err := cx.ParamUint("id")
	if err != nil {
		cx.NotFound("Producto no encontrado")
		return
	}

	product, err := c.products.Get(id)
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Success("Producto obtenido exitosamente", product)
}

// Store handles POST /api/products (admin).
func (c *ProductController) Store(cx *ctx.Context) {
	caller, ok := cx.Caller()
	if !ok {
		response.Unauthorized(cx.W)
		return
	}

	var in services.CreateProductInput
	if !cx.BindJSON(&in) {
		return
	}

	product, err := c.products.Create(caller, in)
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Created("Producto creado exitosamente", product)
}

// Update handles PATCH /api/products/{id} (admin).
func (c *ProductController) Update(cx *ctx.Context) {
	caller, ok := cx.Caller()
	if !ok {
		response.Unauthorized(cx.W)
		return
	}

	id, err := cx.ParamUint("id")
	if err != nil {
		cx.NotFound("Producto no encontrado")
		return
	}

	var in services.UpdateProductInput
	if !cx.BindJSON(&in) {
		return
	}

	product, err := c.products.Update(caller, id, in)
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Success("Producto actualizado exitosamente", product)
}

// Destroy handles DELETE /api/products/{id} (admin).
func (c *ProductController) Destroy(cx *ctx.Context) {
	caller, ok := cx.Caller()
	if !ok {
		response.Unauthorized(cx.W)
		return
	}

	id, err := cx.ParamUint("id")
	if err != nil {
		cx.NotFound("Producto no encontrado")
		return
	}

	if err := c.products.Delete(caller, id); err != nil {
		fail(cx, err)
		return
	}
	cx.Success("Producto eliminado exitosamente", nil)
}

// UploadImage handles POST /api/products/{id}/imagen (admin, multipart).
func (c *ProductController) UploadImage(cx *ctx.Context) {
	caller, ok := cx.Caller()
	if !ok {
		response.Unauthorized(cx.W)
		return
	}

	id, err := cx.ParamUint("id")
	if err != nil {
		cx.NotFound("Producto no encontrado")
		return
	}

	file, header, err := cx.FormFile("imagen")
	if err != nil {
		cx.Error(400, "Archivo 'imagen' requerido")
		return
	}
	defer file.Close()

	product, err := c.products.UploadImage(caller, id, file, header)
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Success("Imagen actualizada exitosamente", product)
}
