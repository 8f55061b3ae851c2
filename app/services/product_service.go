package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/hbdiaz/ferremat/app/models"
	"github.com/hbdiaz/ferremat/app/repositories"
	"github.com/hbdiaz/ferremat/pkg/apperr"
	"github.com/hbdiaz/ferremat/pkg/auth"
	"github.com/hbdiaz/ferremat/pkg/cache"
	"github.com/hbdiaz/ferremat/pkg/metrics"
	"github.com/hbdiaz/ferremat/pkg/storage"
	"gorm.io/gorm"
)

// productListCacheKey caches the full catalogue listing; invalidated on any
// product mutation.
const (
	productListCacheKey = "products:all"
	productListCacheTTL = 5 * time.Minute
)

type ProductService struct {
	products *repositories.ProductRepository
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{products: repositories.NewProductRepository(db)}
}

// CreateProductInput is the admin catalogue-entry payload.
type CreateProductInput struct {
	Nombre       string   `json:"nombre" validate:"required,min=3,max=255"`
	Codigo       string   `json:"codigo" validate:"required,min=2,max=100"`
	Descripcion  string   `json:"descripcion" validate:"nullable,max=2000"`
	Precio       float64  `json:"precio" validate:"required,gt=0"`
	Stock        int      `json:"stock" validate:"gte=0"`
	Categoria    string   `json:"categoria" validate:"required,max=100"`
	UnidadMedida string   `json:"unidadMedida" validate:"nullable,max=50"`
	Marca        *string  `json:"marca" validate:"nullable,max=100"`
	Descuento    float64  `json:"descuento" validate:"gte=0,lte=100"`
	Peso         *float64 `json:"peso" validate:"nullable,gt=0"`
	Dimensiones  *string  `json:"dimensiones" validate:"nullable,max=100"`
}

// Create adds a catalogue item. Duplicate nombre or codigo is rejected.
func (s *ProductService) Create(caller auth.Caller, in CreateProductInput) (*models.Product, error) {
	if !caller.IsAdmin() {
		return nil, apperr.New(apperr.Permission, "No autorizado")
	}

	if err := s.ensureUniqueNombre(in.Nombre, 0); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCodigo(in.Codigo, 0); err != nil {
		return nil, err
	}

	unidad := in.UnidadMedida
	if unidad == "" {
		unidad = "unidad"
	}

	p := &models.Product{
		Nombre:       in.Nombre,
		Codigo:       in.Codigo,
		Descripcion:  in.Descripcion,
		Precio:       in.Precio,
		Stock:        in.Stock,
		Categoria:    in.Categoria,
		UnidadMedida: unidad,
		Marca:        in.Marca,
		Descuento:    in.Descuento,
		Peso:         in.Peso,
		Dimensiones:  in.Dimensiones,
		Activo:       true,
	}
	if err := s.products.Create(p); err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "error creando producto")
	}

	cache.Del(productListCacheKey)
	return p, nil
}

// Get returns one product by id.
func (s *ProductService) Get(id uint) (*models.Product, error) {
	p, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Producto no encontrado")
		}
		return nil, apperr.Wrap(apperr.Internal, err, "error consultando producto")
	}
	return p, nil
}

// List returns the catalogue newest-first, served from redis when warm.
func (s *ProductService) List() ([]models.Product, error) {
	var cached []models.Product
	if cache.Get(productListCacheKey, &cached) {
		metrics.CacheHits.WithLabelValues("redis").Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues("redis").Inc()

	products, err := s.products.All()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "error listando productos")
	}

	cache.Set(productListCacheKey, products, productListCacheTTL)
	return products, nil
}

// UpdateProductInput carries optional catalogue changes.
type UpdateProductInput struct {
	Nombre       *string  `json:"nombre" validate:"nullable,min=3,max=255"`
	Codigo       *string  `json:"codigo" validate:"nullable,min=2,max=100"`
	Descripcion  *string  `json:"descripcion" validate:"nullable,max=2000"`
	Precio       *float64 `json:"precio" validate:"nullable,gt=0"`
	Stock        *int     `json:"stock" validate:"nullable,gte=0"`
	Categoria    *string  `json:"categoria" validate:"nullable,max=100"`
	UnidadMedida *string  `json:"unidadMedida" validate:"nullable,max=50"`
	Marca        *string  `json:"marca" validate:"nullable,max=100"`
	Descuento    *float64 `json:"descuento" validate:"nullable,gte=0,lte=100"`
	Peso         *float64 `json:"peso" validate:"nullable,gt=0"`
	Dimensiones  *string  `json:"dimensiones" validate:"nullable,max=100"`
	Activo       *bool    `json:"activo"`
}

// Update applies catalogue changes, re-checking uniqueness against other rows.
func (s *ProductService) Update(caller auth.Caller, id uint, in UpdateProductInput) (*models.Product, error) {
	if !caller.IsAdmin() {
		return nil, apperr.New(apperr.Permission, "No autorizado")
	}

	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if in.Nombre != nil && *in.Nombre != p.Nombre {
		if err := s.ensureUniqueNombre(*in.Nombre, p.ID); err != nil {
			return nil, err
		}
		p.Nombre = *in.Nombre
	}
	if in.Codigo != nil && *in.Codigo != p.Codigo {
		if err := s.ensureUniqueCodigo(*in.Codigo, p.ID); err != nil {
			return nil, err
		}
		p.Codigo = *in.Codigo
	}
	if in.Descripcion != nil {
		p.Descripcion = *in.Descripcion
	}
	if in.Precio != nil {
		p.Precio = *in.Precio
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Categoria != nil {
		p.Categoria = *in.Categoria
	}
	if in.UnidadMedida != nil {
		p.UnidadMedida = *in.UnidadMedida
	}
	if in.Marca != nil {
		p.Marca = in.Marca
	}
	if in.Descuento != nil {
		p.Descuento = *in.Descuento
	}
	if in.Peso != nil {
		p.Peso = in.Peso
	}
	if in.Dimensiones != nil {
		p.Dimensiones = in.Dimensiones
	}
	if in.Activo != nil {
		p.Activo = *in.Activo
	}

	if err := s.products.Update(p); err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "error actualizando producto")
	}

	cache.Del(productListCacheKey)
	return p, nil
}

// Delete removes a catalogue item. Order items referencing it keep their
// snapshot and get a NULL product id.
func (s *ProductService) Delete(caller auth.Caller, id uint) error {
	if !caller.IsAdmin() {
		return apperr.New(apperr.Permission, "No autorizado")
	}

	if _, err := s.Get(id); err != nil {
		return err
	}

	if err := s.products.Delete(id); err != nil {
		return apperr.Wrap(apperr.Internal, err, "error eliminando producto")
	}

	cache.Del(productListCacheKey)
	return nil
}

var allowedImageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
}

// UploadImage stores a product image on the configured disk and records its
// public URL on the product.
func (s *ProductService) UploadImage(caller auth.Caller, id uint, file multipart.File, header *multipart.FileHeader) (*models.Product, error) {
	if !caller.IsAdmin() {
		return nil, apperr.New(apperr.Permission, "No autorizado")
	}

	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		return nil, apperr.New(apperr.Validation, "Formato de imagen no soportado (jpg, jpeg, png, webp)")
	}

	path := fmt.Sprintf("productos/%d%s", p.ID, ext)
	if err := storage.PutStream(path, file); err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "error guardando imagen")
	}

	url := storage.URL(path)
	p.ImagenUrl = &url
	if err := s.products.Update(p); err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "error actualizando producto")
	}

	cache.Del(productListCacheKey)
	return p, nil
}

func (s *ProductService) ensureUniqueNombre(nombre string, selfID uint) error {
	existing, err := s.products.FindByNombre(nombre)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperr.Wrap(apperr.Internal, err, "error consultando productos")
	}
	if existing.ID != selfID {
		return apperr.New(apperr.BusinessRule, "Ya existe un producto con ese nombre")
	}
	return nil
}

func (s *ProductService) ensureUniqueCodigo(codigo string, selfID uint) error {
	existing, err := s.products.FindByCodigo(codigo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperr.Wrap(apperr.Internal, err, "error consultando productos")
	}
	if existing.ID != selfID {
		return apperr.New(apperr.BusinessRule, "Ya existe un producto con ese código")
	}
	return nil
}
