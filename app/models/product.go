package models

import "time"

// Product is a catalogue item. Precio is the list price; Descuento is a
// percentage (0-100) applied at checkout time.
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Nombre      string    `gorm:"column:nombre;size:255;uniqueIndex;not null" json:"nombre"`
	Codigo      string    `gorm:"column:codigo;size:100;uniqueIndex;not null" json:"codigo"`
	Descripcion string    `gorm:"column:descripcion;type:text" json:"descripcion"`
	Precio      float64   `gorm:"column:precio;type:decimal(10,2);not null" json:"precio"`
	Stock       int       `gorm:"column:stock;not null;default:0" json:"stock"`
	Categoria   string    `gorm:"column:categoria;size:100;index" json:"categoria"`
	UnidadMedida string   `gorm:"column:unidad_medida;size:50;default:unidad" json:"unidadMedida"`
	Marca       *string   `gorm:"column:marca;size:100" json:"marca,omitempty"`
	ImagenUrl   *string   `gorm:"column:imagen_url;size:500" json:"imagenUrl,omitempty"`
	Descuento   float64   `gorm:"column:descuento;type:decimal(5,2);default:0" json:"descuento"`
	Peso        *float64  `gorm:"column:peso;type:decimal(10,3)" json:"peso,omitempty"`
	Dimensiones *string   `gorm:"column:dimensiones;size:100" json:"dimensiones,omitempty"`
	Activo      bool      `gorm:"column:activo;default:true" json:"activo"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Product) TableName() string { return "products" }
