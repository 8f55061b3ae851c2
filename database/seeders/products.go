package seeders

import (
	"errors"

	"github.com/hbdiaz/ferremat/app/models"
	"gorm.io/gorm"
)

func init() {
	Register("products", SeedProducts)
}

// SeedProducts loads a small starter catalogue. Existing códigos are skipped.
func SeedProducts(db *gorm.DB) error {
	marca := func(s string) *string { return &s }

	seeds := []models.Product{
		{
			Nombre: "Cemento Portland 25kg", Codigo: "CEM-001",
			Descripcion: "Cemento de uso general para obras menores y estructurales.",
			Precio:      4990, Stock: 200, Categoria: "cementos",
			UnidadMedida: "saco", Marca: marca("Polpaico"), Descuento: 0, Activo: true,
		},
		{
			Nombre: "Fierro estriado 8mm x 6m", Codigo: "FIE-008",
			Descripcion: "Barra de acero estriado para hormigón armado.",
			Precio:      3490, Stock: 500, Categoria: "fierros",
			UnidadMedida: "unidad", Marca: marca("CAP"), Descuento: 5, Activo: true,
		},
		{
			Nombre: "Plancha yeso cartón 10mm", Codigo: "YES-010",
			Descripcion: "Plancha de yeso cartón estándar 1.20 x 2.40 m.",
			Precio:      6290, Stock: 120, Categoria: "tabiquería",
			UnidadMedida: "plancha", Marca: marca("Volcanita"), Descuento: 0, Activo: true,
		},
		{
			Nombre: "Pintura látex blanco 1gl", Codigo: "PIN-001",
			Descripcion: "Látex lavable para interiores, rendimiento 40 m² por galón.",
			Precio:      12990, Stock: 80, Categoria: "pinturas",
			UnidadMedida: "galón", Marca: marca("Tricolor"), Descuento: 10, Activo: true,
		},
	}

	for _, p := range seeds {
		var existing models.Product
		err := db.Where("codigo = ?", p.Codigo).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&p).Error; err != nil {
			return err
		}
	}
	return nil
}
