package repositories

import (
	"github.com/hbdiaz/ferremat/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(p *models.Product) error {
	return r.db.Create(p).Error
}

func (r *ProductRepository) FindByID(id uint) (*models.Product, error) {
	var p models.Product
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) FindByCodigo(codigo string) (*models.Product, error) {
	var p models.Product
	if err := r.db.Where("codigo = ?", codigo).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) FindByNombre(nombre string) (*models.Product, error) {
	var p models.Product
	if err := r.db.Where("nombre = ?", nombre).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) All() ([]models.Product, error) {
	products := make([]models.Product, 0)
	err := r.db.Order("created_at desc").Find(&products).Error
	return products, err
}

func (r *ProductRepository) Update(p *models.Product) error {
	return r.db.Save(p).Error
}

func (r *ProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// FindForUpdate loads a product inside tx with a row lock where the dialect
// supports it. sqlite serializes writers on its own, and errors on FOR
// UPDATE, so the lock clause is skipped there.
func FindForUpdate(tx *gorm.DB, id uint) (*models.Product, error) {
	q := tx
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var p models.Product
	if err := q.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
