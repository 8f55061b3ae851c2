package repositories

import (
	"time"

	"github.com/hbdiaz/ferremat/app/models"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// DB exposes the underlying handle for transactional work in the service.
func (r *OrderRepository) DB() *gorm.DB { return r.db }

// OrderFilters narrows List. Zero values mean "no filter".
type OrderFilters struct {
	UserID     uint // restrict to one buyer's orders
	Estado     models.EstadoOrden
	FechaDesde *time.Time
	FechaHasta *time.Time
}

func withAssociations(q *gorm.DB) *gorm.DB {
	return q.Preload("Items").Preload("Items.Product").Preload("User")
}

// List returns orders newest-first with items, products, and buyer loaded.
func (r *OrderRepository) List(f OrderFilters) ([]models.Order, error) {
	q := withAssociations(r.db)

	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Estado != "" {
		q = q.Where("estado = ?", f.Estado)
	}
	if f.FechaDesde != nil {
		q = q.Where("created_at >= ?", *f.FechaDesde)
	}
	if f.FechaHasta != nil {
		q = q.Where("created_at <= ?", *f.FechaHasta)
	}

	orders := make([]models.Order, 0)
	err := q.Order("created_at desc").Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) FindByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := withAssociations(r.db).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// NumeroOrdenExists reports whether a generated order number is taken,
// querying through tx so the check sees uncommitted rows of the caller's
// own transaction.
func NumeroOrdenExists(tx *gorm.DB, numero string) (bool, error) {
	var n int64
	err := tx.Model(&models.Order{}).Where("numero_orden = ?", numero).Count(&n).Error
	return n > 0, err
}

func (r *OrderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

// CountByEstado returns order counts grouped by estado.
func (r *OrderRepository) CountByEstado() ([]models.EstadoCount, error) {
	counts := make([]models.EstadoCount, 0)
	err := r.db.Model(&models.Order{}).
		Select("estado, COUNT(*) as cantidad").
		Group("estado").
		Scan(&counts).Error
	return counts, err
}

// SumTotalBetween sums order totals in [desde, hasta) excluding cancelled
// orders. Returns 0 when there are none.
func (r *OrderRepository) SumTotalBetween(desde, hasta time.Time) (float64, error) {
	var sum *float64
	err := r.db.Model(&models.Order{}).
		Select("SUM(total)").
		Where("created_at >= ? AND created_at < ?", desde, hasta).
		Where("estado <> ?", models.EstadoCancelado).
		Scan(&sum).Error
	if err != nil || sum == nil {
		return 0, err
	}
	return *sum, nil
}

// CountBetween counts orders created in [desde, hasta), any estado.
func (r *OrderRepository) CountBetween(desde, hasta time.Time) (int64, error) {
	var n int64
	err := r.db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", desde, hasta).
		Count(&n).Error
	return n, err
}

// Count counts all orders.
func (r *OrderRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.Order{}).Count(&n).Error
	return n, err
}
