package services

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/hbdiaz/ferremat/app/models"
	"github.com/hbdiaz/ferremat/app/repositories"
	"github.com/hbdiaz/ferremat/pkg/apperr"
	"github.com/hbdiaz/ferremat/pkg/auth"
	"github.com/hbdiaz/ferremat/pkg/logger"
	"github.com/hbdiaz/ferremat/pkg/metrics"
	"github.com/hbdiaz/ferremat/pkg/validate"
	"gorm.io/gorm"
)

// numeroOrdenAttempts bounds the retry loop when a generated order number
// collides with an existing one.
const numeroOrdenAttempts = 5

type OrderService struct {
	db     *gorm.DB
	orders *repositories.OrderRepository
	users  *repositories.UserRepository
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{
		db:     db,
		orders: repositories.NewOrderRepository(db),
		users:  repositories.NewUserRepository(db),
	}
}

// round2 rounds money to 2 decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// OrderItemInput is one requested line at checkout.
type OrderItemInput struct {
	ProductID uint `json:"productId" validate:"required"`
	Cantidad  int  `json:"cantidad" validate:"required,gte=1"`
}

// CreateOrderInput is the checkout payload.
type CreateOrderInput struct {
	Items            []OrderItemInput `json:"items" validate:"required"`
	MetodoPago       string           `json:"metodoPago" validate:"required,in=efectivo,transferencia,tarjeta,debito"`
	DireccionEnvio   string           `json:"direccionEnvio" validate:"required,min=10,max=500"`
	TelefonoContacto string           `json:"telefonoContacto" validate:"required,phone"`
	Notas            *string          `json:"notas" validate:"nullable,max=1000"`
}

// CreateOrder places an order for the caller. The whole sequence runs in one
// transaction with row locks on each product: stock is checked and
// decremented per line, pricing is snapshotted, and a unique numeroOrden is
// generated. Any failure rolls back every decrement.
func (s *OrderService) CreateOrder(caller auth.Caller, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperr.New(apperr.Validation, "La orden debe incluir al menos un producto")
	}

	if _, err := s.users.FindByID(caller.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Usuario no encontrado")
		}
		return nil, apperr.Wrap(apperr.Internal, err, "error consultando usuario")
	}

	var orderID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var (
			subtotal       float64
			descuentoTotal float64
			items          []models.OrderItem
		)

		for _, line := range in.Items {
			if line.Cantidad < 1 {
				return apperr.New(apperr.Validation, "La cantidad debe ser al menos 1")
			}

			product, err := repositories.FindForUpdate(tx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.New(apperr.NotFound, "Producto %d no encontrado", line.ProductID)
				}
				return apperr.Wrap(apperr.Internal, err, "error consultando producto")
			}

			if product.Stock < line.Cantidad {
				metrics.StockRejections.Inc()
				return apperr.New(apperr.BusinessRule,
					"Stock insuficiente para %s (disponible: %d)", product.Nombre, product.Stock)
			}

			// Snapshot pricing at checkout.
			lineGross := product.Precio * float64(line.Cantidad)
			lineNet := product.Precio * (1 - product.Descuento/100) * float64(line.Cantidad)

			subtotal += lineGross
			descuentoTotal += lineGross - lineNet

			productID := product.ID
			items = append(items, models.OrderItem{
				ProductID:      &productID,
				NombreProducto: product.Nombre,
				Cantidad:       line.Cantidad,
				PrecioUnitario: product.Precio,
				Descuento:      product.Descuento,
				Subtotal:       round2(lineNet),
			})

			product.Stock -= line.Cantidad
			if err := tx.Save(product).Error; err != nil {
				return apperr.Wrap(apperr.Internal, err, "error actualizando stock")
			}
		}

		numero, err := s.generateNumeroOrden(tx)
		if err != nil {
			return err
		}

		order := models.Order{
			NumeroOrden:      numero,
			UserID:           caller.ID,
			Estado:           models.EstadoPendiente,
			Subtotal:         round2(subtotal),
			DescuentoTotal:   round2(descuentoTotal),
			Total:            round2(subtotal - descuentoTotal),
			MetodoPago:       in.MetodoPago,
			DireccionEnvio:   in.DireccionEnvio,
			TelefonoContacto: in.TelefonoContacto,
			Notas:            in.Notas,
			Items:            items,
		}
		if err := tx.Create(&order).Error; err != nil {
			return apperr.Wrap(apperr.Internal, err, "error creando orden")
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	created, repoErr := s.orders.FindByID(orderID)
	if repoErr != nil {
		return nil, apperr.Wrap(apperr.Internal, repoErr, "error consultando orden creada")
	}

	metrics.OrdersCreated.Inc()
	logger.Info("orden creada",
		"numeroOrden", created.NumeroOrden,
		"userId", created.UserID,
		"total", created.Total,
	)
	return created, nil
}

// generateNumeroOrden builds ORD-YYYYMMDD-RRR with a random 3-digit suffix,
// retrying on collision a bounded number of times.
func (s *OrderService) generateNumeroOrden(tx *gorm.DB) (string, error) {
	day := time.Now().Format("20060102")

	for i := 0; i < numeroOrdenAttempts; i++ {
		numero := fmt.Sprintf("ORD-%s-%03d", day, rand.Intn(1000))

		taken, err := repositories.NumeroOrdenExists(tx, numero)
		if err != nil {
			return "", apperr.Wrap(apperr.Internal, err, "error consultando números de orden")
		}
		if !taken {
			return numero, nil
		}
	}

	return "", apperr.New(apperr.Internal, "no fue posible generar un número de orden único")
}

// ListOrdersInput narrows ListOrders. Dates accept 2006-01-02 or RFC3339.
type ListOrdersInput struct {
	Estado     string
	FechaDesde string
	FechaHasta string
	OnlyOwn    bool
}

// ListOrders returns visible orders newest-first. Non-admins only ever see
// their own orders; admins see everything unless OnlyOwn is set.
func (s *OrderService) ListOrders(caller auth.Caller, in ListOrdersInput) ([]models.Order, error) {
	filters := repositories.OrderFilters{}

	if !caller.IsAdmin() || in.OnlyOwn {
		filters.UserID = caller.ID
	}

	if in.Estado != "" {
		estado := models.EstadoOrden(in.Estado)
		if !models.ValidEstado(estado) {
			return nil, apperr.New(apperr.Validation, "Estado inválido: %s", in.Estado)
		}
		filters.Estado = estado
	}

	if in.FechaDesde != "" {
		t, err := validate.ParseDate(in.FechaDesde)
		if err != nil {
			return nil, apperr.New(apperr.Validation, "fechaDesde inválida")
		}
		filters.FechaDesde = &t
	}
	if in.FechaHasta != "" {
		t, err := validate.ParseDate(in.FechaHasta)
		if err != nil {
			return nil, apperr.New(apperr.Validation, "fechaHasta inválida")
		}
		filters.FechaHasta = &t
	}

	orders, err := s.orders.List(filters)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "error listando órdenes")
	}
	return orders, nil
}

// GetOrder returns one order. Non-admins may only see their own; other
// people's orders yield a permission error (the HTTP layer hides them as 404).
func (s *OrderService) GetOrder(caller auth.Caller, id uint) (*models.Order, error) {
	order, err := s.orders.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Orden no encontrada")
		}
		return nil, apperr.Wrap(apperr.Internal, err, "error consultando orden")
	}

	if !caller.IsAdmin() && !caller.Owns(order.UserID) {
		return nil, apperr.New(apperr.Permission, "No autorizado")
	}
	return order, nil
}

// UpdateStatus moves an order to a new lifecycle state. Admin only. Moving
// into cancelado restores each line's stock exactly once: an order already
// cancelled is left untouched.
func (s *OrderService) UpdateStatus(caller auth.Caller, id uint, estado models.EstadoOrden) (*models.Order, error) {
	if !caller.IsAdmin() {
		return nil, apperr.New(apperr.Permission, "No autorizado")
	}
	if !models.ValidEstado(estado) {
		return nil, apperr.New(apperr.Validation, "Estado inválido: %s", estado)
	}

	order, err := s.orders.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Orden no encontrada")
		}
		return nil, apperr.Wrap(apperr.Internal, err, "error consultando orden")
	}

	restore := estado == models.EstadoCancelado && order.Estado != models.EstadoCancelado

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if restore {
			if err := restoreStock(tx, order.Items); err != nil {
				return err
			}
		}
		return tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("estado", estado).Error
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "error actualizando orden")
	}

	if restore {
		metrics.OrdersCancelled.WithLabelValues("admin").Inc()
	}

	order.Estado = estado
	logger.Info("estado de orden actualizado",
		"numeroOrden", order.NumeroOrden,
		"estado", estado,
	)
	return order, nil
}

// CancelOrder is the self-service cancellation: owner (or admin) may cancel
// an order that is still pendiente. Stock is restored per line.
func (s *OrderService) CancelOrder(caller auth.Caller, id uint) (*models.Order, error) {
	order, err := s.orders.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Orden no encontrada")
		}
		return nil, apperr.Wrap(apperr.Internal, err, "error consultando orden")
	}

	if !caller.IsAdmin() && !caller.Owns(order.UserID) {
		return nil, apperr.New(apperr.Permission, "No autorizado")
	}

	if order.Estado != models.EstadoPendiente {
		return nil, apperr.New(apperr.BusinessRule,
			"Solo se pueden cancelar órdenes pendientes (estado actual: %s)", order.Estado)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := restoreStock(tx, order.Items); err != nil {
			return err
		}
		return tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("estado", models.EstadoCancelado).Error
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "error cancelando orden")
	}

	by := "cliente"
	if caller.IsAdmin() {
		by = "admin"
	}
	metrics.OrdersCancelled.WithLabelValues(by).Inc()

	order.Estado = models.EstadoCancelado
	logger.Info("orden cancelada", "numeroOrden", order.NumeroOrden, "por", by)
	return order, nil
}

// restoreStock gives each line's cantidad back to its product. Lines whose
// product was deleted are skipped.
func restoreStock(tx *gorm.DB, items []models.OrderItem) error {
	for _, item := range items {
		if item.ProductID == nil {
			continue
		}
		res := tx.Model(&models.Product{}).
			Where("id = ?", *item.ProductID).
			Update("stock", gorm.Expr("stock + ?", item.Cantidad))
		if res.Error != nil {
			return res.Error
		}
	}
	return nil
}

// OrderStats is the admin dashboard summary.
type OrderStats struct {
	VentasHoy        float64              `json:"ventasHoy"`
	PedidosPorEstado []models.EstadoCount `json:"pedidosPorEstado"`
	TotalPedidos     int64                `json:"totalPedidos"`
	PedidosHoy       int64                `json:"pedidosHoy"`
}

// Stats aggregates today's sales (local day, excluding cancelled orders),
// counts by estado, and totals. It never fails for lack of data.
func (s *OrderService) Stats(caller auth.Caller) (*OrderStats, error) {
	if !caller.IsAdmin() {
		return nil, apperr.New(apperr.Permission, "No autorizado")
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	ventasHoy, err := s.orders.SumTotalBetween(dayStart, dayEnd)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "error calculando ventas")
	}

	porEstado, err := s.orders.CountByEstado()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "error agrupando órdenes")
	}

	total, err := s.orders.Count()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "error contando órdenes")
	}

	hoy, err := s.orders.CountBetween(dayStart, dayEnd)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "error contando órdenes de hoy")
	}

	return &OrderStats{
		VentasHoy:        round2(ventasHoy),
		PedidosPorEstado: porEstado,
		TotalPedidos:     total,
		PedidosHoy:       hoy,
	}, nil
}
