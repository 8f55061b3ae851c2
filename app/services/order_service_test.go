package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/hbdiaz/ferremat/app/models"
	"github.com/hbdiaz/ferremat/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var numeroOrdenRe = regexp.MustCompile(`^ORD-\d{8}-\d{3}$`)

func validOrderInput(items ...OrderItemInput) CreateOrderInput {
	return CreateOrderInput{
		Items:            items,
		MetodoPago:       models.PagoEfectivo,
		DireccionEnvio:   "Av. Siempre Viva 742, Santiago",
		TelefonoContacto: "+56 9 1234 5678",
	}
}

func TestCreateOrderComputesTotals(t *testing.T) {
	db := newTestDB(t)
	buyer := seedUser(t, db, models.RolUsuario)
	p := seedProduct(t, db, "Cemento", 1000, 10, 10)

	svc := NewOrderService(db)
	order, err := svc.CreateOrder(callerFor(buyer), validOrderInput(
		OrderItemInput{ProductID: p.ID, Cantidad: 2},
	))
	require.NoError(t, err)

	assert.Equal(t, 2000.0, order.Subtotal)
	assert.Equal(t, 200.0, order.DescuentoTotal)
	assert.Equal(t, 1800.0, order.Total)
	assert.Equal(t, models.EstadoPendiente, order.Estado)
	assert.Regexp(t, numeroOrdenRe, order.NumeroOrden)

	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.Equal(t, "Cemento", item.NombreProducto)
	assert.Equal(t, 1000.0, item.PrecioUnitario)
	assert.Equal(t, 10.0, item.Descuento)
	assert.Equal(t, 1800.0, item.Subtotal)

	// Stock decremented.
	var fresh models.Product
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 8, fresh.Stock)

	// Associations loaded.
	require.NotNil(t, order.User)
	assert.Equal(t, buyer.ID, order.User.ID)
	require.NotNil(t, order.Items[0].Product)
}

func TestCreateOrderTotalInvariant(t *testing.T) {
	db := newTestDB(t)
	buyer := seedUser(t, db, models.RolUsuario)
	a := seedProduct(t, db, "Fierro", 3490, 50, 5)
	b := seedProduct(t, db, "Yeso", 6290, 50, 0)

	svc := NewOrderService(db)
	order, err := svc.CreateOrder(callerFor(buyer), validOrderInput(
		OrderItemInput{ProductID: a.ID, Cantidad: 3},
		OrderItemInput{ProductID: b.ID, Cantidad: 2},
	))
	require.NoError(t, err)

	assert.InDelta(t, order.Subtotal-order.DescuentoTotal, order.Total, 0.001)

	var sum float64
	for _, item := range order.Items {
		sum += item.PrecioUnitario * float64(item.Cantidad)
	}
	assert.InDelta(t, sum, order.Subtotal, 0.001)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	buyer := seedUser(t, db, models.RolUsuario)
	p := seedProduct(t, db, "Pintura", 12990, 3, 0)

	svc := NewOrderService(db)
	_, err := svc.CreateOrder(callerFor(buyer), validOrderInput(
		OrderItemInput{ProductID: p.ID, Cantidad: 5},
	))
	require.Error(t, err)
	assert.Equal(t, apperr.BusinessRule, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "Pintura")

	var fresh models.Product
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 3, fresh.Stock, "stock must be untouched after a rejected order")

	var n int64
	db.Model(&models.Order{}).Count(&n)
	assert.Zero(t, n)
}

func TestCreateOrderRollsBackEarlierLines(t *testing.T) {
	db := newTestDB(t)
	buyer := seedUser(t, db, models.RolUsuario)
	ok := seedProduct(t, db, "Cemento", 4990, 100, 0)
	scarce := seedProduct(t, db, "Fierro", 3490, 1, 0)

	svc := NewOrderService(db)
	_, err := svc.CreateOrder(callerFor(buyer), validOrderInput(
		OrderItemInput{ProductID: ok.ID, Cantidad: 10},
		OrderItemInput{ProductID: scarce.ID, Cantidad: 5},
	))
	require.Error(t, err)

	// The first line's decrement must not survive the failed second line.
	var fresh models.Product
	require.NoError(t, db.First(&fresh, ok.ID).Error)
	assert.Equal(t, 100, fresh.Stock)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	buyer := seedUser(t, db, models.RolUsuario)

	svc := NewOrderService(db)
	_, err := svc.CreateOrder(callerFor(buyer), validOrderInput(
		OrderItemInput{ProductID: 9999, Cantidad: 1},
	))
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestCreateOrderNumeroOrdenUnique(t *testing.T) {
	db := newTestDB(t)
	buyer := seedUser(t, db, models.RolUsuario)
	p := seedProduct(t, db, "Cemento", 4990, 1000, 0)

	svc := NewOrderService(db)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		order, err := svc.CreateOrder(callerFor(buyer), validOrderInput(
			OrderItemInput{ProductID: p.ID, Cantidad: 1},
		))
		require.NoError(t, err)
		assert.Regexp(t, numeroOrdenRe, order.NumeroOrden)
		assert.False(t, seen[order.NumeroOrden], "numeroOrden repeated: %s", order.NumeroOrden)
		seen[order.NumeroOrden] = true
	}
}

func TestListOrdersVisibilityAndFilters(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, models.RolAdministrador)
	alice := seedUser(t, db, models.RolUsuario)
	bob := seedUser(t, db, models.RolUsuario)
	p := seedProduct(t, db, "Cemento", 4990, 1000, 0)

	svc := NewOrderService(db)
	for _, u := range []*models.User{alice, alice, bob} {
		_, err := svc.CreateOrder(callerFor(u), validOrderInput(
			OrderItemInput{ProductID: p.ID, Cantidad: 1},
		))
		require.NoError(t, err)
	}

	// Non-admin sees only their own orders.
	mine, err := svc.ListOrders(callerFor(alice), ListOrdersInput{})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	// Admin sees everything, newest first.
	all, err := svc.ListOrders(callerFor(admin), ListOrdersInput{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i-1].CreatedAt.Before(all[i].CreatedAt))
	}

	// Admin with onlyOwn sees nothing (admin placed no orders).
	own, err := svc.ListOrders(callerFor(admin), ListOrdersInput{OnlyOwn: true})
	require.NoError(t, err)
	assert.Empty(t, own)

	// Estado filter.
	pendientes, err := svc.ListOrders(callerFor(admin), ListOrdersInput{Estado: "pendiente"})
	require.NoError(t, err)
	assert.Len(t, pendientes, 3)

	_, err = svc.ListOrders(callerFor(admin), ListOrdersInput{Estado: "volando"})
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	// Date range covering today matches everything; a past range matches none.
	today := time.Now().Format("2006-01-02")
	ranged, err := svc.ListOrders(callerFor(admin), ListOrdersInput{FechaDesde: today})
	require.NoError(t, err)
	assert.Len(t, ranged, 3)

	past, err := svc.ListOrders(callerFor(admin), ListOrdersInput{FechaHasta: "2000-01-01"})
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestGetOrderOwnership(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, models.RolAdministrador)
	alice := seedUser(t, db, models.RolUsuario)
	bob := seedUser(t, db, models.RolUsuario)
	p := seedProduct(t, db, "Cemento", 4990, 100, 0)

	svc := NewOrderService(db)
	order, err := svc.CreateOrder(callerFor(alice), validOrderInput(
		OrderItemInput{ProductID: p.ID, Cantidad: 1},
	))
	require.NoError(t, err)

	_, err = svc.GetOrder(callerFor(alice), order.ID)
	assert.NoError(t, err)

	_, err = svc.GetOrder(callerFor(admin), order.ID)
	assert.NoError(t, err)

	_, err = svc.GetOrder(callerFor(bob), order.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.Permission, apperr.KindOf(err))

	_, err = svc.GetOrder(callerFor(admin), 9999)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestCancelOrderRestoresStock(t *testing.T) {
	db := newTestDB(t)
	buyer := seedUser(t, db, models.RolUsuario)
	p := seedProduct(t, db, "Cemento", 4990, 10, 0)

	svc := NewOrderService(db)
	order, err := svc.CreateOrder(callerFor(buyer), validOrderInput(
		OrderItemInput{ProductID: p.ID, Cantidad: 4},
	))
	require.NoError(t, err)

	cancelled, err := svc.CancelOrder(callerFor(buyer), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EstadoCancelado, cancelled.Estado)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 10, fresh.Stock)
}

func TestCancelOrderOnlyPendiente(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, models.RolAdministrador)
	buyer := seedUser(t, db, models.RolUsuario)
	p := seedProduct(t, db, "Cemento", 4990, 10, 0)

	svc := NewOrderService(db)
	order, err := svc.CreateOrder(callerFor(buyer), validOrderInput(
		OrderItemInput{ProductID: p.ID, Cantidad: 4},
	))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(callerFor(admin), order.ID, models.EstadoEnviado)
	require.NoError(t, err)

	_, err = svc.CancelOrder(callerFor(buyer), order.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.BusinessRule, apperr.KindOf(err))

	// Stock untouched by the rejected cancellation.
	var fresh models.Product
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 6, fresh.Stock)
}

func TestCancelOrderForbiddenForOthers(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, models.RolUsuario)
	bob := seedUser(t, db, models.RolUsuario)
	p := seedProduct(t, db, "Cemento", 4990, 10, 0)

	svc := NewOrderService(db)
	order, err := svc.CreateOrder(callerFor(alice), validOrderInput(
		OrderItemInput{ProductID: p.ID, Cantidad: 1},
	))
	require.NoError(t, err)

	_, err = svc.CancelOrder(callerFor(bob), order.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.Permission, apperr.KindOf(err))
}

func TestUpdateStatusAdminOnly(t *testing.T) {
	db := newTestDB(t)
	buyer := seedUser(t, db, models.RolUsuario)
	p := seedProduct(t, db, "Cemento", 4990, 10, 0)

	svc := NewOrderService(db)
	order, err := svc.CreateOrder(callerFor(buyer), validOrderInput(
		OrderItemInput{ProductID: p.ID, Cantidad: 1},
	))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(callerFor(buyer), order.ID, models.EstadoEnviado)
	require.Error(t, err)
	assert.Equal(t, apperr.Permission, apperr.KindOf(err))
}

func TestUpdateStatusCancelRestoresOnce(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, models.RolAdministrador)
	buyer := seedUser(t, db, models.RolUsuario)
	p := seedProduct(t, db, "Cemento", 4990, 10, 0)

	svc := NewOrderService(db)
	order, err := svc.CreateOrder(callerFor(buyer), validOrderInput(
		OrderItemInput{ProductID: p.ID, Cantidad: 4},
	))
	require.NoError(t, err)

	// Cancel from procesando restores stock.
	_, err = svc.UpdateStatus(callerFor(admin), order.ID, models.EstadoProcesando)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(callerFor(admin), order.ID, models.EstadoCancelado)
	require.NoError(t, err)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 10, fresh.Stock)

	// Cancelling an already-cancelled order must not restore again.
	_, err = svc.UpdateStatus(callerFor(admin), order.ID, models.EstadoCancelado)
	require.NoError(t, err)
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 10, fresh.Stock)
}

func TestUpdateStatusInvalidEstado(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, models.RolAdministrador)

	svc := NewOrderService(db)
	_, err := svc.UpdateStatus(callerFor(admin), 1, "perdido")
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestStatsEmptyDatabase(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, models.RolAdministrador)

	svc := NewOrderService(db)
	stats, err := svc.Stats(callerFor(admin))
	require.NoError(t, err)

	assert.Zero(t, stats.VentasHoy)
	assert.NotNil(t, stats.PedidosPorEstado)
	assert.Empty(t, stats.PedidosPorEstado)
	assert.Zero(t, stats.TotalPedidos)
	assert.Zero(t, stats.PedidosHoy)
}

func TestStatsExcludesCancelledSales(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, models.RolAdministrador)
	buyer := seedUser(t, db, models.RolUsuario)
	p := seedProduct(t, db, "Cemento", 1000, 100, 0)

	svc := NewOrderService(db)
	kept, err := svc.CreateOrder(callerFor(buyer), validOrderInput(
		OrderItemInput{ProductID: p.ID, Cantidad: 2},
	))
	require.NoError(t, err)

	cancelled, err := svc.CreateOrder(callerFor(buyer), validOrderInput(
		OrderItemInput{ProductID: p.ID, Cantidad: 3},
	))
	require.NoError(t, err)
	_, err = svc.CancelOrder(callerFor(buyer), cancelled.ID)
	require.NoError(t, err)

	stats, err := svc.Stats(callerFor(admin))
	require.NoError(t, err)

	assert.Equal(t, kept.Total, stats.VentasHoy)
	assert.Equal(t, int64(2), stats.TotalPedidos, "totalPedidos counts every estado")
	assert.Equal(t, int64(2), stats.PedidosHoy)

	byEstado := map[models.EstadoOrden]int64{}
	for _, c := range stats.PedidosPorEstado {
		byEstado[c.Estado] = c.Cantidad
	}
	assert.Equal(t, int64(1), byEstado[models.EstadoPendiente])
	assert.Equal(t, int64(1), byEstado[models.EstadoCancelado])
}

func TestStatsAdminOnly(t *testing.T) {
	db := newTestDB(t)
	buyer := seedUser(t, db, models.RolUsuario)

	svc := NewOrderService(db)
	_, err := svc.Stats(callerFor(buyer))
	require.Error(t, err)
	assert.Equal(t, apperr.Permission, apperr.KindOf(err))
}
