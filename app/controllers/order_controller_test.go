package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hbdiaz/ferremat/app/models"
	"github.com/hbdiaz/ferremat/app/routes"
	"github.com/hbdiaz/ferremat/pkg/auth"
	"github.com/hbdiaz/ferremat/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Details json.RawMessage `json:"details"`
}

func newTestServer(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{},
		&models.Order{}, &models.OrderItem{}, &models.Review{},
	))

	r := router.New()
	routes.RegisterAPI(r, db)
	return r.Handler(), db
}

func createUser(t *testing.T, db *gorm.DB, email, rol string) (*models.User, string) {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)

	user := &models.User{
		NombreCompleto: "Usuario " + email,
		Rut:            fmt.Sprintf("11.111.%03d-1", n),
		Email:          email,
		Password:       "$2a$10$hash",
		Rol:            rol,
	}
	require.NoError(t, db.Create(user).Error)

	token, err := auth.GenerateToken(user.ID, user.Rol)
	require.NoError(t, err)
	return user, token
}

func createProduct(t *testing.T, db *gorm.DB, nombre string, precio float64, stock int) *models.Product {
	t.Helper()

	p := &models.Product{
		Nombre: nombre, Codigo: "COD-" + nombre,
		Precio: precio, Stock: stock,
		Categoria: "test", UnidadMedida: "unidad", Activo: true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func orderBody(productID uint, cantidad int) map[string]any {
	return map[string]any{
		"items":            []map[string]any{{"productId": productID, "cantidad": cantidad}},
		"metodoPago":       "efectivo",
		"direccionEnvio":   "Av. Siempre Viva 742, Santiago",
		"telefonoContacto": "+56 9 1234 5678",
	}
}

func TestCreateOrderEndpoint(t *testing.T) {
	h, db := newTestServer(t)
	_, token := createUser(t, db, "buyer@test.cl", models.RolUsuario)
	p := createProduct(t, db, "Cemento", 1000, 10)

	rec, env := doJSON(t, h, http.MethodPost, "/api/orders", token, orderBody(p.ID, 2))
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, "Orden creada exitosamente", env.Message)

	var order models.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, 2000.0, order.Total)
	assert.Regexp(t, `^ORD-\d{8}-\d{3}$`, order.NumeroOrden)
}

func TestCreateOrderRequiresAuth(t *testing.T) {
	h, db := newTestServer(t)
	p := createProduct(t, db, "Cemento", 1000, 10)

	rec, _ := doJSON(t, h, http.MethodPost, "/api/orders", "", orderBody(p.ID, 1))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateOrderValidation(t *testing.T) {
	h, db := newTestServer(t)
	_, token := createUser(t, db, "buyer@test.cl", models.RolUsuario)

	body := map[string]any{
		"items":            []map[string]any{},
		"metodoPago":       "cheque",
		"direccionEnvio":   "corta",
		"telefonoContacto": "x",
	}
	rec, env := doJSON(t, h, http.MethodPost, "/api/orders", token, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, env.Details, "field errors included in details")
}

func TestShowOrderHidesOthers(t *testing.T) {
	h, db := newTestServer(t)
	_, aliceToken := createUser(t, db, "alice@test.cl", models.RolUsuario)
	_, bobToken := createUser(t, db, "bob@test.cl", models.RolUsuario)
	p := createProduct(t, db, "Cemento", 1000, 10)

	rec, env := doJSON(t, h, http.MethodPost, "/api/orders", aliceToken, orderBody(p.ID, 1))
	require.Equal(t, http.StatusCreated, rec.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	path := fmt.Sprintf("/api/orders/%d", order.ID)

	rec, _ = doJSON(t, h, http.MethodGet, path, aliceToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Another user's order looks like it doesn't exist.
	rec, _ = doJSON(t, h, http.MethodGet, path, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateStatusGuardedByRole(t *testing.T) {
	h, db := newTestServer(t)
	_, adminToken := createUser(t, db, "admin@test.cl", models.RolAdministrador)
	_, buyerToken := createUser(t, db, "buyer@test.cl", models.RolUsuario)
	p := createProduct(t, db, "Cemento", 1000, 10)

	rec, env := doJSON(t, h, http.MethodPost, "/api/orders", buyerToken, orderBody(p.ID, 1))
	require.Equal(t, http.StatusCreated, rec.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	path := fmt.Sprintf("/api/orders/%d/status", order.ID)

	rec, _ = doJSON(t, h, http.MethodPatch, path, buyerToken, map[string]any{"estado": "enviado"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = doJSON(t, h, http.MethodPatch, path, adminToken, map[string]any{"estado": "enviado"})
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, models.EstadoEnviado, order.Estado)
}

func TestCancelEndpointOnlyPendiente(t *testing.T) {
	h, db := newTestServer(t)
	_, adminToken := createUser(t, db, "admin@test.cl", models.RolAdministrador)
	_, buyerToken := createUser(t, db, "buyer@test.cl", models.RolUsuario)
	p := createProduct(t, db, "Cemento", 1000, 10)

	rec, env := doJSON(t, h, http.MethodPost, "/api/orders", buyerToken, orderBody(p.ID, 2))
	require.Equal(t, http.StatusCreated, rec.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	path := fmt.Sprintf("/api/orders/%d", order.ID)

	rec, _ = doJSON(t, h, http.MethodDelete, path, buyerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Stock restored.
	var fresh models.Product
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 10, fresh.Stock)

	// A second cancel is rejected: the order is no longer pendiente.
	rec, _ = doJSON(t, h, http.MethodDelete, path, buyerToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Admin transitions on a cancelled order don't restore again.
	rec, _ = doJSON(t, h, http.MethodPatch, path+"/status", adminToken, map[string]any{"estado": "cancelado"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 10, fresh.Stock)
}

func TestStatsEndpoint(t *testing.T) {
	h, db := newTestServer(t)
	_, adminToken := createUser(t, db, "admin@test.cl", models.RolAdministrador)
	_, buyerToken := createUser(t, db, "buyer@test.cl", models.RolUsuario)

	rec, _ := doJSON(t, h, http.MethodGet, "/api/orders/stats", buyerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := doJSON(t, h, http.MethodGet, "/api/orders/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.JSONEq(t, "0", string(stats["ventasHoy"]))
	assert.JSONEq(t, "[]", string(stats["pedidosPorEstado"]))
	assert.JSONEq(t, "0", string(stats["totalPedidos"]))
	assert.JSONEq(t, "0", string(stats["pedidosHoy"]))
}

func TestListOrdersFilterByEstado(t *testing.T) {
	h, db := newTestServer(t)
	_, buyerToken := createUser(t, db, "buyer@test.cl", models.RolUsuario)
	p := createProduct(t, db, "Cemento", 1000, 100)

	for i := 0; i < 2; i++ {
		rec, _ := doJSON(t, h, http.MethodPost, "/api/orders", buyerToken, orderBody(p.ID, 1))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, env := doJSON(t, h, http.MethodGet, "/api/orders?estado=pendiente", buyerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	assert.Len(t, orders, 2)

	rec, env = doJSON(t, h, http.MethodGet, "/api/orders?estado=cancelado", buyerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	assert.Empty(t, orders)
}
