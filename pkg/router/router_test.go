package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestNamedRoutesAndURL(t *testing.T) {
	r := New()
	r.Get("/orders/{id}", "orders.show", ok)

	path, found := r.Path("orders.show")
	require.True(t, found)
	assert.Equal(t, "/orders/{id}", path)

	url, err := r.URL("orders.show", map[string]string{"id": "42"})
	require.NoError(t, err)
	assert.Equal(t, "/orders/42", url)

	_, err = r.URL("orders.show", nil)
	assert.Error(t, err, "missing params")

	_, err = r.URL("nope", nil)
	assert.Error(t, err)
}

func TestGroupPrefixAndMethods(t *testing.T) {
	r := New()
	api := r.Group("/api")
	orders := api.Group("/orders")
	orders.Get("/stats", "orders.stats", ok)
	orders.Post("", "orders.store", ok)
	orders.Patch("/{id}/status", "orders.updateStatus", ok)
	orders.Delete("/{id}", "orders.cancel", ok)

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodGet, "/api/orders/stats"},
		{http.MethodPost, "/api/orders"},
		{http.MethodPatch, "/api/orders/7/status"},
		{http.MethodDelete, "/api/orders/7"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		r.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestGroupMiddlewareApplies(t *testing.T) {
	var order []string
	mw := func(tag string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, tag)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := New()
	g := r.Group("/api", mw("outer"))
	g.Get("/x", "x", ok, mw("inner"))

	req := httptest.NewRequest(http.MethodGet, "/api/x", nil)
	r.Handler().ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestRoutesListing(t *testing.T) {
	r := New()
	r.Post("/b", "b.store", ok)
	r.Get("/a", "a.index", ok)

	infos := r.Routes()
	require.Len(t, infos, 2)
	assert.Equal(t, "/a", infos[0].Path, "sorted by path")
	assert.Equal(t, "a.index", infos[0].Name)
	assert.Equal(t, http.MethodPost, infos[1].Method)
}
