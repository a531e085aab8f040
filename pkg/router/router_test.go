package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shashiranjanraj/shirtshop/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestGroup_AppliesMiddlewareAndPrefix(t *testing.T) {
	r := router.New()
	var hits int
	count := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			hits++
			next.ServeHTTP(w, req)
		})
	}

	api := r.Group("/api", count)
	api.Delete("/cart/items/{id}", "cart.items.destroy", ok)
	api.Put("/address", "address.update", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/cart/items/3", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/address", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, hits)

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/address", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestURL_FillsParameters(t *testing.T) {
	r := router.New()
	r.Group("/api/admin").Put("/orders/{id}/status", "admin.orders.status", ok)

	url, err := r.URL("admin.orders.status", map[string]string{"id": "42"})
	require.NoError(t, err)
	assert.Equal(t, "/api/admin/orders/42/status", url)

	_, err = r.URL("admin.orders.status", nil)
	assert.Error(t, err)

	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

func TestRoutes_SortedTable(t *testing.T) {
	r := router.New()
	r.Post("/b", "b.store", ok)
	r.Get("/b", "b.index", ok)
	r.Get("/a", "", ok)

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, "/a", routes[0].Path)
	assert.Equal(t, http.MethodGet, routes[1].Method)
	assert.Equal(t, "b.store", routes[2].Name)
}
