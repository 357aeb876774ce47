package storeapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rgimusa/storefront/config"
	"github.com/rgimusa/storefront/internal/catalog"
	"github.com/rgimusa/storefront/internal/domain"
	"github.com/rgimusa/storefront/internal/storefront"
	"github.com/rgimusa/storefront/internal/webserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type errRanker struct{}

func (errRanker) Rank(ctx context.Context, q string, p []domain.Product, limit int) ([]string, error) {
	return nil, context.DeadlineExceeded
}

func newServer(t *testing.T) (*webserver.WebServer, *storefront.State) {
	t.Helper()
	cat := catalog.FromSnapshot(&catalog.Snapshot{
		Products: []domain.Product{
			{ID: "p1", Name: "Dron", Price: 10, CategoryID: "drones"},
			{ID: "p2", Name: "Cable", Price: 5, CategoryID: "accesorios"},
		},
		Categories: []domain.Category{{ID: "drones", Name: "Drones"}},
		Featured:   []string{"p2"},
	})
	state, err := storefront.New(storefront.Options{Catalog: cat, Clock: func() time.Time {
		return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	}})
	require.NoError(t, err)

	cfg := config.LoadConfig("")
	srv := webserver.NewWebServer(cfg)
	New(state, cat, catalog.NewSearcher(cat, errRanker{}, time.Second, 10), cfg.Checkout).Register(srv)
	return srv, state
}

func do(t *testing.T, srv http.Handler, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

func TestCatalogEndpoints(t *testing.T) {
	srv, _ := newServer(t)

	code, out := do(t, srv, http.MethodGet, "/api/catalog/products?sort=price-asc", "")
	require.Equal(t, http.StatusOK, code)
	rows := out["data"].([]interface{})
	require.Len(t, rows, 2)
	assert.Equal(t, "p2", rows[0].(map[string]interface{})["id"])

	code, out = do(t, srv, http.MethodGet, "/api/catalog/products?page=2&perPage=1", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), out["meta"].(map[string]interface{})["total"])
	assert.Len(t, out["data"], 1)

	code, out = do(t, srv, http.MethodGet, "/api/catalog/products?page=9223372036854775807", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{}, out["data"])

	code, _ = do(t, srv, http.MethodGet, "/api/catalog/products/zz", "")
	assert.Equal(t, http.StatusNotFound, code)

	_, out = do(t, srv, http.MethodGet, "/api/catalog/featured", "")
	assert.Len(t, out["data"], 1)

	_, out = do(t, srv, http.MethodGet, "/api/catalog/search?q=dron", "")
	result := out["data"].(map[string]interface{})
	assert.Equal(t, "basic", result["mode"])
	assert.Equal(t, true, result["fell_back"])
	assert.Len(t, result["products"], 1)
}

func TestCartAndCheckoutFlow(t *testing.T) {
	srv, state := newServer(t)

	code, out := do(t, srv, http.MethodPost, "/api/checkout", `{"name":"Ana","phone":"555","shipping":"air"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "EMPTY_CART", out["error"])

	do(t, srv, http.MethodPost, "/api/cart/items", `{"id":"p1"}`)
	do(t, srv, http.MethodPost, "/api/cart/items", `{"id":"p1"}`)
	_, out = do(t, srv, http.MethodPost, "/api/cart/items", `{"id":"p2"}`)
	cart := out["data"].(map[string]interface{})
	assert.Equal(t, 25.0, cart["total"])
	assert.Equal(t, 27.5, cart["air_total"])
	assert.Equal(t, float64(3), cart["count"])

	_, out = do(t, srv, http.MethodPatch, "/api/cart/items/p1", `{"delta":-5}`)
	cart = out["data"].(map[string]interface{})
	assert.Equal(t, 15.0, cart["total"])

	_, out = do(t, srv, http.MethodPatch, "/api/cart/items/zz", `{"delta":1}`)
	assert.Equal(t, false, out["data"].(map[string]interface{})["applied"])

	code, _ = do(t, srv, http.MethodPost, "/api/checkout", `{"name":"Ana","phone":"555","shipping":"truck"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, out = do(t, srv, http.MethodPost, "/api/checkout", `{"name":"Ana","phone":"555","shipping":"air"}`)
	require.Equal(t, http.StatusOK, code)
	res := out["data"].(map[string]interface{})
	order := res["order"].(map[string]interface{})
	assert.Equal(t, 16.5, order["total"])
	assert.Equal(t, "new", order["status"])
	assert.True(t, strings.HasPrefix(res["whatsapp_url"].(string), "https://wa.me/13058462224?text="))
	assert.Empty(t, state.Cart())

	_, out = do(t, srv, http.MethodGet, "/api/history", "")
	assert.Len(t, out["data"], 1)
}

func TestRemoveAndClear(t *testing.T) {
	srv, state := newServer(t)
	state.AddToCart("p1")
	state.AddToCart("p2")

	_, out := do(t, srv, http.MethodDelete, "/api/cart/items/p1", "")
	assert.Len(t, out["data"].(map[string]interface{})["items"], 1)

	_, out = do(t, srv, http.MethodDelete, "/api/cart", "")
	assert.Empty(t, out["data"].(map[string]interface{})["items"])
}

func TestLanguageEndpoints(t *testing.T) {
	srv, state := newServer(t)

	_, out := do(t, srv, http.MethodGet, "/api/lang", "")
	assert.Equal(t, "es", out["data"].(map[string]interface{})["lang"])

	_, out = do(t, srv, http.MethodPut, "/api/lang", `{"lang":"en-GB"}`)
	assert.Equal(t, "en", out["data"].(map[string]interface{})["lang"])
	assert.Equal(t, domain.LangEN, state.Language())
}
