package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productsJSON = `[
  {"id": "p1", "name": "Dron Explorer", "price": 10, "categoryId": "drones", "short": "Cámara 4K"},
  {"id": "p2", "name": "Cable USB", "price": "5.5", "categoryId": "accesorios"},
  {"id": 3, "name": "Batería", "price": 120},
  {"name": "sin id", "price": 1},
  {"id": "p4", "name": "Precio malo", "price": -3},
  "garbage"
]`

func writeCatalog(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLoadProductsFromDir(t *testing.T) {
	dir := writeCatalog(t, map[string]string{ProductsFile: productsJSON})
	l := NewLoader(NewSource(dir, time.Second), time.Second)

	products, res := l.LoadProducts(context.Background())
	require.False(t, res.FellBack)
	require.Len(t, products, 3)
	assert.Equal(t, 3, res.Count)
	assert.Equal(t, 3, res.Skipped)

	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "Cámara 4K", products[0].Short)
	assert.Equal(t, 5.5, products[1].Price)
	assert.Equal(t, "3", products[2].ID)
	assert.Empty(t, products[2].CategoryID)
}

func TestLoadFailuresFallBackToEmpty(t *testing.T) {
	dir := writeCatalog(t, map[string]string{
		CategoriesFile: `{"broken": `,
		FeaturedFile:   `[1,2]`,
	})
	l := NewLoader(DirSource(dir), 0)

	products, res := l.LoadProducts(context.Background())
	assert.NotNil(t, products)
	assert.Empty(t, products)
	assert.True(t, res.FellBack)
	assert.Error(t, res.Err)

	categories, res := l.LoadCategories(context.Background())
	assert.Empty(t, categories)
	assert.True(t, res.FellBack)

	featured, res := l.LoadFeatured(context.Background())
	assert.Empty(t, featured)
	assert.True(t, res.FellBack)
}

func TestLoadAllOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/" + ProductsFile:
			_, _ = w.Write([]byte(productsJSON))
		case "/" + CategoriesFile:
			_, _ = w.Write([]byte(`[{"id":"drones","name":"Drones"},{"id":"","name":"x"}]`))
		case "/" + FeaturedFile:
			_, _ = w.Write([]byte(`{"featured": ["p2", {"id": "p1"}, 7, {"name": "no id"}]}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	l := NewLoader(NewSource(srv.URL+"/", 2*time.Second), 2*time.Second)
	snap := l.LoadAll(context.Background())

	assert.Len(t, snap.Products, 3)
	assert.Equal(t, 1, len(snap.Categories))
	assert.Equal(t, []string{"p2", "p1"}, snap.Featured)
	assert.Equal(t, 2, snap.Results[FeaturedFile].Skipped)

	c := FromSnapshot(snap)
	featured := c.Featured()
	require.Len(t, featured, 2)
	assert.Equal(t, "Cable USB", featured[0].Name)
}

func TestHTTPSourceErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	l := NewLoader(NewSource(srv.URL, time.Second), time.Second)
	products, res := l.LoadProducts(context.Background())
	assert.Empty(t, products)
	assert.True(t, res.FellBack)
}

func TestLoadRespectsCancelledContext(t *testing.T) {
	dir := writeCatalog(t, map[string]string{ProductsFile: productsJSON})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	products, res := NewLoader(DirSource(dir), 0).LoadProducts(ctx)
	assert.Empty(t, products)
	assert.ErrorIs(t, res.Err, context.Canceled)
}
