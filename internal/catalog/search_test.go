package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rgimusa/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *Catalog {
	return FromSnapshot(&Snapshot{
		Products: []domain.Product{
			{ID: "p1", Name: "Cámara de seguridad", Price: 80, CategoryID: "seguridad", Short: "wifi"},
			{ID: "p2", Name: "Dron con cámara", Price: 500, CategoryID: "drones"},
			{ID: "p3", Name: "Soporte", Price: 12, CategoryID: "accesorios", Description: "para cámara de seguridad"},
			{ID: "p4", Name: "Audífonos", Price: 45, CategoryID: "audio"},
		},
		Categories: []domain.Category{{ID: "drones", Name: "Drones"}},
		Featured:   []string{"p2", "missing"},
	})
}

type stubRanker struct {
	ids   []string
	err   error
	delay time.Duration
	calls int
}

func (s *stubRanker) Rank(ctx context.Context, query string, products []domain.Product, limit int) ([]string, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.ids, s.err
}

func ids(products []domain.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestBasicSearch(t *testing.T) {
	products := testCatalog().Products()

	assert.Equal(t, []string{"p1", "p3"}, ids(BasicSearch("cámara seguridad", products)))
	// name matches come first
	assert.Equal(t, []string{"p1", "p2", "p3"}, ids(BasicSearch("CÁMARA", products)))
	assert.Empty(t, BasicSearch("televisor", products))
}

func TestSearchShortQueryReturnsAll(t *testing.T) {
	r := &stubRanker{}
	s := NewSearcher(testCatalog(), r, time.Second, 10)
	res := s.Search(context.Background(), " a ")
	assert.Equal(t, ModeAll, res.Mode)
	assert.Len(t, res.Products, 4)
	assert.Zero(t, r.calls)
}

func TestSearchUsesRankerOrder(t *testing.T) {
	r := &stubRanker{ids: []string{"p3", "nope", "p1", "p3"}}
	s := NewSearcher(testCatalog(), r, time.Second, 10)
	res := s.Search(context.Background(), "soporte")
	assert.Equal(t, ModeAI, res.Mode)
	assert.False(t, res.FellBack)
	assert.Equal(t, []string{"p3", "p1"}, ids(res.Products))
}

func TestSearchCapsRankerResults(t *testing.T) {
	r := &stubRanker{ids: []string{"p4", "p3", "p2", "p1"}}
	s := NewSearcher(testCatalog(), r, time.Second, 2)
	assert.Equal(t, []string{"p4", "p3"}, ids(s.Search(context.Background(), "algo").Products))
}

func TestSearchFallsBack(t *testing.T) {
	cases := map[string]*stubRanker{
		"error":   {err: errors.New("quota")},
		"empty":   {ids: []string{}},
		"unknown": {ids: []string{"zz"}},
		"timeout": {ids: []string{"p4"}, delay: time.Second},
	}
	for name, r := range cases {
		t.Run(name, func(t *testing.T) {
			s := NewSearcher(testCatalog(), r, 20*time.Millisecond, 10)
			res := s.Search(context.Background(), "dron")
			assert.Equal(t, ModeBasic, res.Mode)
			assert.True(t, res.FellBack)
			assert.Equal(t, []string{"p2"}, ids(res.Products))
		})
	}
}

func TestSearchWithoutRanker(t *testing.T) {
	s := NewSearcher(testCatalog(), nil, 0, 0)
	res := s.Search(context.Background(), "audífonos")
	assert.Equal(t, ModeBasic, res.Mode)
	assert.False(t, res.FellBack)
	assert.Equal(t, []string{"p4"}, ids(res.Products))
}

func TestParseIDList(t *testing.T) {
	got, err := ParseIDList("Claro:\n```json\n[\"p1\", \"p2\", 3]\n```")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2", "3"}, got)

	_, err = ParseIDList("no results")
	assert.Error(t, err)
}

func TestBuildRankPrompt(t *testing.T) {
	prompt := BuildRankPrompt("dron", testCatalog().Products(), 10)
	assert.Contains(t, prompt, `"dron"`)
	assert.Contains(t, prompt, "ID: p2 | Nombre: Dron con cámara")
	assert.Contains(t, prompt, "máximo 10")
}

func TestSuggestions(t *testing.T) {
	got := Suggestions("cám", testCatalog().Products())
	assert.Contains(t, got, "cámara")
	assert.Contains(t, got, "Cámara de seguridad")
	assert.LessOrEqual(t, len(got), 5)
	assert.Empty(t, Suggestions("c", testCatalog().Products()))
}
