package catalog

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rgimusa/storefront/internal/domain"
	"go.uber.org/zap"
)

const minQueryLen = 2

// Ranker asks an external provider for product ids matching a free text
// query, most relevant first
type Ranker interface {
	Rank(ctx context.Context, query string, products []domain.Product, limit int) ([]string, error)
}

type SearchMode string

const (
	ModeAll   SearchMode = "all"
	ModeAI    SearchMode = "ai"
	ModeBasic SearchMode = "basic"
)

type SearchResult struct {
	Query    string           `json:"query"`
	Mode     SearchMode       `json:"mode"`
	FellBack bool             `json:"fell_back"`
	Products []domain.Product `json:"products"`
}

// Searcher runs the ranker within a timeout and falls back to local matching
// when the ranker is absent, fails, times out or answers nothing usable.
type Searcher struct {
	catalog    *Catalog
	ranker     Ranker
	timeout    time.Duration
	maxResults int
}

func NewSearcher(c *Catalog, ranker Ranker, timeout time.Duration, maxResults int) *Searcher {
	if maxResults <= 0 {
		maxResults = 10
	}
	return &Searcher{catalog: c, ranker: ranker, timeout: timeout, maxResults: maxResults}
}

func (s *Searcher) Search(ctx context.Context, query string) SearchResult {
	query = strings.TrimSpace(query)
	products := s.catalog.Products()
	if len([]rune(query)) < minQueryLen {
		return SearchResult{Query: query, Mode: ModeAll, Products: products}
	}
	if s.ranker == nil {
		return SearchResult{Query: query, Mode: ModeBasic, Products: BasicSearch(query, products)}
	}

	rctx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	ids, err := s.ranker.Rank(rctx, query, products, s.maxResults)
	if err != nil {
		zap.L().Warn("search: ranker failed, using basic search", zap.String("query", query), zap.Error(err))
		return SearchResult{Query: query, Mode: ModeBasic, FellBack: true, Products: BasicSearch(query, products)}
	}

	matched := make([]domain.Product, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := s.catalog.Product(id); ok {
			matched = append(matched, p)
		}
		if len(matched) == s.maxResults {
			break
		}
	}
	if len(matched) == 0 {
		return SearchResult{Query: query, Mode: ModeBasic, FellBack: true, Products: BasicSearch(query, products)}
	}
	return SearchResult{Query: query, Mode: ModeAI, Products: matched}
}

func searchable(p domain.Product) string {
	return strings.ToLower(strings.Join([]string{p.Name, p.Short, p.Description, p.CategoryID}, " "))
}

// BasicSearch keeps products containing every word of the query, name matches first
func BasicSearch(query string, products []domain.Product) []domain.Product {
	term := strings.ToLower(strings.TrimSpace(query))
	words := strings.Fields(term)
	out := make([]domain.Product, 0)
	for _, p := range products {
		text := searchable(p)
		all := true
		for _, w := range words {
			if !strings.Contains(text, w) {
				all = false
				break
			}
		}
		if all {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a := strings.Contains(strings.ToLower(out[i].Name), term)
		b := strings.Contains(strings.ToLower(out[j].Name), term)
		return a && !b
	})
	return out
}

// Suggestions returns up to five completions for a partial query
func Suggestions(partial string, products []domain.Product) []string {
	q := strings.ToLower(strings.TrimSpace(partial))
	if len([]rune(q)) < minQueryLen {
		return []string{}
	}
	seen := map[string]bool{}
	out := make([]string, 0, 5)
	add := func(s string) {
		if !seen[s] && len(out) < 5 {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, p := range products {
		for _, w := range strings.Fields(strings.ToLower(p.Name + " " + p.Short + " " + p.Description)) {
			if len([]rune(w)) > 2 && strings.HasPrefix(w, q) {
				add(w)
			}
		}
		if strings.Contains(strings.ToLower(p.Name), q) {
			add(p.Name)
		}
	}
	return out
}
