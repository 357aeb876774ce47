package catalog

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/rgimusa/storefront/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	ProductsFile   = "products.json"
	CategoriesFile = "categories.json"
	FeaturedFile   = "destacados.json"
)

// Result reports how a load went. On failure the list is empty and Err is set.
type Result struct {
	Source   string `json:"source"`
	Count    int    `json:"count"`
	Skipped  int    `json:"skipped"`
	FellBack bool   `json:"fell_back"`
	Err      error  `json:"-"`
}

// Snapshot everything loaded at boot
type Snapshot struct {
	Products   []domain.Product
	Categories []domain.Category
	Featured   []string
	Results    map[string]Result
}

type Loader struct {
	source  Source
	timeout time.Duration
}

func NewLoader(source Source, timeout time.Duration) *Loader {
	return &Loader{source: source, timeout: timeout}
}

func (l *Loader) fetch(ctx context.Context, name string) (interface{}, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	data, err := l.source.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "parse %s", name)
	}
	return raw, nil
}

func decode(input interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

func failed(name string, err error) Result {
	zap.L().Warn("catalog: load failed, using empty list", zap.String("source", name), zap.Error(err))
	return Result{Source: name, FellBack: true, Err: err}
}

// LoadProducts never fails: a fetch or parse error yields an empty list.
// Entries that do not decode or lack id/name are skipped.
func (l *Loader) LoadProducts(ctx context.Context) ([]domain.Product, Result) {
	raw, err := l.fetch(ctx, ProductsFile)
	if err != nil {
		return []domain.Product{}, failed(ProductsFile, err)
	}
	items, ok := raw.([]interface{})
	if !ok {
		return []domain.Product{}, failed(ProductsFile, errors.New("products.json is not a list"))
	}
	res := Result{Source: ProductsFile}
	out := make([]domain.Product, 0, len(items))
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		var p domain.Product
		if err := decode(item, &p); err != nil || !p.Valid() || seen[p.ID] {
			zap.L().Debug("catalog: skip product entry", zap.Int("index", i), zap.Error(err))
			res.Skipped++
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	res.Count = len(out)
	return out, res
}

func (l *Loader) LoadCategories(ctx context.Context) ([]domain.Category, Result) {
	raw, err := l.fetch(ctx, CategoriesFile)
	if err != nil {
		return []domain.Category{}, failed(CategoriesFile, err)
	}
	items, ok := raw.([]interface{})
	if !ok {
		return []domain.Category{}, failed(CategoriesFile, errors.New("categories.json is not a list"))
	}
	res := Result{Source: CategoriesFile}
	out := make([]domain.Category, 0, len(items))
	for _, item := range items {
		var c domain.Category
		if err := decode(item, &c); err != nil || !c.Valid() {
			res.Skipped++
			continue
		}
		out = append(out, c)
	}
	res.Count = len(out)
	return out, res
}

// LoadFeatured reads {"featured": [...]}; entries are ids or objects carrying an id
func (l *Loader) LoadFeatured(ctx context.Context) ([]string, Result) {
	raw, err := l.fetch(ctx, FeaturedFile)
	if err != nil {
		return []string{}, failed(FeaturedFile, err)
	}
	var doc struct {
		Featured []interface{} `mapstructure:"featured"`
	}
	if err := decode(raw, &doc); err != nil {
		return []string{}, failed(FeaturedFile, err)
	}
	res := Result{Source: FeaturedFile}
	out := make([]string, 0, len(doc.Featured))
	for _, item := range doc.Featured {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case map[string]interface{}:
			var ref struct {
				ID string `mapstructure:"id"`
			}
			if err := decode(v, &ref); err == nil && ref.ID != "" {
				out = append(out, ref.ID)
				continue
			}
			res.Skipped++
		default:
			res.Skipped++
		}
	}
	res.Count = len(out)
	return out, res
}

// LoadAll fetches the three resources concurrently
func (l *Loader) LoadAll(ctx context.Context) *Snapshot {
	snap := &Snapshot{Results: make(map[string]Result, 3)}
	var pr, cr, fr Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Products, pr = l.LoadProducts(gctx)
		return nil
	})
	g.Go(func() error {
		snap.Categories, cr = l.LoadCategories(gctx)
		return nil
	})
	g.Go(func() error {
		snap.Featured, fr = l.LoadFeatured(gctx)
		return nil
	})
	_ = g.Wait()
	snap.Results[ProductsFile] = pr
	snap.Results[CategoriesFile] = cr
	snap.Results[FeaturedFile] = fr
	zap.L().Info("catalog loaded",
		zap.Int("products", pr.Count),
		zap.Int("categories", cr.Count),
		zap.Int("featured", fr.Count))
	return snap
}
