package catalog

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"
)

// Source fetches one named catalog resource
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// NewSource picks an http source for http(s) locations and a directory source otherwise
func NewSource(location string, timeout time.Duration) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return &HTTPSource{BaseURL: strings.TrimRight(location, "/"), Timeout: timeout}
	}
	return DirSource(location)
}

// DirSource reads resources from a local directory
type DirSource string

func (d DirSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(string(d), name))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}
	return data, nil
}

// HTTPSource issues plain GET requests against a static file host
type HTTPSource struct {
	BaseURL string
	Timeout time.Duration
}

func (h *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	var body []byte
	var code int
	req := gout.GET(h.BaseURL + "/" + name).WithContext(ctx)
	if h.Timeout > 0 {
		req = req.SetTimeout(h.Timeout)
	}
	err := req.BindBody(&body).Code(&code).Do()
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", name)
	}
	if code != http.StatusOK {
		return nil, errors.Errorf("fetch %s: unexpected status %d", name, code)
	}
	return body, nil
}
