package storeapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rgimusa/storefront/internal/catalog"
	"github.com/rgimusa/storefront/internal/webserver"
)

func (a *API) registerCatalogRoutes(srv *webserver.WebServer) {
	g := srv.Group("/catalog")
	g.GET("/products", a.listProducts)
	g.GET("/products/:id", a.getProduct)
	g.GET("/categories", a.listCategories)
	g.GET("/featured", a.listFeatured)
	g.GET("/search", a.search)
	g.GET("/suggest", a.suggest)
}

func (a *API) listProducts(c echo.Context) error {
	var q catalog.Query
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid query", err.Error())
	}
	rows := q.Apply(a.catalog.Products())
	page, pageSize := webserver.ParsePagination(c)
	if c.QueryParam("page") == "" {
		return webserver.Ok(c, rows)
	}
	start, end := webserver.PageBounds(len(rows), page, pageSize)
	return webserver.Paged(c, rows[start:end], int64(len(rows)), page, pageSize)
}

func (a *API) getProduct(c echo.Context) error {
	p, ok := a.catalog.Product(c.Param("id"))
	if !ok {
		return webserver.Fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return webserver.Ok(c, p)
}

func (a *API) listCategories(c echo.Context) error {
	return webserver.Ok(c, a.catalog.Categories())
}

func (a *API) listFeatured(c echo.Context) error {
	return webserver.Ok(c, a.catalog.Featured())
}

func (a *API) search(c echo.Context) error {
	return webserver.Ok(c, a.searcher.Search(c.Request().Context(), c.QueryParam("q")))
}

func (a *API) suggest(c echo.Context) error {
	return webserver.Ok(c, catalog.Suggestions(c.QueryParam("q"), a.catalog.Products()))
}
