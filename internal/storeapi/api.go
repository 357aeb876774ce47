package storeapi

import (
	"github.com/rgimusa/storefront/config"
	"github.com/rgimusa/storefront/internal/catalog"
	"github.com/rgimusa/storefront/internal/storefront"
	"github.com/rgimusa/storefront/internal/webserver"
)

// API the shopper facing endpoints: catalog browsing, cart, checkout and preferences
type API struct {
	state    *storefront.State
	catalog  *catalog.Catalog
	searcher *catalog.Searcher
	checkout config.CheckoutConfig
}

func New(state *storefront.State, c *catalog.Catalog, s *catalog.Searcher, checkout config.CheckoutConfig) *API {
	return &API{state: state, catalog: c, searcher: s, checkout: checkout}
}

func (a *API) Register(srv *webserver.WebServer) {
	a.registerCatalogRoutes(srv)
	a.registerCartRoutes(srv)
	a.registerCheckoutRoutes(srv)
}
