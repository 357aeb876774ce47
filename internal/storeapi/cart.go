package storeapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rgimusa/storefront/internal/storefront"
	"github.com/rgimusa/storefront/internal/webserver"
)

type cartView struct {
	storefront.CartSummary
	Applied   bool `json:"applied"`
	Persisted bool `json:"persisted"`
}

type addItemPayload struct {
	ID string `json:"id"`
}

type changeQtyPayload struct {
	Delta int `json:"delta"`
}

func (a *API) registerCartRoutes(srv *webserver.WebServer) {
	g := srv.Group("/cart")
	g.GET("", a.getCart)
	g.POST("/items", a.addItem)
	g.PATCH("/items/:id", a.changeQty)
	g.DELETE("/items/:id", a.removeItem)
	g.DELETE("", a.clearCart)
}

func (a *API) view(m *storefront.Mutation) cartView {
	v := cartView{CartSummary: a.state.CartSnapshot(), Persisted: true}
	if m != nil {
		v.Applied = m.Applied
		v.Persisted = !m.Applied || m.Persist.OK()
	}
	return v
}

func (a *API) getCart(c echo.Context) error {
	return webserver.Ok(c, a.view(nil))
}

func (a *API) addItem(c echo.Context) error {
	var payload addItemPayload
	if err := c.Bind(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart item", err.Error())
	}
	payload.ID = strings.TrimSpace(payload.ID)
	if payload.ID == "" {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Product id is required", nil)
	}
	m := a.state.AddToCart(payload.ID)
	return webserver.Ok(c, a.view(&m))
}

func (a *API) changeQty(c echo.Context) error {
	var payload changeQtyPayload
	if err := c.Bind(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse quantity change", err.Error())
	}
	m := a.state.ChangeQty(c.Param("id"), payload.Delta)
	return webserver.Ok(c, a.view(&m))
}

func (a *API) removeItem(c echo.Context) error {
	m := a.state.RemoveFromCart(c.Param("id"))
	return webserver.Ok(c, a.view(&m))
}

func (a *API) clearCart(c echo.Context) error {
	m := a.state.ClearCart()
	return webserver.Ok(c, a.view(&m))
}
