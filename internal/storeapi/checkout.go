package storeapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rgimusa/storefront/internal/domain"
	"github.com/rgimusa/storefront/internal/notify"
	"github.com/rgimusa/storefront/internal/storefront"
	"github.com/rgimusa/storefront/internal/webserver"
	"go.uber.org/zap"
)

type checkoutPayload struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Shipping string `json:"shipping"`
}

type checkoutResult struct {
	Order       domain.Order `json:"order"`
	WhatsappURL string       `json:"whatsapp_url,omitempty"`
}

type langPayload struct {
	Lang string `json:"lang"`
}

func (a *API) registerCheckoutRoutes(srv *webserver.WebServer) {
	srv.Group("/checkout").POST("", a.submitOrder)
	srv.Group("/history").GET("", a.listHistory)
	g := srv.Group("/lang")
	g.GET("", a.getLang)
	g.PUT("", a.setLang)
}

func (a *API) submitOrder(c echo.Context) error {
	var payload checkoutPayload
	if err := c.Bind(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse checkout", err.Error())
	}
	if strings.TrimSpace(payload.Name) == "" {
		return webserver.Fail(c, http.StatusBadRequest, "MISSING_NAME", "Name is required", nil)
	}
	method, ok := domain.ParseShippingMethod(payload.Shipping)
	if !ok {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_SHIPPING", "Shipping must be sea or air", nil)
	}

	order, err := a.state.SubmitOrder(payload.Name, payload.Phone, method)
	if err != nil {
		var v *storefront.ValidationError
		if errors.As(err, &v) {
			return webserver.Fail(c, http.StatusBadRequest, v.Code, v.Msg, nil)
		}
		zap.L().Error("checkout failed", zap.Error(err))
		return webserver.Fail(c, http.StatusInternalServerError, "CHECKOUT_FAILED", "Unable to submit order", err.Error())
	}

	res := checkoutResult{Order: order}
	if a.checkout.RedirectToWhatsApp && a.checkout.WhatsappNumber != "" {
		res.WhatsappURL = notify.WhatsAppLink(a.checkout.WhatsappNumber, notify.OrderMessage(order, a.catalog))
	}
	return webserver.Ok(c, res)
}

func (a *API) listHistory(c echo.Context) error {
	return webserver.Ok(c, a.state.Orders())
}

func (a *API) getLang(c echo.Context) error {
	return webserver.Ok(c, map[string]interface{}{"lang": a.state.Language()})
}

func (a *API) setLang(c echo.Context) error {
	var payload langPayload
	if err := c.Bind(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse language", err.Error())
	}
	lang := domain.Language(strings.ToLower(strings.TrimSpace(payload.Lang)))
	if lang != domain.LangES && lang != domain.LangEN {
		lang = storefront.MatchLanguage(payload.Lang)
	}
	res, err := a.state.SetLanguage(lang)
	if err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_LANGUAGE", err.Error(), nil)
	}
	return webserver.Ok(c, map[string]interface{}{"lang": lang, "persisted": res.OK()})
}
