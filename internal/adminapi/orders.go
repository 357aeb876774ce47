package adminapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rgimusa/storefront/internal/admin"
	"github.com/rgimusa/storefront/internal/domain"
	"github.com/rgimusa/storefront/internal/storefront"
	"github.com/rgimusa/storefront/internal/webserver"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type statusPayload struct {
	Status string `json:"status"`
}

func (a *API) registerOrderRoutes(g *echo.Group) {
	g.GET("/orders", a.listOrders)
	g.POST("/orders/:id/toggle", a.toggleOrder)
	g.PUT("/orders/:id/status", a.setOrderStatus)
	g.GET("/orders/export.csv", a.exportCSV)
	g.GET("/orders/export.xlsx", a.exportXLSX)
}

func parseFilter(c echo.Context) (storefront.OrderFilter, error) {
	var p admin.FilterParams
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &p); err != nil {
		return storefront.OrderFilter{}, err
	}
	return admin.ParseFilter(p)
}

func (a *API) orderError(c echo.Context, err error) error {
	var v *storefront.ValidationError
	switch {
	case errors.As(err, &v):
		return webserver.Fail(c, http.StatusBadRequest, v.Code, v.Msg, nil)
	case errors.Is(err, storefront.ErrOrderNotFound):
		return webserver.Fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	case errors.Is(err, admin.ErrNotLoggedIn):
		return webserver.Fail(c, http.StatusUnauthorized, "UNAUTHORIZED", err.Error(), nil)
	}
	return webserver.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Order operation failed", err.Error())
}

func (a *API) listOrders(c echo.Context) error {
	f, err := parseFilter(c)
	if err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_FILTER", "Invalid order filter", err.Error())
	}
	rows, err := a.wf.ListOrders(f)
	if err != nil {
		return a.orderError(c, err)
	}
	page, pageSize := webserver.ParsePagination(c)
	start, end := webserver.PageBounds(len(rows), page, pageSize)
	return webserver.Paged(c, rows[start:end], int64(len(rows)), page, pageSize)
}

func (a *API) toggleOrder(c echo.Context) error {
	o, err := a.wf.ToggleStatus(c.Param("id"))
	if err != nil {
		return a.orderError(c, err)
	}
	return webserver.Ok(c, o)
}

func (a *API) setOrderStatus(c echo.Context) error {
	var payload statusPayload
	if err := c.Bind(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse status", err.Error())
	}
	o, err := a.wf.SetStatus(c.Param("id"), domain.OrderStatus(payload.Status))
	if err != nil {
		return a.orderError(c, err)
	}
	return webserver.Ok(c, o)
}

func exportName(ext string) string {
	return fmt.Sprintf("pedidos_%s.%s", time.Now().Format("2006-01-02"), ext)
}

func (a *API) exportCSV(c echo.Context) error {
	f, err := parseFilter(c)
	if err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_FILTER", "Invalid order filter", err.Error())
	}
	var buf bytes.Buffer
	if _, err := a.wf.ExportCSV(&buf, f); err != nil {
		return a.orderError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", exportName("csv")))
	return c.Blob(http.StatusOK, "text/csv;charset=utf-8", buf.Bytes())
}

func (a *API) exportXLSX(c echo.Context) error {
	f, err := parseFilter(c)
	if err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_FILTER", "Invalid order filter", err.Error())
	}
	var buf bytes.Buffer
	if _, err := a.wf.ExportXLSX(&buf, f); err != nil {
		return a.orderError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", exportName("xlsx")))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
