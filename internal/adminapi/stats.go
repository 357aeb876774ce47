package adminapi

import (
	"github.com/labstack/echo/v4"
	"github.com/rgimusa/storefront/internal/webserver"
)

func (a *API) registerStatsRoutes(g *echo.Group) {
	g.GET("/stats", a.getStats)
}

func (a *API) getStats(c echo.Context) error {
	st, err := a.wf.Stats()
	if err != nil {
		return a.orderError(c, err)
	}
	return webserver.Ok(c, st)
}
