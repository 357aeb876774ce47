package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rgimusa/storefront/internal/admin"
	"github.com/rgimusa/storefront/internal/webserver"
)

// API the order review dashboard endpoints
type API struct {
	wf *admin.Workflow
}

func New(wf *admin.Workflow) *API {
	return &API{wf: wf}
}

func (a *API) Register(srv *webserver.WebServer) {
	a.registerSessionRoutes(srv.Group("/admin"))
	g := srv.Group("/admin", a.requireLogin)
	a.registerOrderRoutes(g)
	a.registerStatsRoutes(g)
}

// requireLogin rejects requests while no admin session exists
func (a *API) requireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !a.wf.LoggedIn() {
			return webserver.Fail(c, http.StatusUnauthorized, "UNAUTHORIZED", admin.ErrNotLoggedIn.Error(), nil)
		}
		return next(c)
	}
}
