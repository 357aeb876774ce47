package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rgimusa/storefront/internal/webserver"
)

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *API) registerSessionRoutes(g *echo.Group) {
	g.POST("/login", a.login)
	g.POST("/logout", a.logout)
	g.GET("/session", a.session)
}

func (a *API) login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login", err.Error())
	}
	session, err := a.wf.Login(payload.Username, payload.Password)
	if err != nil {
		return webserver.Fail(c, http.StatusUnauthorized, "BAD_CREDENTIALS", err.Error(), nil)
	}
	return webserver.Ok(c, session)
}

func (a *API) logout(c echo.Context) error {
	a.wf.Logout()
	return webserver.Ok(c, map[string]interface{}{"logged_in": false})
}

func (a *API) session(c echo.Context) error {
	return webserver.Ok(c, map[string]interface{}{
		"logged_in": a.wf.LoggedIn(),
		"session":   a.wf.Session(),
	})
}
