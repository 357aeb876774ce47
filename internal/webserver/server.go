package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rgimusa/storefront/config"
	"go.uber.org/zap"
)

const ApiPrefix = "/api"

type WebServer struct {
	root *echo.Echo
	api  *echo.Group
	cfg  *config.AppConfig
}

func NewWebServer(cfg *config.AppConfig) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.System.Debug
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogMethod:  true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Debug("http request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency))
			return nil
		},
	}))
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status := http.StatusInternalServerError
		msg := http.StatusText(status)
		if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
			msg = fmt.Sprint(he.Message)
		}
		if status >= http.StatusInternalServerError {
			zap.L().Error("http handler error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
			msg = http.StatusText(status)
		}
		_ = Fail(c, status, http.StatusText(status), msg, nil)
	}
	return &WebServer{root: e, api: e.Group(ApiPrefix), cfg: cfg}
}

// Echo the underlying router, used by tests
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

// Group a sub group of /api
func (s *WebServer) Group(prefix string, m ...echo.MiddlewareFunc) *echo.Group {
	return s.api.Group(prefix, m...)
}

func (s *WebServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.root.ServeHTTP(w, r)
}

// Start blocks serving until ctx is done, then shuts down gracefully
func (s *WebServer) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Web.Host, s.cfg.Web.Port)
	errCh := make(chan error, 1)
	go func() {
		zap.S().Infof("Prepare to start the web server %s", addr)
		if err := s.root.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.root.Shutdown(sctx)
	}
}
