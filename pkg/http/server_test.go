package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	applogger "MacroBot/pkg/logger"

	"github.com/go-playground/assert/v2"
	"github.com/labstack/echo/v4"
)

type pingHandler struct{}

func (pingHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
	e.GET("/boom", func(c echo.Context) error { panic("kaboom") })
	e.GET("/bad", func(c echo.Context) error {
		return AppErrorResponse(c, BadRequestError("bad signature").WithError(errors.New("mismatch")))
	})
}

func serve(s *Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServerRoutesAndMetrics(t *testing.T) {
	s := NewServer(applogger.Nop(), []Handler{pingHandler{}})

	rec := serve(s, "/ping")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())

	rec = serve(s, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.MatchRegex(t, rec.Body.String(), `http_requests_total`)
}

func TestServerRecoversPanics(t *testing.T) {
	s := NewServer(applogger.Nop(), []Handler{pingHandler{}}, WithMetricsPath(""))

	rec := serve(s, "/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = serve(s, "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAppErrorResponseUsesStatus(t *testing.T) {
	s := NewServer(applogger.Nop(), []Handler{pingHandler{}})

	rec := serve(s, "/bad")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.MatchRegex(t, rec.Body.String(), `"code":"ERR_BAD_REQUEST"`)
}
