package webserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Response success envelope
type Response struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

type Meta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// ErrorResponse failure envelope
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func Ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Data: data})
}

func Paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, Response{Data: data, Meta: &Meta{Total: total, Page: page, PageSize: pageSize}})
}

func Fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, ErrorResponse{Error: code, Message: message, Details: details})
}

// MaxPage upper bound accepted for the page query parameter
const MaxPage = 1 << 20

// ParsePagination reads page and perPage (or pageSize), defaulting to 1 and 20.
// Pages beyond MaxPage are clamped to it.
func ParsePagination(c echo.Context) (page, pageSize int) {
	page, pageSize = 1, 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = min(p, MaxPage)
	}
	size := c.QueryParam("perPage")
	if size == "" {
		size = c.QueryParam("pageSize")
	}
	if ps, err := strconv.Atoi(size); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

// PageBounds slice bounds of one page over n items, always within [0, n]
func PageBounds(n, page, pageSize int) (start, end int) {
	if page < 1 || pageSize < 1 {
		return n, n
	}
	pages := n / pageSize
	if n%pageSize != 0 {
		pages++
	}
	if page > pages {
		return n, n
	}
	start = (page - 1) * pageSize
	end = min(start+pageSize, n)
	return start, end
}
