package handler

import (
	"fmt"
	"html"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Page serves a placeholder for a browser page. Rendering lives in the front end.
func Page(title string) echo.HandlerFunc {
	body := fmt.Sprintf("<!doctype html><html><head><title>EzEats | %[1]s</title></head><body><h1>%[1]s</h1></body></html>",
		html.EscapeString(title))
	return func(c echo.Context) error {
		return c.HTML(http.StatusOK, body)
	}
}
