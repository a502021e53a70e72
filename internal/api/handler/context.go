package handler

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// queryList collects a list parameter given either repeated (?n=a&n=b) or
// comma separated (?n=a,b). Blank items are dropped.
func queryList(c echo.Context, name string) []string {
	var out []string
	for _, raw := range c.QueryParams()[name] {
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

// bindValid binds the request body into req and runs the registered validator.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
