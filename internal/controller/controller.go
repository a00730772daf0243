package controller

import (
	"strconv"

	"github.com/celaops/cela/pkg/errs"
	"github.com/labstack/echo/v4"
)

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, errs.ErrClient
	}
	return id, nil
}

func includeTrashed(c echo.Context) bool {
	return c.QueryParam("include_trashed") == "true"
}
