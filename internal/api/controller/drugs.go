package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (c *Controller) GetDrugs(ctx echo.Context) error {
	drugs, err := c.reports.ListDrugs(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, drugs)
}

func (c *Controller) GetRankings(ctx echo.Context) error {
	rankings, err := c.reports.ListRankings(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, rankings)
}
