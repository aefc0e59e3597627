package controller

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

func (c *Controller) RunETL(ctx echo.Context) error {
	res, err := c.etl.RunOnce(ctx.Request().Context(), time.Now().UTC())
	if err != nil {
		return err
	}

	type response struct {
		CanonicalRecords int `json:"canonical_records"`
		Episodes         int `json:"episodes"`
		WeeklySummaries  int `json:"weekly_summaries"`
		MonthlySummaries int `json:"monthly_summaries"`
		Warnings         int `json:"warnings"`
	}

	return ctx.JSON(http.StatusOK, response{
		CanonicalRecords: len(res.Canonical),
		Episodes:         len(res.Episodes),
		WeeklySummaries:  len(res.Weekly),
		MonthlySummaries: len(res.Monthly),
		Warnings:         len(res.Warnings),
	})
}
