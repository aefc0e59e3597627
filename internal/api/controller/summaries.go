package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fdapulse/shortage-etl/internal/domain"
	"github.com/fdapulse/shortage-etl/internal/pkg/constants"
	"github.com/fdapulse/shortage-etl/internal/pkg/store"
)

func (c *Controller) GetSummaries(ctx echo.Context) error {
	opts := store.ListSummariesOpts{}

	switch bucket := ctx.QueryParams().Get("bucket"); bucket {
	case "":
	case string(domain.BucketWeekly):
		opts.Bucket = domain.BucketWeekly
	case string(domain.BucketMonthly):
		opts.Bucket = domain.BucketMonthly
	default:
		return constants.ErrBadRequest
	}

	summaries, err := c.reports.ListSummaries(ctx.Request().Context(), opts)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, summaries)
}
