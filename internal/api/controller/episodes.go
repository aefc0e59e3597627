package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fdapulse/shortage-etl/internal/pkg/store"
	"github.com/fdapulse/shortage-etl/internal/pkg/utils"
)

func (c *Controller) GetEpisodes(ctx echo.Context) error {
	opts := store.ListEpisodesOpts{
		GenericName: ctx.QueryParams().Get("generic_name"),
	}

	from, err := utils.ParseDate(ctx.QueryParams().Get("from"))
	if err != nil {
		return err
	}
	to, err := utils.ParseDate(ctx.QueryParams().Get("to"))
	if err != nil {
		return err
	}
	opts.From = from
	opts.To = to

	episodes, err := c.reports.ListEpisodes(ctx.Request().Context(), opts)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, episodes)
}
