package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"

	"github.com/fdapulse/shortage-etl/internal/domain/dto"
	"github.com/fdapulse/shortage-etl/internal/pkg/logger"
)

const defaultPageLimit = 1000

// Client pulls shortage status reports from the openFDA drug shortages
// endpoint. Transient failures and rate limits are retried here; the core
// only ever sees the record set the client hands over.
type Client struct {
	baseURL string
	limit   int
	client  *http.Client
}

func NewClient(baseURL string, pageLimit int) *Client {
	if pageLimit <= 0 {
		pageLimit = defaultPageLimit
	}
	return &Client{
		baseURL: baseURL,
		limit:   pageLimit,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type feedResponse struct {
	Meta struct {
		Results struct {
			Skip  int `json:"skip"`
			Limit int `json:"limit"`
			Total int `json:"total"`
		} `json:"results"`
	} `json:"meta"`
	Results []dto.FeedRecord `json:"results"`
}

// FetchWindow pages through every record whose update_date falls inside
// [start, end].
func (c *Client) FetchWindow(ctx context.Context, start, end time.Time) ([]dto.FeedRecord, error) {
	search := fmt.Sprintf("update_date:[%s TO %s]",
		start.Format("2006-01-02"), end.Format("2006-01-02"))

	var all []dto.FeedRecord
	skip := 0
	for {
		page, total, err := c.fetchPage(ctx, search, skip)
		if err != nil {
			return nil, fmt.Errorf("fetch page skip=%d: %w", skip, err)
		}

		all = append(all, page...)
		skip += c.limit
		if len(page) == 0 || skip >= total {
			break
		}
	}

	logger.Infof(ctx, "fetched %d shortage records for %s", len(all), search)
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, search string, skip int) ([]dto.FeedRecord, int, error) {
	params := url.Values{}
	params.Set("search", search)
	params.Set("limit", strconv.Itoa(c.limit))
	if skip > 0 {
		params.Set("skip", strconv.Itoa(skip))
	}
	pageURL := c.baseURL + "?" + params.Encode()

	var body []byte
	var notFound bool
	err := backoff.Retry(
		func() error {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
			if reqErr != nil {
				return backoff.Permanent(reqErr)
			}

			resp, httpErr := c.client.Do(req)
			if httpErr != nil {
				return fmt.Errorf("http.Get: %w", httpErr)
			}
			defer resp.Body.Close()

			// the feed answers an empty search window with 404
			if resp.StatusCode == http.StatusNotFound {
				notFound = true
				return nil
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
			}

			var readErr error
			body, readErr = io.ReadAll(resp.Body)
			if readErr != nil {
				return fmt.Errorf("read body: %w", readErr)
			}
			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(500*time.Millisecond), 5),
			ctx,
		),
	)
	if err != nil {
		return nil, 0, err
	}
	if notFound {
		return nil, 0, nil
	}

	var payload feedResponse
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return nil, 0, fmt.Errorf("decode feed response: %w", err)
	}

	return payload.Results, payload.Meta.Results.Total, nil
}

// Window returns the fetch date range ending now and reaching daysBack into
// the past.
func Window(now time.Time, daysBack int) (time.Time, time.Time) {
	if daysBack <= 0 {
		daysBack = 7
	}
	return now.AddDate(0, 0, -daysBack), now
}
