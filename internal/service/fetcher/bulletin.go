package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/fdapulse/shortage-etl/internal/domain/dto"
	"github.com/fdapulse/shortage-etl/internal/pkg/logger"
	"github.com/fdapulse/shortage-etl/internal/pkg/utils"
)

// BulletinScanner scrapes an HTML shortage bulletin as a secondary source.
// The index page lists one drug per row with a link to a detail page that
// carries the status fields. Rows without a detail link are skipped.
type BulletinScanner struct {
	baseURL string
	client  *http.Client
}

func NewBulletinScanner(baseURL string) *BulletinScanner {
	return &BulletinScanner{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchWindow collects bulletin entries updated inside [start, end]. Detail
// pages are fetched concurrently.
func (s *BulletinScanner) FetchWindow(ctx context.Context, start, end time.Time) ([]dto.FeedRecord, error) {
	doc, err := s.fetchDocument(ctx, s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("fetch bulletin index: %w", err)
	}

	records := make([]dto.FeedRecord, 0, 64)
	recordsMx := sync.Mutex{}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(8)

	doc.Find("table.shortage-list tbody tr").Each(func(i int, tr *goquery.Selection) {
		link := tr.Find("td a").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		genericName := strings.TrimSpace(link.Text())

		eg.Go(func() error {
			detail, err := s.parseDetail(egCtx, resolveURL(s.baseURL, href))
			if err != nil {
				return fmt.Errorf("bulletin detail for %s: %w", genericName, err)
			}
			detail.GenericName = genericName

			updated, parseErr := utils.ParseDate(detail.UpdateDate)
			if parseErr != nil || updated == nil || updated.Before(start) || updated.After(end) {
				return nil
			}

			recordsMx.Lock()
			defer recordsMx.Unlock()
			records = append(records, detail)
			return nil
		})
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	logger.Infof(ctx, "bulletin produced %d records", len(records))
	return records, nil
}

func (s *BulletinScanner) parseDetail(ctx context.Context, detailURL string) (dto.FeedRecord, error) {
	doc, err := s.fetchDocument(ctx, detailURL)
	if err != nil {
		return dto.FeedRecord{}, err
	}

	rec := dto.FeedRecord{}
	doc.Find("dl.shortage-detail dt").Each(func(i int, dt *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(dt.Text()))
		value := strings.TrimSpace(dt.Next().Text())

		switch label {
		case "company":
			rec.CompanyName = value
		case "presentation":
			rec.Presentation = value
		case "status":
			rec.Status = value
		case "availability":
			rec.Availability = value
		case "therapeutic category":
			rec.TherapeuticCategory = []string{value}
		case "reason for shortage":
			rec.ReasonForShortage = value
		case "estimated resupply":
			rec.EstimatedResupplyDate = value
		case "last updated":
			rec.UpdateDate = value
		case "discontinued":
			rec.DateDiscontinued = value
		}
	})

	return rec, nil
}

func (s *BulletinScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("goquery.NewDocumentFromReader: %w", err)
	}

	return doc, nil
}

func resolveURL(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(href, "/")
}
