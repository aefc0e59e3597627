package fetcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func feedPage(skip, limit, total int, names []string) map[string]interface{} {
	results := make([]map[string]interface{}, 0, len(names))
	for _, name := range names {
		results = append(results, map[string]interface{}{
			"id":           "id-" + name,
			"generic_name": name,
			"update_date":  "2024-03-05",
		})
	}
	return map[string]interface{}{
		"meta": map[string]interface{}{
			"results": map[string]int{"skip": skip, "limit": limit, "total": total},
		},
		"results": results,
	}
}

func TestFetchWindowPaginates(t *testing.T) {
	var requests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.RawQuery)

		skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
		var page map[string]interface{}
		switch skip {
		case 0:
			page = feedPage(0, 2, 3, []string{"cisplatin", "methotrexate"})
		case 2:
			page = feedPage(2, 2, 3, []string{"amoxicillin"})
		default:
			t.Errorf("unexpected skip %d", skip)
			page = feedPage(skip, 2, 3, nil)
		}
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 2)
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC)

	records, err := client.FetchWindow(context.Background(), start, end)
	if err != nil {
		t.Fatalf("FetchWindow: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if len(requests) != 2 {
		t.Fatalf("made %d requests, want 2", len(requests))
	}
	if records[2].GenericName != "amoxicillin" {
		t.Errorf("last record = %q", records[2].GenericName)
	}
}

func TestFetchWindowSendsSearchQuery(t *testing.T) {
	var gotSearch string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSearch = r.URL.Query().Get("search")
		_ = json.NewEncoder(w).Encode(feedPage(0, 100, 0, nil))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 100)
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC)

	if _, err := client.FetchWindow(context.Background(), start, end); err != nil {
		t.Fatalf("FetchWindow: %v", err)
	}

	want := "update_date:[2024-03-01 TO 2024-03-08]"
	if gotSearch != want {
		t.Fatalf("search = %q, want %q", gotSearch, want)
	}
}

func TestFetchWindowTreats404AsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 100)
	records, err := client.FetchWindow(context.Background(),
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FetchWindow: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records from an empty window, want 0", len(records))
	}
}

func TestFetchWindowRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(feedPage(0, 100, 1, []string{"cisplatin"}))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 100)
	records, err := client.FetchWindow(context.Background(),
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FetchWindow after retries: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if calls != 3 {
		t.Fatalf("server saw %d calls, want 3", calls)
	}
}

func TestWindowDefaultsToSevenDays(t *testing.T) {
	now := time.Date(2024, time.March, 20, 6, 0, 0, 0, time.UTC)

	start, end := Window(now, 0)
	if !end.Equal(now) {
		t.Errorf("end = %s, want now", end)
	}
	if !start.Equal(now.AddDate(0, 0, -7)) {
		t.Errorf("start = %s, want now-7d", start)
	}

	start, _ = Window(now, 30)
	if !start.Equal(now.AddDate(0, 0, -30)) {
		t.Errorf("start = %s, want now-30d", start)
	}
}
