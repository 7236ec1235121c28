package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/adampresley/fashiontrends/pkg/cache"
	"github.com/adampresley/fashiontrends/pkg/models"
)

const sampleSearchResponse = `{
	"results": [
		{
			"alt_description": "woman in vintage denim jacket",
			"urls": {"regular": "https://images.example.com/1.jpg"},
			"user": {"name": "Ada Lenns"},
			"links": {"html": "https://unsplash.example.com/photos/1"}
		},
		{
			"alt_description": null,
			"urls": {"regular": "https://images.example.com/2.jpg"},
			"user": {"name": "Bo Rivers"},
			"links": {"html": "https://unsplash.example.com/photos/2"}
		}
	]
}`

func newSearchTestServer(t *testing.T, requestCount *int64) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(requestCount, 1)

		if r.URL.Path != "/search/photos" {
			http.NotFound(w, r)
			return
		}

		q := r.URL.Query()

		if q.Get("client_id") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		if q.Get("orientation") != "portrait" {
			t.Errorf("expected orientation=portrait, got %q", q.Get("orientation"))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleSearchResponse))
	}))
}

func TestSearch_MapsResultsAndDefaultsTitle(t *testing.T) {
	var requestCount int64

	srv := newSearchTestServer(t, &requestCount)
	defer srv.Close()

	s := NewUnsplashService(UnsplashServiceConfig{
		ApiKey:  "test-key",
		BaseUrl: srv.URL,
	})

	records := s.Search(context.Background(), "vintage style", 10)

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := models.ImageRecord{
		Title:  "woman in vintage denim jacket",
		URL:    "https://images.example.com/1.jpg",
		Author: "Ada Lenns",
		Link:   "https://unsplash.example.com/photos/1",
	}

	if records[0] != first {
		t.Errorf("first record mismatch: got %+v", records[0])
	}

	if records[1].Title != "Untitled" {
		t.Errorf("expected missing alt_description to map to 'Untitled', got %q", records[1].Title)
	}
}

func TestSearch_MissingKeyMakesNoNetworkCall(t *testing.T) {
	var requestCount int64

	srv := newSearchTestServer(t, &requestCount)
	defer srv.Close()

	s := NewUnsplashService(UnsplashServiceConfig{
		ApiKey:  "",
		BaseUrl: srv.URL,
	})

	records := s.Search(context.Background(), "street style", 10)

	if len(records) != 0 {
		t.Errorf("expected no records without a credential, got %d", len(records))
	}

	if atomic.LoadInt64(&requestCount) != 0 {
		t.Errorf("expected no request to the search endpoint, got %d", requestCount)
	}

	if s.HasAPIKey() {
		t.Error("HasAPIKey should be false with an empty key")
	}
}

func TestSearch_NonSuccessStatusYieldsEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewUnsplashService(UnsplashServiceConfig{
		ApiKey:  "test-key",
		BaseUrl: srv.URL,
	})

	records := s.Search(context.Background(), "street style", 10)

	if len(records) != 0 {
		t.Errorf("expected empty list on non-200, got %d records", len(records))
	}
}

func TestSearch_CachesResultsForTopicAndCount(t *testing.T) {
	var requestCount int64

	srv := newSearchTestServer(t, &requestCount)
	defer srv.Close()

	s := NewUnsplashService(UnsplashServiceConfig{
		ApiKey:  "test-key",
		BaseUrl: srv.URL,
		Cache:   cache.NewTTLCache[[]models.ImageRecord](time.Hour),
	})

	first := s.Search(context.Background(), "vintage style", 10)
	second := s.Search(context.Background(), "vintage style", 10)

	if atomic.LoadInt64(&requestCount) != 1 {
		t.Errorf("expected 1 network call for repeated fetches, got %d", requestCount)
	}

	if len(first) != len(second) {
		t.Errorf("cached result differs: %d vs %d records", len(first), len(second))
	}

	// A different count is a different cache key.
	s.Search(context.Background(), "vintage style", 5)

	if atomic.LoadInt64(&requestCount) != 2 {
		t.Errorf("expected a new network call for a different count, got %d total", requestCount)
	}
}

func TestSearch_CachedResultsAreIsolatedFromCallers(t *testing.T) {
	var requestCount int64

	srv := newSearchTestServer(t, &requestCount)
	defer srv.Close()

	s := NewUnsplashService(UnsplashServiceConfig{
		ApiKey:  "test-key",
		BaseUrl: srv.URL,
		Cache:   cache.NewTTLCache[[]models.ImageRecord](time.Hour),
	})

	first := s.Search(context.Background(), "vintage style", 10)

	// Simulate the pipeline: stamp scores and reorder in place.
	for i := range first {
		first[i].Score = float64(10 - i)
		first[i].Fallback = true
	}
	first[0], first[1] = first[1], first[0]

	second := s.Search(context.Background(), "vintage style", 10)

	if atomic.LoadInt64(&requestCount) != 1 {
		t.Fatalf("expected the second fetch to come from the cache, got %d network calls", requestCount)
	}

	if second[0].URL != "https://images.example.com/1.jpg" {
		t.Errorf("cached set was reordered by the caller: first record is %s", second[0].URL)
	}

	for _, record := range second {
		if record.Score != 0 || record.Fallback {
			t.Errorf("cached record %s was mutated by the caller: %+v", record.URL, record)
		}
	}
}

func TestSearch_RefetchesAfterCacheExpiry(t *testing.T) {
	var requestCount int64

	srv := newSearchTestServer(t, &requestCount)
	defer srv.Close()

	s := NewUnsplashService(UnsplashServiceConfig{
		ApiKey:  "test-key",
		BaseUrl: srv.URL,
		Cache:   cache.NewTTLCache[[]models.ImageRecord](1 * time.Nanosecond),
	})

	s.Search(context.Background(), "street style", 10)

	time.Sleep(5 * time.Millisecond)

	s.Search(context.Background(), "street style", 10)

	if atomic.LoadInt64(&requestCount) != 2 {
		t.Errorf("expected a fresh network call after TTL expiry, got %d total", requestCount)
	}
}
