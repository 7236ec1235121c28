package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/adampresley/fashiontrends/pkg/cache"
	"github.com/adampresley/fashiontrends/pkg/models"
)

const (
	defaultPerPage     = 10
	searchPath         = "/search/photos"
	searchOrientation  = "portrait"
	untitledPhotoTitle = "Untitled"
)

/*
ImageSearcher finds stock photos for a topic. Search never returns an
error: a missing credential or an upstream failure yields an empty
list, and the caller is expected to render a per-topic warning.
*/
type ImageSearcher interface {
	Search(ctx context.Context, topic string, count int) []models.ImageRecord
	HasAPIKey() bool
}

type UnsplashServiceConfig struct {
	ApiKey     string
	BaseUrl    string
	Cache      *cache.TTLCache[[]models.ImageRecord]
	HTTPClient *http.Client
}

type UnsplashService struct {
	apiKey     string
	baseUrl    string
	cache      *cache.TTLCache[[]models.ImageRecord]
	httpClient *http.Client
}

func NewUnsplashService(config UnsplashServiceConfig) UnsplashService {
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{
			Timeout: 15 * time.Second,
		}
	}

	return UnsplashService{
		apiKey:     config.ApiKey,
		baseUrl:    config.BaseUrl,
		cache:      config.Cache,
		httpClient: config.HTTPClient,
	}
}

func (s UnsplashService) HasAPIKey() bool {
	return s.apiKey != ""
}

/*
Search queries the Unsplash search endpoint for portrait photos
matching topic. Results for a topic+count pair are cached for the
cache's TTL, so repeat renders inside that window make no network
call.
*/
func (s UnsplashService) Search(ctx context.Context, topic string, count int) []models.ImageRecord {
	var (
		err      error
		req      *http.Request
		response *http.Response
	)

	if count <= 0 {
		count = defaultPerPage
	}

	if !s.HasAPIKey() {
		slog.Error("missing Unsplash API key. returning no results", "topic", topic)
		return []models.ImageRecord{}
	}

	cacheKey := s.cacheKey(topic, count)

	if s.cache != nil {
		if cached, ok := s.cache.Get(cacheKey); ok {
			// Callers mutate and reorder what they get back, so the
			// cached set must never share a backing array with them.
			return slices.Clone(cached)
		}
	}

	searchUrl := s.buildSearchUrl(topic, count)

	if req, err = http.NewRequestWithContext(ctx, http.MethodGet, searchUrl, nil); err != nil {
		slog.Error("error creating Unsplash search request", "error", err, "topic", topic)
		return []models.ImageRecord{}
	}

	if response, err = s.httpClient.Do(req); err != nil {
		slog.Warn("error calling Unsplash search endpoint", "error", err, "topic", topic)
		return []models.ImageRecord{}
	}

	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		slog.Warn("Unsplash returned a non-success status", "topic", topic, "status", response.Status)
		return []models.ImageRecord{}
	}

	payload := searchResponse{}

	if err = json.NewDecoder(response.Body).Decode(&payload); err != nil {
		slog.Warn("error decoding Unsplash response", "error", err, "topic", topic)
		return []models.ImageRecord{}
	}

	records := make([]models.ImageRecord, 0, len(payload.Results))

	for _, result := range payload.Results {
		title := untitledPhotoTitle

		if result.AltDescription != nil && *result.AltDescription != "" {
			title = *result.AltDescription
		}

		records = append(records, models.ImageRecord{
			Title:  title,
			URL:    result.Urls.Regular,
			Author: result.User.Name,
			Link:   result.Links.Html,
		})
	}

	if s.cache != nil {
		s.cache.Set(cacheKey, slices.Clone(records))
	}

	return records
}

func (s UnsplashService) buildSearchUrl(topic string, count int) string {
	params := url.Values{}
	params.Set("query", topic)
	params.Set("per_page", fmt.Sprintf("%d", count))
	params.Set("client_id", s.apiKey)
	params.Set("orientation", searchOrientation)

	return fmt.Sprintf("%s%s?%s", s.baseUrl, searchPath, params.Encode())
}

func (s UnsplashService) cacheKey(topic string, count int) string {
	return fmt.Sprintf("%s|%d", topic, count)
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	AltDescription *string `json:"alt_description"`
	Urls           struct {
		Regular string `json:"regular"`
	} `json:"urls"`
	User struct {
		Name string `json:"name"`
	} `json:"user"`
	Links struct {
		Html string `json:"html"`
	} `json:"links"`
}
