package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/adampresley/fashiontrends/pkg/models"
)

const (
	defaultFetchCount = 10
	defaultTopCount   = 5
)

type TrendServicer interface {
	TrendsFor(ctx context.Context, topics []string) []models.TopicGallery
}

type TrendServiceConfig struct {
	Searcher   ImageSearcher
	Scorer     AestheticScorer
	FetchCount int
	TopCount   int
}

type TrendService struct {
	searcher   ImageSearcher
	scorer     AestheticScorer
	fetchCount int
	topCount   int
}

func NewTrendService(config TrendServiceConfig) TrendService {
	if config.FetchCount <= 0 {
		config.FetchCount = defaultFetchCount
	}

	if config.TopCount <= 0 {
		config.TopCount = defaultTopCount
	}

	return TrendService{
		searcher:   config.Searcher,
		scorer:     config.Scorer,
		fetchCount: config.FetchCount,
		topCount:   config.TopCount,
	}
}

/*
TrendsFor runs the fetch → score → rank pipeline for each topic in
order. Topics are independent: an empty fetch or a failed score never
blocks the remaining topics. Images within a topic are scored one at a
time.
*/
func (s TrendService) TrendsFor(ctx context.Context, topics []string) []models.TopicGallery {
	galleries := make([]models.TopicGallery, 0, len(topics))

	for _, topic := range topics {
		galleries = append(galleries, s.galleryFor(ctx, topic))
	}

	return galleries
}

func (s TrendService) galleryFor(ctx context.Context, topic string) models.TopicGallery {
	images := s.searcher.Search(ctx, topic, s.fetchCount)

	if len(images) == 0 {
		slog.Warn("no images found for topic", "topic", topic)

		return models.TopicGallery{
			Topic:   topic,
			Images:  []models.ImageRecord{},
			Message: fmt.Sprintf("No images for %s.", topic),
		}
	}

	for i := range images {
		images[i].Score, images[i].Fallback = s.scoreImage(ctx, images[i])
	}

	// Stable sort keeps the original fetch order for the rare tie.
	sort.SliceStable(images, func(i, j int) bool {
		return images[i].Score > images[j].Score
	})

	if len(images) > s.topCount {
		images = images[:s.topCount]
	}

	return models.TopicGallery{
		Topic:  topic,
		Images: images,
	}
}

func (s TrendService) scoreImage(ctx context.Context, record models.ImageRecord) (float64, bool) {
	score, fromModel := s.scorer.Score(ctx, record.URL)
	return score, !fromModel
}
