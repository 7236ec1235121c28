package cache

import (
	"context"
	"log/slog"

	"github.com/adampresley/fashiontrends/pkg/services"
	"github.com/alitto/pond/v2"
)

type CachePrewarmer interface {
	Prewarm()
}

type CachePrewarmerConfig struct {
	FetchCount   int
	MaxWorkers   int
	Searcher     services.ImageSearcher
	ShutdownCtx  context.Context
	TopicService services.TopicServicer
}

type CachePrewarmerService struct {
	fetchCount   int
	maxWorkers   int
	searcher     services.ImageSearcher
	shutdownCtx  context.Context
	topicService services.TopicServicer
}

func NewCachePrewarmerService(config CachePrewarmerConfig) CachePrewarmerService {
	return CachePrewarmerService{
		fetchCount:   config.FetchCount,
		maxWorkers:   config.MaxWorkers,
		searcher:     config.Searcher,
		shutdownCtx:  config.ShutdownCtx,
		topicService: config.TopicService,
	}
}

/*
Prewarm refreshes the search-result cache for every predefined topic.
Only search results are warmed. Scores are never precomputed, so the
per-render scoring path stays untouched.
*/
func (c CachePrewarmerService) Prewarm() {
	slog.Info("starting search cache prewarm...")

	if !c.searcher.HasAPIKey() {
		slog.Warn("skipping cache prewarm. no Unsplash API key configured")
		return
	}

	pool := pond.NewPool(c.maxWorkers, pond.WithContext(c.shutdownCtx))

	for _, topic := range c.topicService.PredefinedTopics() {
		pool.Submit(func() {
			images := c.searcher.Search(c.shutdownCtx, topic, c.fetchCount)
			slog.Info("prewarmed topic", "topic", topic, "numImages", len(images))
		})
	}

	_ = pool.Stop().Wait()
}
