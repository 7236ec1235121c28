package main

import (
	"context"
	"embed"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/mux"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/fashiontrends/cmd/website/internal/cache"
	"github.com/adampresley/fashiontrends/cmd/website/internal/configuration"
	"github.com/adampresley/fashiontrends/cmd/website/internal/home"
	"github.com/adampresley/fashiontrends/cmd/website/internal/trends"
	pkgcache "github.com/adampresley/fashiontrends/pkg/cache"
	"github.com/adampresley/fashiontrends/pkg/models"
	"github.com/adampresley/fashiontrends/pkg/services"
)

var (
	Version string = "development"
	appName string = "fashiontrends"

	//go:embed app
	appFS embed.FS

	config configuration.Config

	/* Services */
	aestheticService services.AestheticScorer
	prewarmerService cache.CachePrewarmer
	renderer         rendering.TemplateRenderer
	searchCache      *pkgcache.TTLCache[[]models.ImageRecord]
	topicService     services.TopicServicer
	trendService     services.TrendServicer
	unsplashService  services.ImageSearcher

	/* Controllers */
	homeController   home.HomeHandlers
	trendsController trends.TrendsHandlers
)

func main() {
	var (
		err error
	)

	config = configuration.LoadConfig()
	setupLogger(&config, Version)

	slog.Info("configuration loaded",
		slog.String("app", appName),
		slog.String("version", Version),
		slog.String("loglevel", config.LogLevel),
		slog.String("host", config.Host),
		slog.String("unsplashBaseUrl", config.UnsplashBaseUrl),
		slog.String("inferenceUrl", config.InferenceUrl),
		slog.String("modelID", config.ModelID),
	)

	slog.Debug("setting up...")

	shutdownCtx, cancel := context.WithCancel(context.Background())

	/*
	 * Setup services
	 */
	renderer, err = rendering.NewGoTemplateRenderer(rendering.GoTemplateRendererConfig{
		TemplateDir:       "app",
		TemplateExtension: ".html",
		TemplateFS:        appFS,
		PagesDir:          "pages",
	})

	if err != nil {
		panic(err)
	}

	searchCache = pkgcache.NewTTLCache[[]models.ImageRecord](time.Duration(config.CacheTTLMinutes) * time.Minute)

	topicService = services.NewTopicService(services.TopicServiceConfig{
		NumDefaultTopics: 3,
	})

	unsplashService = services.NewUnsplashService(services.UnsplashServiceConfig{
		ApiKey:  config.UnsplashApiKey,
		BaseUrl: config.UnsplashBaseUrl,
		Cache:   searchCache,
	})

	aestheticService = services.NewAestheticService(services.AestheticServiceConfig{
		InferenceUrl: config.InferenceUrl,
		ModelID:      config.ModelID,
		ImageTimeout: time.Duration(config.ImageTimeoutSeconds) * time.Second,
	})

	trendService = services.NewTrendService(services.TrendServiceConfig{
		Searcher:   unsplashService,
		Scorer:     aestheticService,
		FetchCount: config.FetchCount,
		TopCount:   config.TopCount,
	})

	prewarmerService = cache.NewCachePrewarmerService(cache.CachePrewarmerConfig{
		FetchCount:   config.FetchCount,
		MaxWorkers:   config.MaxPrewarmWorkers,
		Searcher:     unsplashService,
		ShutdownCtx:  shutdownCtx,
		TopicService: topicService,
	})

	/*
	 * Setup controllers
	 */
	homeController = home.NewHomeController(home.HomeControllerConfig{
		Renderer:     renderer,
		TopicService: topicService,
	})

	trendsController = trends.NewTrendsController(trends.TrendsControllerConfig{
		Renderer:     renderer,
		Searcher:     unsplashService,
		TopicService: topicService,
		TrendService: trendService,
	})

	/*
	 * Setup router and http server
	 */
	slog.Debug("setting up routes...")

	requestID := newRequestIDMiddleware()

	routes := []mux.Route{
		{Path: "GET /heartbeat", HandlerFunc: heartbeat},
		{Path: "GET /", HandlerFunc: homeController.HomePage, Middlewares: []mux.MiddlewareFunc{requestID}},
		{Path: "GET /trends", HandlerFunc: trendsController.TrendsPage, Middlewares: []mux.MiddlewareFunc{requestID}},
	}

	routerConfig := mux.RouterConfig{
		Address:              config.Host,
		Debug:                Version == "development",
		ServeStaticContent:   true,
		StaticContentRootDir: "app",
		StaticContentPrefix:  "/static/",
		StaticFS:             appFS,
		HttpWriteTimeout:     120,
	}

	m := mux.SetupRouter(routerConfig, routes)
	httpServer, quit := mux.SetupServer(routerConfig, m)

	/*
	 * Start the search cache prewarmer
	 */
	if config.PrewarmEnabled {
		setupPrewarmer(shutdownCtx)
	}

	/*
	 * Wait for graceful shutdown
	 */
	slog.Info("server started")

	<-quit

	cancel()
	mux.Shutdown(httpServer)
	slog.Info("server stopped")
}

func heartbeat(w http.ResponseWriter, r *http.Request) {
	httphelpers.TextOK(w, "OK")
}

func setupLogger(config *configuration.Config, version string) {
	level := slog.LevelDebug

	switch strings.ToLower(config.LogLevel) {
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler

	if version == "development" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	slog.SetDefault(slog.New(handler))
}

func setupPrewarmer(shutdownCtx context.Context) {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		running := true

		runner := func() {
			defer func() {
				running = false
			}()

			prewarmerService.Prewarm()
			slog.Info("cache prewarmer finished.")
		}

		runner()

		for {
			select {
			case <-shutdownCtx.Done():
				return

			case <-ticker.C:
				if running {
					slog.Info("cache prewarmer already running. skipping...")
					continue
				}

				running = true
				runner()
			}
		}
	}()
}
