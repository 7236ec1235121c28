package trends

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/fashiontrends/cmd/website/internal/viewmodels"
	"github.com/adampresley/fashiontrends/pkg/models"
	"github.com/adampresley/fashiontrends/pkg/services"
)

type TrendsHandlers interface {
	TrendsPage(w http.ResponseWriter, r *http.Request)
}

type TrendsControllerConfig struct {
	Renderer     rendering.TemplateRenderer
	Searcher     services.ImageSearcher
	TopicService services.TopicServicer
	TrendService services.TrendServicer
}

type TrendsController struct {
	renderer     rendering.TemplateRenderer
	searcher     services.ImageSearcher
	topicService services.TopicServicer
	trendService services.TrendServicer
}

func NewTrendsController(config TrendsControllerConfig) TrendsController {
	return TrendsController{
		renderer:     config.Renderer,
		searcher:     config.Searcher,
		topicService: config.TopicService,
		trendService: config.TrendService,
	}
}

/*
GET /trends

Accepts repeated "topics" query values from the multi-select plus a
"custom" comma-separated text field. An empty selection halts here:
nothing downstream runs and the visitor is prompted to pick a topic.
*/
func (c TrendsController) TrendsPage(w http.ResponseWriter, r *http.Request) {
	pageName := "pages/trends"

	requestID := viewmodels.GetRequestIDFromContext(r)

	selectedPredefined := r.URL.Query()["topics"]
	customText := httphelpers.GetFromRequest[string](r, "custom")

	selection := c.topicService.BuildSelection(selectedPredefined, customText)

	viewData := viewmodels.TrendsPage{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx:             httphelpers.IsHtmx(r),
			JavascriptIncludes: []rendering.JavascriptInclude{},
		},
		Galleries: []models.TopicGallery{},
	}

	if len(selection) == 0 {
		viewData.IsWarning = true
		viewData.Message = "Choose at least one style or enter your own keywords."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	viewData.SelectedTopics = strings.Join(selection, ", ")

	if !c.searcher.HasAPIKey() {
		slog.Error("Unsplash API key is not configured. galleries will be empty", "requestID", requestID)
		viewData.IsError = true
		viewData.Message = "Missing Unsplash API key."
	} else {
		viewData.Message = fmt.Sprintf("Showing looks for %s", viewData.SelectedTopics)
	}

	slog.Info("rendering trend galleries", "requestID", requestID, "topics", viewData.SelectedTopics)

	viewData.Galleries = c.trendService.TrendsFor(r.Context(), selection)

	c.renderer.Render(pageName, viewData, w)
}
