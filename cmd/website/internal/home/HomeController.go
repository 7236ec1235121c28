package home

import (
	"net/http"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/slices"
	"github.com/adampresley/fashiontrends/cmd/website/internal/viewmodels"
	"github.com/adampresley/fashiontrends/pkg/services"
)

type HomeHandlers interface {
	HomePage(w http.ResponseWriter, r *http.Request)
}

type HomeControllerConfig struct {
	Renderer     rendering.TemplateRenderer
	TopicService services.TopicServicer
}

type HomeController struct {
	renderer     rendering.TemplateRenderer
	topicService services.TopicServicer
}

func NewHomeController(config HomeControllerConfig) HomeController {
	return HomeController{
		renderer:     config.Renderer,
		topicService: config.TopicService,
	}
}

/*
GET /
*/
func (c HomeController) HomePage(w http.ResponseWriter, r *http.Request) {
	defaults := c.topicService.DefaultSelection()

	viewData := viewmodels.HomePage{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx:             httphelpers.IsHtmx(r),
			JavascriptIncludes: []rendering.JavascriptInclude{},
		},
		Topics:            []viewmodels.TopicOption{},
		CustomPlaceholder: "e.g., Paris street style, vintage denim, boho outfit",
		Updated:           time.Now().Format("2006-01-02 15:04:05"),
	}

	for _, topic := range c.topicService.PredefinedTopics() {
		viewData.Topics = append(viewData.Topics, viewmodels.TopicOption{
			Name:     topic,
			Selected: slices.IsInSlice(topic, defaults),
		})
	}

	c.renderer.Render("pages/home", viewData, w)
}
