package viewmodels

import (
	"github.com/adampresley/fashiontrends/pkg/models"
)

type TrendsPage struct {
	BaseViewModel
	SelectedTopics string
	Galleries      []models.TopicGallery
}
