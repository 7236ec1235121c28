package services

import (
	"math/rand/v2"
	"strings"

	"github.com/adampresley/adamgokit/slices"
)

/*
FashionTopics is the fixed list of predefined search topics offered on
the home page.
*/
var FashionTopics = []string{
	"street style",
	"runway fashion",
	"outfit of the day",
	"minimalist fashion",
	"vintage style",
	"haute couture",
	"sustainable fashion",
	"summer looks",
	"winter outfits",
	"editorial fashion",
}

type TopicServicer interface {
	PredefinedTopics() []string
	DefaultSelection() []string
	BuildSelection(predefined []string, freeText string) []string
}

type TopicServiceConfig struct {
	NumDefaultTopics int
}

type TopicService struct {
	numDefaultTopics int
}

func NewTopicService(config TopicServiceConfig) TopicService {
	if config.NumDefaultTopics <= 0 {
		config.NumDefaultTopics = 3
	}

	return TopicService{
		numDefaultTopics: config.NumDefaultTopics,
	}
}

func (s TopicService) PredefinedTopics() []string {
	result := make([]string, len(FashionTopics))
	copy(result, FashionTopics)
	return result
}

/*
DefaultSelection returns a random sample of the predefined topics,
used to preselect entries on the home page.
*/
func (s TopicService) DefaultSelection() []string {
	topics := s.PredefinedTopics()

	rand.Shuffle(len(topics), func(i, j int) {
		topics[i], topics[j] = topics[j], topics[i]
	})

	count := s.numDefaultTopics
	if count > len(topics) {
		count = len(topics)
	}

	return topics[:count]
}

/*
BuildSelection merges the chosen predefined topics with the
comma-separated free-text entries. Entries are trimmed, empties are
dropped, and duplicates are removed while preserving selection order.
An empty result means the caller must halt the pipeline and prompt
the user.
*/
func (s TopicService) BuildSelection(predefined []string, freeText string) []string {
	selection := []string{}

	add := func(topic string) {
		topic = strings.TrimSpace(topic)

		if topic == "" {
			return
		}

		if slices.IsInSlice(topic, selection) {
			return
		}

		selection = append(selection, topic)
	}

	for _, topic := range predefined {
		add(topic)
	}

	for _, topic := range strings.Split(freeText, ",") {
		add(topic)
	}

	return selection
}
