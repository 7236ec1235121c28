package services

import (
	"reflect"
	"testing"

	"github.com/adampresley/adamgokit/slices"
)

func TestBuildSelection_MergesPredefinedAndFreeText(t *testing.T) {
	s := NewTopicService(TopicServiceConfig{})

	got := s.BuildSelection(
		[]string{"street style", "vintage style"},
		"Paris street style, vintage denim",
	)

	want := []string{"street style", "vintage style", "Paris street style", "vintage denim"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBuildSelection_TrimsAndDropsEmptyEntries(t *testing.T) {
	s := NewTopicService(TopicServiceConfig{})

	got := s.BuildSelection(nil, "  boho outfit ,, ,  vintage denim  ")
	want := []string{"boho outfit", "vintage denim"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBuildSelection_RemovesDuplicates(t *testing.T) {
	s := NewTopicService(TopicServiceConfig{})

	got := s.BuildSelection(
		[]string{"street style", "street style"},
		"street style, haute couture",
	)

	want := []string{"street style", "haute couture"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBuildSelection_EmptyInputYieldsEmptySelection(t *testing.T) {
	s := NewTopicService(TopicServiceConfig{})

	got := s.BuildSelection([]string{}, "   ,  , ")

	if len(got) != 0 {
		t.Errorf("expected empty selection, got %v", got)
	}
}

func TestDefaultSelection_ReturnsRequestedNumberOfPredefinedTopics(t *testing.T) {
	s := NewTopicService(TopicServiceConfig{NumDefaultTopics: 3})

	got := s.DefaultSelection()

	if len(got) != 3 {
		t.Fatalf("expected 3 topics, got %d", len(got))
	}

	seen := []string{}

	for _, topic := range got {
		if !slices.IsInSlice(topic, FashionTopics) {
			t.Errorf("topic %q is not a predefined topic", topic)
		}

		if slices.IsInSlice(topic, seen) {
			t.Errorf("topic %q was selected twice", topic)
		}

		seen = append(seen, topic)
	}
}

func TestPredefinedTopics_ReturnsACopy(t *testing.T) {
	s := NewTopicService(TopicServiceConfig{})

	topics := s.PredefinedTopics()
	topics[0] = "mutated"

	if FashionTopics[0] == "mutated" {
		t.Error("PredefinedTopics returned the underlying slice instead of a copy")
	}
}
