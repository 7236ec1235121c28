package models

/*
TopicGallery holds the ranked images for a single topic. Message is a
per-topic warning shown when no images could be fetched.
*/
type TopicGallery struct {
	Topic   string
	Images  []ImageRecord
	Message string
}

func (g TopicGallery) HasImages() bool {
	return len(g.Images) > 0
}
