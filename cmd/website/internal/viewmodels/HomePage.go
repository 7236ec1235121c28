package viewmodels

type HomePage struct {
	BaseViewModel
	Topics            []TopicOption
	CustomPlaceholder string
	Updated           string
}

type TopicOption struct {
	Name     string
	Selected bool
}
