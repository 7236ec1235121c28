package models

/*
ImageRecord is a single stock photo returned by the image search
service. Score is zero until the aesthetic scorer has run; Fallback is
true when the score came from the failure path instead of the model.
*/
type ImageRecord struct {
	Title    string
	URL      string
	Author   string
	Link     string
	Score    float64
	Fallback bool
}
