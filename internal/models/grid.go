package models

// GridItem is a single picture in the display grid. The ID is synthetic and
// stable for the lifetime of the sequence it belongs to; a new fetch replaces
// the whole sequence and reissues IDs.
type GridItem struct {
	ID          string `json:"id"`
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description"`
}
