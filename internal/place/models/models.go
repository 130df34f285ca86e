package models

// Place is a candidate location for a free-text query.
type Place struct {
	PlaceID string `json:"place_id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}
