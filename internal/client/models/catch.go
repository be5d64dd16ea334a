package models

import "time"

// Catch is one entry of the catch log, stored as a platform document.
type Catch struct {
	ID               string    `json:"$id"`
	UserID           string    `json:"userId"`
	Species          string    `json:"species"`
	Weight           float64   `json:"weight,omitempty"`
	Length           float64   `json:"length,omitempty"`
	LocationName     string    `json:"locationName,omitempty"`
	Latitude         float64   `json:"latitude,omitempty"`
	Longitude        float64   `json:"longitude,omitempty"`
	Bait             string    `json:"bait,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	CaughtAt         time.Time `json:"caughtAt"`
	Photos           []string  `json:"photos"`
	SharedWithGroups []string  `json:"sharedWithGroups"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// CatchInput holds the user-editable fields of a catch.
type CatchInput struct {
	UserID           string
	Species          string
	Weight           float64
	Length           float64
	LocationName     string
	Latitude         float64
	Longitude        float64
	Bait             string
	Notes            string
	CaughtAt         time.Time
	SharedWithGroups []string
}

// Photo is an image selected for upload alongside a catch.
type Photo struct {
	Name        string
	ContentType string
	Data        []byte
}

// Document returns the catch body as sent to the document store, without
// the platform-owned $id.
func (c *Catch) Document() map[string]any {
	doc := map[string]any{
		"userId":           c.UserID,
		"species":          c.Species,
		"weight":           c.Weight,
		"length":           c.Length,
		"locationName":     c.LocationName,
		"latitude":         c.Latitude,
		"longitude":        c.Longitude,
		"bait":             c.Bait,
		"notes":            c.Notes,
		"caughtAt":         timestamp(c.CaughtAt),
		"photos":           orEmpty(c.Photos),
		"sharedWithGroups": orEmpty(c.SharedWithGroups),
		"createdAt":        timestamp(c.CreatedAt),
	}
	if !c.UpdatedAt.IsZero() {
		doc["updatedAt"] = timestamp(c.UpdatedAt)
	}
	return doc
}

// NewCatch builds a catch from user input; ID and photos are filled in by
// the caller.
func NewCatch(in CatchInput, createdAt time.Time) *Catch {
	return &Catch{
		UserID:           in.UserID,
		Species:          in.Species,
		Weight:           in.Weight,
		Length:           in.Length,
		LocationName:     in.LocationName,
		Latitude:         in.Latitude,
		Longitude:        in.Longitude,
		Bait:             in.Bait,
		Notes:            in.Notes,
		CaughtAt:         in.CaughtAt,
		SharedWithGroups: in.SharedWithGroups,
		CreatedAt:        createdAt,
	}
}
