package models

import "time"

type Rating struct {
	Score  int    `json:"score"`
	Source string `json:"source,omitempty"`
}

// Offer is a game currently free on some storefront, as reported by a fetcher.
// It is never persisted; only its identity and end date reach the registry.
type Offer struct {
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	ImageURL      string     `json:"imageUrl,omitempty"`
	URL           string     `json:"url"`
	Store         string     `json:"store"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	EndDate       *time.Time `json:"endDate,omitempty"`
	OriginalPrice string     `json:"originalPrice,omitempty"`
	Genres        []string   `json:"genres,omitempty"`
	Rating        *Rating    `json:"rating,omitempty"`
}
