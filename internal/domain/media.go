package domain

// MediaResult autocomplete entry for the movie list search box
type MediaResult struct {
	ID         int     `json:"id"`
	Type       string  `json:"type"` // movie | tv
	Title      string  `json:"title"`
	Year       string  `json:"year,omitempty"`
	Poster     string  `json:"poster,omitempty"`
	Popularity float64 `json:"popularity"`
}
