package domain

// Article is the provider-agnostic news item shape used throughout the system.
// ID is a stable surrogate key (the provider URL) so callers can track
// read/favorite state across repeated fetches of the same item.
type Article struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"publishedAt"`
}
