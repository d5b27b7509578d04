package domain

import "time"

// Bookmark represents a saved URL. ShortURL is a 3-character alphanumeric
// code, unique across all bookmarks. UserID is set at creation and never
// changes.
type Bookmark struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	URL       string    `json:"url"`
	Body      string    `json:"body"`
	ShortURL  string    `json:"short_url"`
	Visits    int64     `json:"visits"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookmarkStats is the per-bookmark visit summary.
type BookmarkStats struct {
	ID       int64  `json:"id"`
	URL      string `json:"url"`
	ShortURL string `json:"short_url"`
	Visits   int64  `json:"visits"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int   `json:"page"`
	Pages      int   `json:"pages"`
	TotalCount int64 `json:"total_count"`
	PrevPage   int   `json:"prev_page"`
	HasPrev    bool  `json:"has_prev"`
	NextPage   int   `json:"next_page"`
	HasNext    bool  `json:"has_next"`
}
