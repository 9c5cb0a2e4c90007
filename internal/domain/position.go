package domain

import "time"

// PositionCheck is one search ranking observation for a category query.
// A zero position means the page was not found in the results.
type PositionCheck struct {
	CheckedAt  time.Time `json:"checked_at"`
	CategoryID int64     `json:"category_id"`
	Title      string    `json:"title"`
	Query      string    `json:"query"`
	Yandex     int       `json:"yandex"`
	Google     int       `json:"google"`
	URL        string    `json:"url,omitempty"`
	Change     string    `json:"change,omitempty"`
	Comment    string    `json:"comment,omitempty"`
}

// PageChange records an edit that was pushed to a category page.
type PageChange struct {
	ChangedAt  time.Time `json:"changed_at"`
	CategoryID int64     `json:"category_id"`
	Fields     []string  `json:"fields"`
	Comment    string    `json:"comment,omitempty"`
}
