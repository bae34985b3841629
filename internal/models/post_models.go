package models

import "time"

// Post is a social post returned by a feed search. Only Text is classified.
type Post struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Lang      string    `json:"lang,omitempty"`
	Location  string    `json:"location,omitempty"`
}
