package models

import "time"

type Message struct {
	ID       int       `json:"message_id"`
	AuthorID int       `json:"author_id"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
	Flagged  int       `json:"flagged"`
}

// TimelineEntry is a message joined with its author, the shape every
// timeline listing returns.
type TimelineEntry struct {
	Message Message
	Author  User
}
