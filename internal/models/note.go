package models

import "time"

type Note struct {
	ID        string
	OwnerID   string
	Title     string
	Body      string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NoteWithOwner is a Note enriched with its owner's username, as returned
// by the list endpoint.
type NoteWithOwner struct {
	Note
	Username string
}
