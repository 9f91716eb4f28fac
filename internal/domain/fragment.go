package domain

import "time"

// Fragment is a unit of reusable text addressed by a reference.
//
// Content is populated only by FragmentStore.Find; composition always goes
// through LoadContent so edits on disk are picked up on every call.
type Fragment struct {
	Ref       string    `json:"ref"`
	Name      string    `json:"name"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
