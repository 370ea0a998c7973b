package models

import (
	"encoding/json"
	"time"
)

// User represents a registered account in the gallery.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	CreatedAt    time.Time `json:"createdAt"`

	// JSON string field for DB storage
	LikedPromptsJSON string `json:"-"`

	// Prompt ids this user has liked, kept in sync by the counters
	// update path.
	LikedPrompts []string `json:"likedPrompts,omitempty"`
}

// PublicUser is the subset of User returned by the auth endpoints.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Public strips everything the auth endpoints are not allowed to return.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username}
}

// PrepareForSave marshals the liked prompt list into its JSON string for DB storage.
func (u *User) PrepareForSave() {
	likedBytes, _ := json.Marshal(u.LikedPrompts)
	u.LikedPromptsJSON = string(likedBytes)
}

// PrepareForAPI unmarshals the JSON string field for API responses.
func (u *User) PrepareForAPI() {
	if u.LikedPromptsJSON != "" {
		json.Unmarshal([]byte(u.LikedPromptsJSON), &u.LikedPrompts)
	}
}
