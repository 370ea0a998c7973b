package models

import (
	"encoding/json"
	"time"
)

// Prompt represents a gallery listing pairing a generated image with the
// text used to generate it.
type Prompt struct {
	ID         string    `json:"id"`
	ImageURL   string    `json:"imageUrl"`
	PromptText string    `json:"promptText"`
	AITool     string    `json:"aiTool"`
	Creator    string    `json:"creator"` // immutable after creation
	Views      int       `json:"views"`
	Likes      int       `json:"likes"`
	CreatedAt  time.Time `json:"createdAt"`

	// JSON string fields for DB storage
	CategoryJSON string `json:"-"`
	LikedByJSON  string `json:"-"`
	ViewedByJSON string `json:"-"`

	// Slice fields for API interaction
	Category []string `json:"category"`
	LikedBy  []string `json:"likedBy,omitempty"`
	ViewedBy []string `json:"viewedBy,omitempty"`
}

// PrepareForSave marshals all slice fields into their respective JSON strings for DB storage.
func (p *Prompt) PrepareForSave() {
	categoryBytes, _ := json.Marshal(p.Category)
	p.CategoryJSON = string(categoryBytes)

	likedByBytes, _ := json.Marshal(p.LikedBy)
	p.LikedByJSON = string(likedByBytes)

	viewedByBytes, _ := json.Marshal(p.ViewedBy)
	p.ViewedByJSON = string(viewedByBytes)
}

// PrepareForAPI unmarshals all JSON string fields into their respective slice fields for API responses.
func (p *Prompt) PrepareForAPI() {
	if p.CategoryJSON != "" {
		json.Unmarshal([]byte(p.CategoryJSON), &p.Category)
	}
	if p.LikedByJSON != "" {
		json.Unmarshal([]byte(p.LikedByJSON), &p.LikedBy)
	}
	if p.ViewedByJSON != "" {
		json.Unmarshal([]byte(p.ViewedByJSON), &p.ViewedBy)
	}
}

// HasLiked reports whether the given user id is in the likedBy set.
func (p *Prompt) HasLiked(userID string) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// HasViewed reports whether the given user id is in the viewedBy set.
func (p *Prompt) HasViewed(userID string) bool {
	for _, id := range p.ViewedBy {
		if id == userID {
			return true
		}
	}
	return false
}
