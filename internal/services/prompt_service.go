package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/promptlover/promptlover-be/internal/categories"
	"github.com/promptlover/promptlover-be/internal/models"
)

const (
	minCategories = 1
	maxCategories = 3
)

// PromptServiceProvider defines the interface for prompt services.
type PromptServiceProvider interface {
	GetAllPrompts(creatorID string) ([]models.Prompt, error)
	GetPromptByID(id string) (models.Prompt, error)
	CreatePrompt(input CreatePromptInput) (models.Prompt, error)
	UpdateCounters(id string, update CounterUpdate) (models.Prompt, error)
	DeletePrompt(id, userID string) error
}

// CreatePromptInput carries the validated-on-entry fields for a new prompt.
// ImageURL is the asset store URL, already uploaded by the handler.
type CreatePromptInput struct {
	ImageURL   string
	PromptText string
	AITool     string
	Category   []string
	Creator    string
}

// CounterUpdate is the counters-only update payload. Nil pointers mean the
// field was absent from the request. LikedBy/ViewedBy are the bookkeeping
// sets that ride along with the counters; nil means untouched.
type CounterUpdate struct {
	Likes    *int
	Views    *int
	LikedBy  []string
	ViewedBy []string
}

// PromptService provides business logic for prompt listings.
type PromptService struct {
	db       *sql.DB
	userSvc  *UserService
	eventSvc EventServiceProvider
}

// NewPromptService creates a new PromptService.
func NewPromptService(db *sql.DB, userSvc *UserService, eventSvc EventServiceProvider) *PromptService {
	return &PromptService{db: db, userSvc: userSvc, eventSvc: eventSvc}
}

// scanPrompt is a helper to scan a prompt from a row or rows object.
func scanPrompt(scanner interface{ Scan(...interface{}) error }) (models.Prompt, error) {
	var p models.Prompt
	var category, likedBy, viewedBy sql.NullString

	err := scanner.Scan(
		&p.ID, &p.ImageURL, &p.PromptText, &p.AITool, &p.Creator,
		&p.Views, &p.Likes, &category, &likedBy, &viewedBy, &p.CreatedAt,
	)
	if err != nil {
		return p, err
	}

	p.CategoryJSON = category.String
	p.LikedByJSON = likedBy.String
	p.ViewedByJSON = viewedBy.String

	p.PrepareForAPI() // Unmarshal all JSON fields
	return p, nil
}

const promptColumns = `id, image_url, prompt_text, ai_tool, creator, views, likes, category_json, liked_by_json, viewed_by_json, created_at`

// GetAllPrompts retrieves all prompts ordered by creation recency, newest
// first, optionally filtered by creator.
func (s *PromptService) GetAllPrompts(creatorID string) ([]models.Prompt, error) {
	query := `SELECT ` + promptColumns + ` FROM prompts ORDER BY created_at DESC, id DESC`
	args := []interface{}{}
	if creatorID != "" {
		query = `SELECT ` + promptColumns + ` FROM prompts WHERE creator = ? ORDER BY created_at DESC, id DESC`
		args = append(args, creatorID)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prompts := []models.Prompt{}
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, p)
	}
	return prompts, rows.Err()
}

// GetPromptByID retrieves a single prompt by its ID.
func (s *PromptService) GetPromptByID(id string) (models.Prompt, error) {
	row := s.db.QueryRow(`SELECT `+promptColumns+` FROM prompts WHERE id = ?`, id)
	p, err := scanPrompt(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Prompt{}, fmt.Errorf("%w: prompt %s", ErrNotFound, id)
		}
		return models.Prompt{}, err
	}
	return p, nil
}

// CreatePrompt validates the listing fields and persists a new prompt.
func (s *PromptService) CreatePrompt(input CreatePromptInput) (models.Prompt, error) {
	if input.ImageURL == "" || input.PromptText == "" || input.AITool == "" || len(input.Category) == 0 {
		return models.Prompt{}, fmt.Errorf("%w: missing required fields (including 1-3 categories)", ErrValidation)
	}
	if len(input.Category) > maxCategories {
		return models.Prompt{}, fmt.Errorf("%w: maximum %d categories allowed", ErrValidation, maxCategories)
	}
	for _, cat := range input.Category {
		if !categories.IsSubcategory(cat) {
			return models.Prompt{}, fmt.Errorf("%w: unknown category %q", ErrValidation, cat)
		}
	}
	if input.Creator == "" {
		return models.Prompt{}, fmt.Errorf("%w: no creator session", ErrUnauthorized)
	}

	prompt := models.Prompt{
		ID:         uuid.New().String(),
		ImageURL:   input.ImageURL,
		PromptText: input.PromptText,
		AITool:     input.AITool,
		Creator:    input.Creator,
		Category:   input.Category,
		LikedBy:    []string{},
		ViewedBy:   []string{},
	}
	prompt.PrepareForSave()

	stmt, err := s.db.Prepare(`INSERT INTO prompts(id, image_url, prompt_text, ai_tool, creator, category_json, liked_by_json, viewed_by_json) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.Prompt{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		prompt.ID, prompt.ImageURL, prompt.PromptText, prompt.AITool,
		prompt.Creator, prompt.CategoryJSON, prompt.LikedByJSON, prompt.ViewedByJSON,
	)
	if err != nil {
		return models.Prompt{}, err
	}

	s.eventSvc.CreateEvent("prompt.create", "info", fmt.Sprintf("Prompt created by %s", prompt.Creator), &prompt.ID)

	// Re-read so CreatedAt reflects the stored value.
	return s.GetPromptByID(prompt.ID)
}

// UpdateCounters applies the counters-only update path: likes and views are
// absolute-value overwrites, and the likedBy/viewedBy bookkeeping sets ride
// along when supplied. Content fields never change here. The write is
// last-writer-wins; concurrent updates computed from a stale read can lose
// an increment (the reconciler sweeps up likes/likedBy drift afterwards).
func (s *PromptService) UpdateCounters(id string, update CounterUpdate) (models.Prompt, error) {
	if update.Likes == nil && update.Views == nil {
		return models.Prompt{}, fmt.Errorf("%w: no valid update fields provided", ErrValidation)
	}
	if update.Likes != nil && *update.Likes < 0 {
		return models.Prompt{}, fmt.Errorf("%w: likes must be non-negative", ErrValidation)
	}
	if update.Views != nil && *update.Views < 0 {
		return models.Prompt{}, fmt.Errorf("%w: views must be non-negative", ErrValidation)
	}

	current, err := s.GetPromptByID(id)
	if err != nil {
		return models.Prompt{}, err
	}

	if update.Likes != nil {
		current.Likes = *update.Likes
	}
	if update.Views != nil {
		current.Views = *update.Views
	}
	oldLikedBy := current.LikedBy
	if update.LikedBy != nil {
		current.LikedBy = update.LikedBy
	}
	if update.ViewedBy != nil {
		current.ViewedBy = update.ViewedBy
	}
	current.PrepareForSave()

	_, err = s.db.Exec(
		`UPDATE prompts SET views = ?, likes = ?, liked_by_json = ?, viewed_by_json = ? WHERE id = ?`,
		current.Views, current.Likes, current.LikedByJSON, current.ViewedByJSON, id,
	)
	if err != nil {
		return models.Prompt{}, err
	}

	if update.LikedBy != nil {
		s.syncLikedPrompts(id, oldLikedBy, update.LikedBy)
	}

	return s.GetPromptByID(id)
}

// syncLikedPrompts mirrors likedBy changes into the affected users'
// liked-prompt lists. Failures here are logged as events, not surfaced.
func (s *PromptService) syncLikedPrompts(promptID string, oldSet, newSet []string) {
	old := make(map[string]bool, len(oldSet))
	for _, id := range oldSet {
		old[id] = true
	}
	next := make(map[string]bool, len(newSet))
	for _, id := range newSet {
		next[id] = true
	}

	for userID := range next {
		if !old[userID] {
			s.adjustUserLikes(userID, promptID, true)
		}
	}
	for userID := range old {
		if !next[userID] {
			s.adjustUserLikes(userID, promptID, false)
		}
	}
}

func (s *PromptService) adjustUserLikes(userID, promptID string, add bool) {
	user, err := s.userSvc.GetUserByID(userID)
	if err != nil {
		return
	}
	liked := make([]string, 0, len(user.LikedPrompts)+1)
	for _, id := range user.LikedPrompts {
		if id != promptID {
			liked = append(liked, id)
		}
	}
	if add {
		liked = append(liked, promptID)
	}
	if err := s.userSvc.setLikedPrompts(userID, liked); err != nil {
		s.eventSvc.CreateEvent("counters.sync.fail", "warn", fmt.Sprintf("Failed to sync liked prompts for user %s: %v", userID, err), &promptID)
	}
}

// DeletePrompt removes a prompt. Only the creator may delete their listing.
func (s *PromptService) DeletePrompt(id, userID string) error {
	prompt, err := s.GetPromptByID(id)
	if err != nil {
		return err
	}
	if prompt.Creator != userID {
		return fmt.Errorf("%w: you are not authorized to delete this prompt", ErrForbidden)
	}

	_, err = s.db.Exec("DELETE FROM prompts WHERE id = ?", id)
	if err != nil {
		return err
	}

	s.eventSvc.CreateEvent("prompt.delete", "info", fmt.Sprintf("Prompt deleted by %s", userID), &id)
	return nil
}

// ReconcileLikeCounts repairs prompts whose likes counter drifted from the
// size of their likedBy set, which the absolute-value update path allows
// under concurrent writes. Returns the number of repaired prompts.
func (s *PromptService) ReconcileLikeCounts() (int, error) {
	prompts, err := s.GetAllPrompts("")
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, p := range prompts {
		if p.Likes == len(p.LikedBy) {
			continue
		}
		_, err := s.db.Exec("UPDATE prompts SET likes = ? WHERE id = ?", len(p.LikedBy), p.ID)
		if err != nil {
			return repaired, err
		}
		repaired++
		id := p.ID
		s.eventSvc.CreateEvent("counters.reconcile", "warn",
			fmt.Sprintf("Repaired likes counter %d -> %d", p.Likes, len(p.LikedBy)), &id)
	}
	return repaired, nil
}
