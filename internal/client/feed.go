package client

import (
	"context"
	"sync"

	"github.com/promptlover/promptlover-be/internal/feed"
	"github.com/promptlover/promptlover-be/internal/models"
	"github.com/promptlover/promptlover-be/internal/services"
)

// Feed is the in-memory browse view: the full fetched prompt list plus the
// active category selection and sort key.
type Feed struct {
	client *Client

	mu        sync.Mutex
	prompts   []models.Prompt
	selection feed.Selection
	sortKey   feed.SortKey
}

// NewFeed creates an empty feed sorted by recency.
func NewFeed(c *Client) *Feed {
	return &Feed{client: c, sortKey: feed.SortLatest}
}

// Load fetches the full prompt list from the server.
func (f *Feed) Load(ctx context.Context) error {
	prompts, err := f.client.ListPrompts(ctx)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.prompts = prompts
	f.mu.Unlock()
	return nil
}

// Select sets the category filter. Selecting a main category clears any
// subcategory selection.
func (f *Feed) Select(sel feed.Selection) {
	f.mu.Lock()
	f.selection = sel
	f.mu.Unlock()
}

// SortBy sets the sort key.
func (f *Feed) SortBy(key feed.SortKey) {
	f.mu.Lock()
	f.sortKey = key
	f.mu.Unlock()
}

// Visible returns the filtered, sorted sequence the view renders.
func (f *Feed) Visible() []models.Prompt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return feed.Apply(f.prompts, f.selection, f.sortKey)
}

// Card builds the card view state for one listed prompt, wired to replace
// the feed's matching entry after each settled counter write.
func (f *Feed) Card(promptID string) (*Card, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.prompts {
		if p.ID == promptID {
			return NewCard(f.client, p, f.Reconcile), true
		}
	}
	return nil, false
}

// Reconcile replaces the feed's entry for an updated prompt. The merged
// local value is trusted as-is, not re-fetched.
func (f *Feed) Reconcile(updated models.Prompt) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.prompts {
		if p.ID == updated.ID {
			f.prompts[i] = updated
			return
		}
	}
}

// OpenDetail is the route-level detail page: it fetches the single prompt
// by id and does its own first-view bookkeeping, independent of any card.
func (c *Client) OpenDetail(ctx context.Context, id string) (models.Prompt, error) {
	prompt, err := c.GetPrompt(ctx, id)
	if err != nil {
		return models.Prompt{}, err
	}

	user := c.User()
	if user == nil || prompt.HasViewed(user.ID) {
		return prompt, nil
	}

	views := prompt.Views + 1
	viewedBy := append(append([]string(nil), prompt.ViewedBy...), user.ID)
	updated, err := c.UpdateCounters(ctx, id, services.CounterUpdate{Views: &views, ViewedBy: viewedBy})
	if err != nil {
		// Keep the fetched document; view tracking is best-effort.
		return prompt, nil
	}
	return updated, nil
}
