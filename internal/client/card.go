package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/promptlover/promptlover-be/internal/models"
	"github.com/promptlover/promptlover-be/internal/services"
)

// Card holds the per-prompt view state behind a rendered card, modal or
// detail page: the last known document plus the like/view transitions.
//
// The double-submission guard is the in-flight request itself: counter
// writes for one prompt id are routed through a singleflight group, so a
// second attempt while one is pending joins it instead of firing another.
type Card struct {
	client *Client
	flight *singleflight.Group

	mu     sync.Mutex
	prompt models.Prompt

	// onUpdate receives the post-write document, letting the owning feed
	// replace its matching entry (read-your-own-write reconciliation).
	onUpdate func(models.Prompt)
}

// NewCard seeds a card from the last fetched document.
func NewCard(c *Client, prompt models.Prompt, onUpdate func(models.Prompt)) *Card {
	return &Card{
		client:   c,
		flight:   &singleflight.Group{},
		prompt:   prompt,
		onUpdate: onUpdate,
	}
}

// Prompt returns the card's current local document.
func (card *Card) Prompt() models.Prompt {
	card.mu.Lock()
	defer card.mu.Unlock()
	return card.prompt
}

// Like transitions Unliked -> Liked for the session user: optimistic local
// increment, user id appended to likedBy, then the counters-only write.
// Liking an already-liked prompt is a no-op.
func (card *Card) Like(ctx context.Context) error {
	user := card.client.User()
	if user == nil {
		return fmt.Errorf("%w: you must be logged in to like a prompt", services.ErrUnauthorized)
	}

	card.mu.Lock()
	if card.prompt.HasLiked(user.ID) {
		card.mu.Unlock()
		return nil
	}
	card.prompt.Likes++
	card.prompt.LikedBy = append(card.prompt.LikedBy, user.ID)
	likes := card.prompt.Likes
	likedBy := append([]string(nil), card.prompt.LikedBy...)
	card.mu.Unlock()

	return card.writeCounters(ctx, services.CounterUpdate{Likes: &likes, LikedBy: likedBy})
}

// Unlike transitions Liked -> Unliked: symmetric decrement and removal from
// likedBy. Unliking a prompt the user never liked is a no-op.
func (card *Card) Unlike(ctx context.Context) error {
	user := card.client.User()
	if user == nil {
		return fmt.Errorf("%w: you must be logged in to unlike a prompt", services.ErrUnauthorized)
	}

	card.mu.Lock()
	if !card.prompt.HasLiked(user.ID) {
		card.mu.Unlock()
		return nil
	}
	card.prompt.Likes--
	likedBy := make([]string, 0, len(card.prompt.LikedBy))
	for _, id := range card.prompt.LikedBy {
		if id != user.ID {
			likedBy = append(likedBy, id)
		}
	}
	card.prompt.LikedBy = likedBy
	likes := card.prompt.Likes
	sent := append([]string(nil), likedBy...)
	card.mu.Unlock()

	return card.writeCounters(ctx, services.CounterUpdate{Likes: &likes, LikedBy: sent})
}

// Open transitions Unviewed -> Viewed and returns the document for the
// modal. The first open per user bumps the view counter; repeats only
// return the document. Without a session, the open is rejected (the feed
// redirects to the login page).
func (card *Card) Open(ctx context.Context) (models.Prompt, error) {
	user := card.client.User()
	if user == nil {
		return models.Prompt{}, fmt.Errorf("%w: you must be logged in to view listing details", services.ErrUnauthorized)
	}

	card.mu.Lock()
	if card.prompt.HasViewed(user.ID) {
		prompt := card.prompt
		card.mu.Unlock()
		return prompt, nil
	}
	card.prompt.Views++
	card.prompt.ViewedBy = append(card.prompt.ViewedBy, user.ID)
	views := card.prompt.Views
	viewedBy := append([]string(nil), card.prompt.ViewedBy...)
	prompt := card.prompt
	card.mu.Unlock()

	if err := card.writeCounters(ctx, services.CounterUpdate{Views: &views, ViewedBy: viewedBy}); err != nil {
		return prompt, err
	}
	return card.Prompt(), nil
}

// writeCounters issues the counters-only update through the per-prompt
// singleflight. The local optimistic state is kept even when the write
// fails; only the failure is logged, and the UI may diverge from the server
// until the next full reload.
func (card *Card) writeCounters(ctx context.Context, update services.CounterUpdate) error {
	id := card.Prompt().ID
	result, err, _ := card.flight.Do(id, func() (interface{}, error) {
		return card.client.UpdateCounters(ctx, id, update)
	})
	if err != nil {
		log.Warn().Err(err).Str("prompt_id", id).Msg("Counter write failed; keeping optimistic state")
		return err
	}

	merged := result.(models.Prompt)
	card.mu.Lock()
	card.prompt = merged
	card.mu.Unlock()

	if card.onUpdate != nil {
		card.onUpdate(merged)
	}
	return nil
}
