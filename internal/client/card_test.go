package client

import (
	"context"
	"testing"

	"github.com/promptlover/promptlover-be/internal/models"
	"github.com/promptlover/promptlover-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardLikeUnlikeRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	alice := newLoggedInClient(t, srv, "alice")
	prompt := createTestPrompt(t, alice, "a red fox", []string{"Pets & Animals"})
	userID := alice.User().ID

	card := NewCard(alice, prompt, nil)

	require.NoError(t, card.Like(ctx))
	doc := card.Prompt()
	assert.Equal(t, 1, doc.Likes)
	assert.True(t, doc.HasLiked(userID))

	// The write went through, not just the optimistic copy.
	stored, err := alice.GetPrompt(ctx, prompt.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Likes)
	assert.True(t, stored.HasLiked(userID))

	// Liking again is a no-op.
	require.NoError(t, card.Like(ctx))
	assert.Equal(t, 1, card.Prompt().Likes)

	require.NoError(t, card.Unlike(ctx))
	doc = card.Prompt()
	assert.Equal(t, 0, doc.Likes)
	assert.False(t, doc.HasLiked(userID))

	stored, err = alice.GetPrompt(ctx, prompt.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Likes)
	assert.False(t, stored.HasLiked(userID))

	// Unliking a prompt that was never liked is also a no-op.
	require.NoError(t, card.Unlike(ctx))
	assert.Equal(t, 0, card.Prompt().Likes)
}

func TestCardRequiresSession(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	alice := newLoggedInClient(t, srv, "alice")
	prompt := createTestPrompt(t, alice, "a red fox", []string{"Pets & Animals"})

	anon, err := New(srv.URL)
	require.NoError(t, err)
	card := NewCard(anon, prompt, nil)

	assert.ErrorIs(t, card.Like(ctx), services.ErrUnauthorized)
	assert.ErrorIs(t, card.Unlike(ctx), services.ErrUnauthorized)
	_, err = card.Open(ctx)
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	// Nothing reached the server.
	stored, err := alice.GetPrompt(ctx, prompt.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Likes)
	assert.Equal(t, 0, stored.Views)
}

func TestCardOpenCountsFirstViewOnly(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	alice := newLoggedInClient(t, srv, "alice")
	prompt := createTestPrompt(t, alice, "a red fox", []string{"Pets & Animals"})
	card := NewCard(alice, prompt, nil)

	doc, err := card.Open(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Views)
	assert.True(t, doc.HasViewed(alice.User().ID))

	doc, err = card.Open(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Views)

	// A different user opening it bumps the counter again.
	bob := newLoggedInClient(t, srv, "bob")
	stored, err := bob.GetPrompt(ctx, prompt.ID)
	require.NoError(t, err)
	bobCard := NewCard(bob, stored, nil)
	doc, err = bobCard.Open(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Views)
}

func TestCardOnUpdateCallback(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	alice := newLoggedInClient(t, srv, "alice")
	prompt := createTestPrompt(t, alice, "a red fox", []string{"Pets & Animals"})

	var seen []models.Prompt
	card := NewCard(alice, prompt, func(p models.Prompt) { seen = append(seen, p) })

	require.NoError(t, card.Like(ctx))
	require.Len(t, seen, 1)
	assert.Equal(t, 1, seen[0].Likes)
}

func TestLikeMirrorsIntoLikedPrompts(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	alice := newLoggedInClient(t, srv, "alice")
	prompt := createTestPrompt(t, alice, "a red fox", []string{"Pets & Animals"})

	bob := newLoggedInClient(t, srv, "bob")
	stored, err := bob.GetPrompt(ctx, prompt.ID)
	require.NoError(t, err)
	card := NewCard(bob, stored, nil)

	require.NoError(t, card.Like(ctx))
	doc := card.Prompt()
	assert.Equal(t, 1, doc.Likes)
	assert.True(t, doc.HasLiked(bob.User().ID))
	assert.False(t, doc.HasLiked(alice.User().ID))
}

func TestStaleClientsLoseAnIncrement(t *testing.T) {
	// Two users both read likes=0 and both write likes=1. The absolute
	// counter ends at 1 even though two people liked; the likedBy set of
	// the last writer wins with it.
	srv := newTestServer(t)
	ctx := context.Background()

	alice := newLoggedInClient(t, srv, "alice")
	prompt := createTestPrompt(t, alice, "a red fox", []string{"Pets & Animals"})

	bob := newLoggedInClient(t, srv, "bob")
	carol := newLoggedInClient(t, srv, "carol")

	bobDoc, err := bob.GetPrompt(ctx, prompt.ID)
	require.NoError(t, err)
	carolDoc, err := carol.GetPrompt(ctx, prompt.ID)
	require.NoError(t, err)

	bobCard := NewCard(bob, bobDoc, nil)
	carolCard := NewCard(carol, carolDoc, nil)

	require.NoError(t, bobCard.Like(ctx))
	require.NoError(t, carolCard.Like(ctx))

	stored, err := alice.GetPrompt(ctx, prompt.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Likes)
	assert.True(t, stored.HasLiked(carol.User().ID))
	assert.False(t, stored.HasLiked(bob.User().ID))
}

func TestOpenDetail(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	alice := newLoggedInClient(t, srv, "alice")
	prompt := createTestPrompt(t, alice, "a red fox", []string{"Pets & Animals"})

	bob := newLoggedInClient(t, srv, "bob")

	doc, err := bob.OpenDetail(ctx, prompt.ID)
	require.NoError(t, err)
	assert.Equal(t, "a red fox", doc.PromptText)
	assert.Equal(t, 1, doc.Views)

	// Revisiting the detail page does not count another view.
	doc, err = bob.OpenDetail(ctx, prompt.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Views)
}
