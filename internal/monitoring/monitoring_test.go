package monitoring

import (
	"path/filepath"
	"testing"

	"github.com/promptlover/promptlover-be/internal/database"
	"github.com/promptlover/promptlover-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectGalleryTotals(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.Migrate(db))

	users := services.NewUserService(db)
	events := services.NewEventService(db)
	prompts := services.NewPromptService(db, users, events)

	alice, err := users.Register("alice", "secret1")
	require.NoError(t, err)
	_, err = users.Register("bob", "secret2")
	require.NoError(t, err)

	for _, text := range []string{"first", "second"} {
		_, err := prompts.CreatePrompt(services.CreatePromptInput{
			PromptText: text,
			AITool:     "Midjourney",
			ImageURL:   "http://cdn.test/uploads/x.png",
			Category:   []string{"Pets & Animals"},
			Creator:    alice.ID,
		})
		require.NoError(t, err)
	}

	listing, err := prompts.GetAllPrompts("")
	require.NoError(t, err)
	likes, views := 3, 10
	_, err = prompts.UpdateCounters(listing[0].ID, services.CounterUpdate{Likes: &likes, Views: &views})
	require.NoError(t, err)

	su := NewStatsUpdater(db, nil)
	stats, err := su.Collect()
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Prompts)
	assert.Equal(t, 2, stats.Users)
	assert.Equal(t, 3, stats.TotalLikes)
	assert.Equal(t, 10, stats.TotalViews)
	assert.False(t, stats.UpdatedAt.IsZero())
}

type fakeReconcileTarget struct {
	calls int
}

func (f *fakeReconcileTarget) ReconcileLikeCounts() (int, error) {
	f.calls++
	return 0, nil
}

func TestReconcilerSweepsOnStart(t *testing.T) {
	target := &fakeReconcileTarget{}
	rec := NewReconciler(target, "@every 1h")
	require.NoError(t, rec.Run())
	defer rec.Stop()

	assert.Equal(t, 1, target.calls)
}

func TestReconcilerRejectsBadSchedule(t *testing.T) {
	rec := NewReconciler(&fakeReconcileTarget{}, "not a schedule")
	assert.Error(t, rec.Run())
}
