package services

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/promptlover/promptlover-be/internal/database"
	"github.com/stretchr/testify/require"
)

// newTestDB opens a throwaway migrated database for one test.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// newTestServices wires the service layer over a fresh database.
func newTestServices(t *testing.T) (*UserService, *PromptService) {
	t.Helper()

	db := newTestDB(t)
	users := NewUserService(db)
	events := NewEventService(db)
	prompts := NewPromptService(db, users, events)
	return users, prompts
}

func intPtr(v int) *int { return &v }

func validCreateInput(creator string) CreatePromptInput {
	return CreatePromptInput{
		ImageURL:   "https://cdn.example/prompts/cat.png",
		PromptText: "a cat in a spacesuit, studio lighting",
		AITool:     "Midjourney",
		Category:   []string{"Pets & Animals"},
		Creator:    creator,
	}
}
