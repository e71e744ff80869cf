package team

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
)

func setupTeamTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS team_members (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  role TEXT NOT NULL,
  bio TEXT,
  photo_url TEXT,
  display_order INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedMember(t *testing.T, db *gorm.DB, name string, order int, active bool) *models.TeamMember {
	t.Helper()

	member := &models.TeamMember{
		ID:           uuid.New(),
		Name:         name,
		Role:         "Herbalist",
		DisplayOrder: order,
		IsActive:     active,
	}
	require.NoError(t, db.Create(member).Error)
	return member
}

func TestListOrdersByDisplayOrder(t *testing.T) {
	db := setupTeamTestDB(t)
	repo := NewRepository(db)

	seedMember(t, db, "Second", 2, true)
	seedMember(t, db, "First", 1, true)
	seedMember(t, db, "Hidden", 0, false)

	members, err := repo.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "First", members[0].Name)
	assert.Equal(t, "Second", members[1].Name)

	all, err := repo.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateAndDeleteMember(t *testing.T) {
	db := setupTeamTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	member := seedMember(t, db, "Amina Njeri", 1, true)

	require.NoError(t, repo.Update(ctx, member.ID, map[string]any{"role": "Nutritionist", "display_order": 5}))
	reloaded, err := repo.FindByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nutritionist", reloaded.Role)
	assert.Equal(t, 5, reloaded.DisplayOrder)

	require.NoError(t, repo.Delete(ctx, member.ID))
	_, err = repo.FindByID(ctx, member.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
