package seed

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"wallmirror/internal/database"
	"wallmirror/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:seedtest%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestSeedCreatesRequestedPosts(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Seed(context.Background(), Options{NumPosts: 25}))

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Equal(t, int64(25), count)

	var state models.SyncState
	require.NoError(t, db.First(&state).Error)
	assert.False(t, state.LastRunAt.IsZero())
	assert.NotNil(t, state.LastSeenPostID)
}

func TestSeedCleanRemovesPreviousData(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Seed(context.Background(), Options{NumPosts: 10}))
	require.NoError(t, s.Seed(context.Background(), Options{NumPosts: 5, ShouldClean: true}))

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Equal(t, int64(5), count)
}
