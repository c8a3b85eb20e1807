package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"portfolio/models"
)

func TestRunMigrations(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, RunMigrations(db, zap.NewNop()))
	assert.True(t, db.Migrator().HasTable(&models.ContactMessage{}))
	assert.True(t, db.Migrator().HasTable(&models.PageView{}))

	msg := models.ContactMessage{Name: "Ada", Email: "ada@example.com", Message: "Hello there, world"}
	require.NoError(t, db.Create(&msg).Error)
	assert.Len(t, msg.ID, 36)
	assert.False(t, msg.CreatedAt.IsZero())
}
