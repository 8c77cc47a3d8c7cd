package databasetest

import (
	"testing"

	"kaifacademy/database"
	"kaifacademy/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectTestDb(t *testing.T) {
	before := database.Database

	t.Run("isolated", func(t *testing.T) {
		db := ConnectTestDb(t)
		assert.Same(t, db, database.Database.Db)
		require.NoError(t, db.Create(&models.User{Name: "a", Email: "a@example.com", Password: "x", Role: models.RoleStudent}).Error)

		other := ConnectTestDb(t)
		var count int64
		require.NoError(t, other.Model(&models.User{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	assert.Equal(t, before, database.Database)
}
