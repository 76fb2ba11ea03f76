package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweetClone/domain"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", SQLiteDSN("a.db"))
	assert.Equal(t, "a.db?mode=ro", SQLiteDSN("a.db?mode=ro"))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	err := Open(NewDB("oracle", "whatever"), true)
	assert.Error(t, err)

	err = Open(NewDB(DriverSQLite, ""), true)
	assert.Error(t, err)
}

func TestDestructiveReset(t *testing.T) {
	db := NewDB(DriverSQLite, SQLiteDSN(filepath.Join(t.TempDir(), "reset.db")))
	require.NoError(t, Open(db, true))
	defer Close(db)
	require.NoError(t, AutoMigrate(db))

	require.NoError(t, db.Gorm.Create(&domain.User{Name: "User1", APIKey: "k1"}).Error)
	var count int64
	require.NoError(t, db.Gorm.Model(&domain.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	require.NoError(t, DestructiveReset(db))
	require.NoError(t, db.Gorm.Model(&domain.User{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	for _, table := range []string{"users", "tweets", "likes", "follows", "media"} {
		assert.True(t, db.Gorm.Migrator().HasTable(table), table)
	}
}

func TestUniqueIndexes(t *testing.T) {
	db := CreateTempDB(t)

	require.NoError(t, db.Create(&domain.User{Name: "User1", APIKey: "k1"}).Error)
	err := db.Create(&domain.User{Name: "User2", APIKey: "k1"}).Error
	assert.Error(t, err, "api keys must be unique")

	require.NoError(t, db.Create(&domain.User{Name: "User2", APIKey: "k2"}).Error)
	require.NoError(t, db.Omit("Follower", "Followed").Create(&domain.Follow{FollowerID: 1, FollowedID: 2}).Error)
	err = db.Omit("Follower", "Followed").Create(&domain.Follow{FollowerID: 1, FollowedID: 2}).Error
	assert.Error(t, err, "follow pairs must be unique")
}

func TestForeignKeysEnforced(t *testing.T) {
	db := CreateTempDB(t)
	err := db.Omit("Author").Create(&domain.Tweet{Content: "orphan", AuthorID: 42}).Error
	assert.Error(t, err)
}
