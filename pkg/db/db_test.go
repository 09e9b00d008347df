package db

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/invoicing/pkg/db/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type widget struct {
	ID   int64 `gorm:"primaryKey"`
	Name string
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, conn.AutoMigrate(&widget{}))
	return conn
}

func TestDialect(t *testing.T) {
	tests := []struct {
		cfg  Config
		name string
	}{
		{cfg: Config{Type: "postgres", Host: "localhost", Port: "5432"}, name: "postgres"},
		{cfg: Config{Type: "mysql", Host: "localhost", Port: "3306"}, name: "mysql"},
		{cfg: Config{Type: "sqlite"}, name: "sqlite"},
		{cfg: Config{Type: " SQLite-Pure "}, name: "sqlite"},
	}
	for _, tt := range tests {
		dialect, err := Dialect(tt.cfg)
		require.NoError(t, err)
		assert.Equal(t, tt.name, dialect.Name())
	}

	_, err := Dialect(Config{Type: "oracle"})
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file:invoicing.db?_busy_timeout=5000", sqliteDSN("", "_busy_timeout=5000"))
	assert.Equal(t, "file:data/app.db?x=1", sqliteDSN("data/app.db", "x=1"))
	assert.Equal(t, "file::memory:?cache=shared", sqliteDSN("file::memory:?cache=shared", "x=1"))
}

func TestWithTxRollsBackOnError(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := WithTx(ctx, conn, func(tx *gorm.DB) error {
		if err := tx.Create(&widget{ID: 1, Name: "a"}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, conn.Model(&widget{}).Count(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, WithTx(ctx, conn, func(tx *gorm.DB) error {
		return tx.Create(&widget{ID: 2, Name: "b"}).Error
	}))
	require.NoError(t, conn.Model(&widget{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestErrorClassification(t *testing.T) {
	conn := openTestDB(t)

	require.NoError(t, conn.Create(&widget{ID: 1, Name: "a"}).Error)
	err := conn.Create(&widget{ID: 1, Name: "again"}).Error
	assert.True(t, IsDuplicateKeyErr(err))
	assert.False(t, IsDuplicateKeyErr(nil))

	err = conn.First(&widget{}, "id = ?", 42).Error
	assert.True(t, IsNotFoundErr(err))
	assert.False(t, IsNotFoundErr(errors.New("other")))
}

func TestSortOption(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, conn.Create(&[]widget{{ID: 1, Name: "b"}, {ID: 2, Name: "a"}}).Error)

	allow := map[string]bool{"name": true}

	var sorted []widget
	require.NoError(t, option.WithSortBy(option.WithQuerySortBy("name", "desc", allow)).Apply(conn).Find(&sorted).Error)
	require.Len(t, sorted, 2)
	assert.Equal(t, "b", sorted[0].Name)

	var ignored []widget
	require.NoError(t, option.WithSortBy(option.WithQuerySortBy("id; drop table widgets", "asc", allow)).Apply(conn).Order("id").Find(&ignored).Error)
	assert.Len(t, ignored, 2)
}
