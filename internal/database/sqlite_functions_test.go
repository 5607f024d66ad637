package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestUnicodeLower(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	var lowered string
	require.NoError(t, db.Raw("SELECT "+LowerExpr(db, "?"), "CAFÉ Ünïcode").Scan(&lowered).Error)
	assert.Equal(t, "café ünïcode", lowered)

	var null *string
	require.NoError(t, db.Raw("SELECT "+UnicodeLowerFunc+"(NULL)").Scan(&null).Error)
	assert.Nil(t, null)
}

func TestLowerExpr(t *testing.T) {
	lite, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	assert.Equal(t, "unicode_lower(tasks.title)", LowerExpr(lite, "tasks.title"))

	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	pg, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	assert.Equal(t, "LOWER(tasks.title)", LowerExpr(pg, "tasks.title"))
}
