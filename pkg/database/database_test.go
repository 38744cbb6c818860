package database

import (
	"miniudemy_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOpenSQLiteMigratesAllModels(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)

	for _, m := range Models {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}
}

func TestDuplicateKeyIsTranslated(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)

	require.NoError(t, db.Create(&model.Category{Name: "Design", Slug: "design"}).Error)
	err = db.Create(&model.Category{Name: "Design 2", Slug: "design"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
