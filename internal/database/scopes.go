package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hsmith-dev/Trasker-WebApp/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params.Limit <= 0 {
			return db
		}
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// ForUpdate locks the selected rows for the rest of the transaction. SQLite
// has no row locks; its writers are already serialized.
func ForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
