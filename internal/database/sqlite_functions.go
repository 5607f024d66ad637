package database

import (
	"database/sql/driver"
	"strings"

	gosqlite "github.com/glebarez/go-sqlite"
	"gorm.io/gorm"
)

// UnicodeLowerFunc lowers text with Unicode case folding. SQLite's builtin
// LOWER only folds ASCII.
const UnicodeLowerFunc = "unicode_lower"

func init() {
	gosqlite.MustRegisterDeterministicScalarFunction(UnicodeLowerFunc, 1, func(_ *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		switch v := args[0].(type) {
		case string:
			return strings.ToLower(v), nil
		case []byte:
			return strings.ToLower(string(v)), nil
		default:
			return v, nil
		}
	})
}

// LowerExpr wraps expr in the dialect's Unicode-aware lowercase function.
func LowerExpr(db *gorm.DB, expr string) string {
	if db.Dialector.Name() == "sqlite" {
		return UnicodeLowerFunc + "(" + expr + ")"
	}
	return "LOWER(" + expr + ")"
}
