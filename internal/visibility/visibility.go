// Package visibility holds the per-login scope that every read and write on an
// owned entity is filtered through.
//
// A record is visible to a Context when it is owned by the acting user OR owned
// by the context's active team. The two clauses are independent: personal
// records stay visible after a team switch, and team records are visible to
// every member while that team is active.
package visibility

import (
	"fmt"

	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"gorm.io/gorm"
)

// Context is the acting user plus the currently active team. It is a value:
// switching teams produces a new Context rather than mutating a shared one.
type Context struct {
	UserID uint64
	TeamID *uint64
}

// New returns a Context for userID with the given active team (nil for none).
func New(userID uint64, teamID *uint64) Context {
	if teamID != nil {
		id := *teamID
		teamID = &id
	}
	return Context{UserID: userID, TeamID: teamID}
}

// WithTeam returns a copy of c with a different active team.
func (c Context) WithTeam(teamID *uint64) Context {
	return New(c.UserID, teamID)
}

// HasTeam reports whether a team scope is active.
func (c Context) HasTeam() bool {
	return c.TeamID != nil
}

// Allows applies the visibility rule to an ownership record in memory.
func (c Context) Allows(o models.Ownership) bool {
	if o.OwnerUserID == c.UserID {
		return true
	}
	return c.TeamID != nil && o.OwnerTeamID != nil && *o.OwnerTeamID == *c.TeamID
}

// Scope returns a gorm scope restricting a query to rows visible to c. table
// qualifies the ownership columns and may be empty for single-table queries.
func (c Context) Scope(table string) func(db *gorm.DB) *gorm.DB {
	userCol, teamCol := columns(table)
	return func(db *gorm.DB) *gorm.DB {
		if c.TeamID == nil {
			return db.Where(fmt.Sprintf("%s = ?", userCol), c.UserID)
		}
		return db.Where(fmt.Sprintf("(%s = ? OR %s = ?)", userCol, teamCol), c.UserID, *c.TeamID)
	}
}

func (c Context) String() string {
	if c.TeamID == nil {
		return fmt.Sprintf("user=%d team=none", c.UserID)
	}
	return fmt.Sprintf("user=%d team=%d", c.UserID, *c.TeamID)
}

func columns(table string) (string, string) {
	if table == "" {
		return "owner_user_id", "owner_team_id"
	}
	return table + ".owner_user_id", table + ".owner_team_id"
}
