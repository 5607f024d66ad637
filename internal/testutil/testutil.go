// Package testutil provides an in-memory store and seed helpers for tests.
package testutil

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/hsmith-dev/Trasker-WebApp/internal/database"
	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Password is the plaintext password of every seeded user.
const Password = "correct-horse"

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewDB opens a migrated in-memory SQLite database that is closed when the
// test ends. The pool holds a single connection so every query sees the same
// in-memory database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db, Logger()))
	return db
}

// CreateUser inserts a user whose password is Password.
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     username,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTeam inserts a team.
func CreateTeam(t testing.TB, db *gorm.DB, name string) *models.Team {
	t.Helper()

	team := &models.Team{Name: name}
	require.NoError(t, db.Create(team).Error)
	return team
}

// AddMember makes user a member of team.
func AddMember(t testing.TB, db *gorm.DB, teamID, userID uint64) *models.Membership {
	t.Helper()

	member := &models.Membership{TeamID: teamID, UserID: userID, JoinedAt: time.Now().UTC()}
	require.NoError(t, db.Omit("Team", "User").Create(member).Error)
	return member
}

// CreateTask inserts task, filling in required defaults.
func CreateTask(t testing.TB, db *gorm.DB, task models.Task) *models.Task {
	t.Helper()

	if task.Title == "" {
		task.Title = "task"
	}
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Category == "" {
		task.Category = models.DefaultTaskCategory
	}
	if task.Recurrence == "" {
		task.Recurrence = models.DefaultTaskRecurrence
	}
	require.NoError(t, db.Omit("Owner", "Team", "Sessions").Create(&task).Error)
	return &task
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Clock is a settable clock for timer tests.
type Clock struct {
	Current time.Time
}

// Now returns the clock's current time.
func (c *Clock) Now() time.Time {
	return c.Current
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.Current = c.Current.Add(d)
}
