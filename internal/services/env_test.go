package services

import (
	"testing"
	"time"

	"github.com/hsmith-dev/Trasker-WebApp/internal/repository"
	"github.com/hsmith-dev/Trasker-WebApp/internal/testutil"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	clock     *testutil.Clock
	auth      *AuthService
	admin     *AdminService
	tasks     *TaskService
	timers    *TimerService
	epics     *EpicService
	sprints   *SprintService
	bugs      *BugService
	notes     *NoteService
	documents *DocumentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	clock := &testutil.Clock{Current: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}

	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	epicRepo := repository.NewEpicRepository(db)
	sprintRepo := repository.NewSprintRepository(db)
	bugRepo := repository.NewBugRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	docRepo := repository.NewDocumentRepository(db)

	refs := References{Tasks: taskRepo, Epics: epicRepo, Sprints: sprintRepo, Bugs: bugRepo}

	return &testEnv{
		db:        db,
		clock:     clock,
		auth:      NewAuthService(userRepo, teamRepo),
		admin:     NewAdminService(userRepo, teamRepo),
		tasks:     NewTaskService(taskRepo, teamRepo, sprintRepo, nil),
		timers:    NewTimerService(repository.NewSessionRepository(db), clock.Now, testutil.Logger()),
		epics:     NewEpicService(epicRepo, teamRepo),
		sprints:   NewSprintService(sprintRepo, epicRepo, teamRepo),
		bugs:      NewBugService(bugRepo, taskRepo, teamRepo, clock.Now),
		notes:     NewNoteService(noteRepo, refs, teamRepo),
		documents: NewDocumentService(docRepo, noteRepo, teamRepo, clock.Now),
	}
}
