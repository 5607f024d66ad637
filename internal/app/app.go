// Package app wires repositories and services over one database handle.
package app

import (
	"log/slog"

	"github.com/hsmith-dev/Trasker-WebApp/internal/repository"
	"github.com/hsmith-dev/Trasker-WebApp/internal/services"
	"gorm.io/gorm"
)

// Options customizes the services built by New. Zero values select the
// system clock, no task drafting and the default logger.
type Options struct {
	Clock   services.Clock
	Drafter services.Drafter
	Logger  *slog.Logger
}

// App holds every service the HTTP and CLI surfaces call.
type App struct {
	DB        *gorm.DB
	Auth      *services.AuthService
	Admin     *services.AdminService
	Tasks     *services.TaskService
	Timers    *services.TimerService
	Epics     *services.EpicService
	Sprints   *services.SprintService
	Bugs      *services.BugService
	Notes     *services.NoteService
	Documents *services.DocumentService
}

func New(db *gorm.DB, opts Options) *App {
	if opts.Clock == nil {
		opts.Clock = services.SystemClock
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	epicRepo := repository.NewEpicRepository(db)
	sprintRepo := repository.NewSprintRepository(db)
	bugRepo := repository.NewBugRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	docRepo := repository.NewDocumentRepository(db)

	refs := services.References{
		Tasks:   taskRepo,
		Epics:   epicRepo,
		Sprints: sprintRepo,
		Bugs:    bugRepo,
	}

	return &App{
		DB:        db,
		Auth:      services.NewAuthService(userRepo, teamRepo),
		Admin:     services.NewAdminService(userRepo, teamRepo),
		Tasks:     services.NewTaskService(taskRepo, teamRepo, sprintRepo, opts.Drafter),
		Timers:    services.NewTimerService(repository.NewSessionRepository(db), opts.Clock, opts.Logger),
		Epics:     services.NewEpicService(epicRepo, teamRepo),
		Sprints:   services.NewSprintService(sprintRepo, epicRepo, teamRepo),
		Bugs:      services.NewBugService(bugRepo, taskRepo, teamRepo, opts.Clock),
		Notes:     services.NewNoteService(noteRepo, refs, teamRepo),
		Documents: services.NewDocumentService(docRepo, noteRepo, teamRepo, opts.Clock),
	}
}
