package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/hsmith-dev/Trasker-WebApp/internal/repository"
	"github.com/hsmith-dev/Trasker-WebApp/internal/visibility"
)

// Clock supplies the current time.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}

// TimerService runs the per-task Idle/Running state machine. A task is
// Running exactly when it has a session without an end time.
type TimerService struct {
	sessions repository.SessionRepository
	now      Clock
	log      *slog.Logger
}

// NewTimerService creates a new TimerService. A nil clock uses SystemClock.
func NewTimerService(sessions repository.SessionRepository, clock Clock, log *slog.Logger) *TimerService {
	if clock == nil {
		clock = SystemClock
	}
	if log == nil {
		log = slog.Default()
	}
	return &TimerService{
		sessions: sessions,
		now:      clock,
		log:      log,
	}
}

// StopResult reports what StopTimer did. Stopped is false when the task was
// idle, in which case Session is nil and ElapsedSeconds is zero.
type StopResult struct {
	Stopped        bool                `json:"stopped"`
	ElapsedSeconds int64               `json:"elapsed_seconds"`
	Session        *models.TaskSession `json:"session,omitempty"`
}

// TimerStatus is the combined timer view of a task.
type TimerStatus struct {
	TaskID       uint64              `json:"task_id"`
	Running      bool                `json:"running"`
	OpenSession  *models.TaskSession `json:"open_session,omitempty"`
	TotalElapsed int64               `json:"total_elapsed_seconds"`
}

// StartTimer opens a session for a visible task.
func (s *TimerService) StartTimer(ctx context.Context, vis visibility.Context, taskID uint64) (*models.TaskSession, error) {
	session, err := s.sessions.Start(ctx, vis, taskID, s.now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrSessionOpen) {
			return nil, ErrAlreadyRunning
		}
		return nil, storeError("start timer", err)
	}

	s.log.Info("timer started", "task_id", taskID, "session_id", session.ID, "context", vis.String())
	return session, nil
}

// StopTimer closes the open session of a visible task. Stopping an idle task
// is a no-op.
func (s *TimerService) StopTimer(ctx context.Context, vis visibility.Context, taskID uint64) (StopResult, error) {
	session, err := s.sessions.Stop(ctx, vis, taskID, s.now().UTC())
	if err != nil {
		return StopResult{}, storeError("stop timer", err)
	}
	if session == nil {
		return StopResult{Stopped: false}, nil
	}

	s.log.Info("timer stopped", "task_id", taskID, "session_id", session.ID, "elapsed_seconds", session.ElapsedSeconds)
	return StopResult{
		Stopped:        true,
		ElapsedSeconds: session.ElapsedSeconds,
		Session:        session,
	}, nil
}

// TotalElapsed sums the elapsed seconds of the task's closed sessions. A
// running session contributes nothing until it is stopped.
func (s *TimerService) TotalElapsed(ctx context.Context, vis visibility.Context, taskID uint64) (int64, error) {
	total, err := s.sessions.TotalElapsed(ctx, vis, taskID)
	if err != nil {
		return 0, storeError("total elapsed", err)
	}
	return total, nil
}

// IsRunning reports whether the task has an open session.
func (s *TimerService) IsRunning(ctx context.Context, vis visibility.Context, taskID uint64) (bool, error) {
	session, err := s.sessions.FindOpen(ctx, vis, taskID)
	if err != nil {
		return false, storeError("find open session", err)
	}
	return session != nil, nil
}

// Status returns the running state and accumulated time together.
func (s *TimerService) Status(ctx context.Context, vis visibility.Context, taskID uint64) (TimerStatus, error) {
	open, err := s.sessions.FindOpen(ctx, vis, taskID)
	if err != nil {
		return TimerStatus{}, storeError("find open session", err)
	}
	total, err := s.TotalElapsed(ctx, vis, taskID)
	if err != nil {
		return TimerStatus{}, err
	}
	return TimerStatus{
		TaskID:       taskID,
		Running:      open != nil,
		OpenSession:  open,
		TotalElapsed: total,
	}, nil
}

// ListSessions returns the task's session history.
func (s *TimerService) ListSessions(ctx context.Context, vis visibility.Context, taskID uint64) ([]models.TaskSession, error) {
	sessions, err := s.sessions.ListByTask(ctx, vis, taskID)
	if err != nil {
		return nil, storeError("list sessions", err)
	}
	return sessions, nil
}
