package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/hsmith-dev/Trasker-WebApp/internal/testutil"
	"github.com/hsmith-dev/Trasker-WebApp/internal/visibility"
	"github.com/stretchr/testify/suite"
)

type TimerServiceTestSuite struct {
	suite.Suite
	env   *testEnv
	ctx   context.Context
	alice *models.User
	task  *models.Task
	vis   visibility.Context
}

func (s *TimerServiceTestSuite) SetupTest() {
	s.env = newTestEnv(s.T())
	s.ctx = context.Background()
	s.alice = testutil.CreateUser(s.T(), s.env.db, "alice")
	s.task = testutil.CreateTask(s.T(), s.env.db, models.Task{
		ID:        42,
		Title:     "Write report",
		Ownership: models.Ownership{OwnerUserID: s.alice.ID},
	})
	s.vis = visibility.New(s.alice.ID, nil)
}

func (s *TimerServiceTestSuite) TestStartStopAccumulates() {
	session, err := s.env.timers.StartTimer(s.ctx, s.vis, 42)
	s.Require().NoError(err)
	s.True(session.Open())
	s.Equal(int64(0), session.ElapsedSeconds)

	s.env.clock.Advance(90 * time.Second)
	result, err := s.env.timers.StopTimer(s.ctx, s.vis, 42)
	s.Require().NoError(err)
	s.True(result.Stopped)
	s.Equal(int64(90), result.ElapsedSeconds)

	total, err := s.env.timers.TotalElapsed(s.ctx, s.vis, 42)
	s.Require().NoError(err)
	s.Equal(int64(90), total)

	_, err = s.env.timers.StartTimer(s.ctx, s.vis, 42)
	s.Require().NoError(err)
	s.env.clock.Advance(60 * time.Second)
	_, err = s.env.timers.StopTimer(s.ctx, s.vis, 42)
	s.Require().NoError(err)

	total, err = s.env.timers.TotalElapsed(s.ctx, s.vis, 42)
	s.Require().NoError(err)
	s.Equal(int64(150), total)

	sessions, err := s.env.timers.ListSessions(s.ctx, s.vis, 42)
	s.Require().NoError(err)
	s.Require().Len(sessions, 2)
	s.Equal(int64(90), sessions[0].ElapsedSeconds)
	s.Equal(int64(60), sessions[1].ElapsedSeconds)
	s.NotNil(sessions[1].EndTime)
}

func (s *TimerServiceTestSuite) TestElapsedIsFloored() {
	_, err := s.env.timers.StartTimer(s.ctx, s.vis, 42)
	s.Require().NoError(err)

	s.env.clock.Advance(59*time.Second + 999*time.Millisecond)
	result, err := s.env.timers.StopTimer(s.ctx, s.vis, 42)
	s.Require().NoError(err)
	s.Equal(int64(59), result.ElapsedSeconds)
}

func (s *TimerServiceTestSuite) TestStopWhenIdleIsNoop() {
	result, err := s.env.timers.StopTimer(s.ctx, s.vis, 42)
	s.Require().NoError(err)
	s.False(result.Stopped)
	s.Nil(result.Session)

	var count int64
	s.Require().NoError(s.env.db.Model(&models.TaskSession{}).Count(&count).Error)
	s.Zero(count)
}

func (s *TimerServiceTestSuite) TestStartWhileRunning() {
	_, err := s.env.timers.StartTimer(s.ctx, s.vis, 42)
	s.Require().NoError(err)

	_, err = s.env.timers.StartTimer(s.ctx, s.vis, 42)
	s.ErrorIs(err, ErrAlreadyRunning)

	var open int64
	s.Require().NoError(s.env.db.Model(&models.TaskSession{}).Where("end_time IS NULL").Count(&open).Error)
	s.Equal(int64(1), open)
}

func (s *TimerServiceTestSuite) TestConcurrentStartsOpenOneSession() {
	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.env.timers.StartTimer(s.ctx, s.vis, 42)
		}(i)
	}
	wg.Wait()

	started := 0
	for _, err := range errs {
		if err == nil {
			started++
			continue
		}
		s.ErrorIs(err, ErrAlreadyRunning)
	}
	s.Equal(1, started)
}

func (s *TimerServiceTestSuite) TestOpenSessionIndexRejectsSecondOpenRow() {
	now := s.env.clock.Now()
	s.Require().NoError(s.env.db.Create(&models.TaskSession{TaskID: 42, StartTime: now}).Error)

	err := s.env.db.Create(&models.TaskSession{TaskID: 42, StartTime: now}).Error
	s.Error(err)
}

func (s *TimerServiceTestSuite) TestIsRunningAndStatus() {
	running, err := s.env.timers.IsRunning(s.ctx, s.vis, 42)
	s.Require().NoError(err)
	s.False(running)

	_, err = s.env.timers.StartTimer(s.ctx, s.vis, 42)
	s.Require().NoError(err)

	running, err = s.env.timers.IsRunning(s.ctx, s.vis, 42)
	s.Require().NoError(err)
	s.True(running)

	s.env.clock.Advance(30 * time.Second)
	status, err := s.env.timers.Status(s.ctx, s.vis, 42)
	s.Require().NoError(err)
	s.True(status.Running)
	s.NotNil(status.OpenSession)
	s.Equal(int64(0), status.TotalElapsed)
}

func (s *TimerServiceTestSuite) TestTotalElapsedWithoutSessions() {
	total, err := s.env.timers.TotalElapsed(s.ctx, s.vis, 42)
	s.Require().NoError(err)
	s.Zero(total)
}

func (s *TimerServiceTestSuite) TestOutOfScopeTaskIsNotFound() {
	bob := testutil.CreateUser(s.T(), s.env.db, "bob")
	bobVis := visibility.New(bob.ID, nil)

	_, err := s.env.timers.StartTimer(s.ctx, bobVis, 42)
	s.ErrorIs(err, ErrNotFound)

	_, err = s.env.timers.StopTimer(s.ctx, bobVis, 42)
	s.ErrorIs(err, ErrNotFound)

	_, err = s.env.timers.TotalElapsed(s.ctx, bobVis, 42)
	s.ErrorIs(err, ErrNotFound)

	_, err = s.env.timers.IsRunning(s.ctx, bobVis, 42)
	s.ErrorIs(err, ErrNotFound)

	_, err = s.env.timers.StartTimer(s.ctx, s.vis, 9999)
	s.ErrorIs(err, ErrNotFound)
}

func (s *TimerServiceTestSuite) TestTeammateCanTimeTeamTask() {
	team := testutil.CreateTeam(s.T(), s.env.db, "platform")
	bob := testutil.CreateUser(s.T(), s.env.db, "bob")
	testutil.AddMember(s.T(), s.env.db, team.ID, s.alice.ID)
	testutil.AddMember(s.T(), s.env.db, team.ID, bob.ID)
	shared := testutil.CreateTask(s.T(), s.env.db, models.Task{
		Title:     "Shared",
		Ownership: models.Ownership{OwnerUserID: s.alice.ID, OwnerTeamID: &team.ID},
	})

	bobVis := visibility.New(bob.ID, &team.ID)
	_, err := s.env.timers.StartTimer(s.ctx, bobVis, shared.ID)
	s.Require().NoError(err)

	running, err := s.env.timers.IsRunning(s.ctx, visibility.New(s.alice.ID, nil), shared.ID)
	s.Require().NoError(err)
	s.True(running)
}

func TestTimerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TimerServiceTestSuite))
}
