package handlers

import (
	"net/http"
	"time"

	apierrors "github.com/hsmith-dev/Trasker-WebApp/internal/errors"
	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/hsmith-dev/Trasker-WebApp/internal/services"
	"github.com/hsmith-dev/Trasker-WebApp/internal/testutil"
)

func (suite *APITestSuite) TestTimer_StartStopAccumulates() {
	task := testutil.CreateTask(suite.T(), suite.db, models.Task{
		ID:        42,
		Ownership: models.Ownership{OwnerUserID: suite.alice.ID},
	})
	c := suite.login("alice")
	base := "/api/tasks/" + itoa(task.ID)

	suite.Require().Equal(http.StatusCreated, c.do(http.MethodPost, base+"/timer/start", nil).Code)
	suite.clock.Advance(90 * time.Second)
	w := c.do(http.MethodPost, base+"/timer/stop", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	first := decode[services.StopResult](suite.T(), w)
	suite.True(first.Stopped)
	suite.Equal(int64(90), first.ElapsedSeconds)

	suite.Require().Equal(http.StatusCreated, c.do(http.MethodPost, base+"/timer/start", nil).Code)
	suite.clock.Advance(60 * time.Second)
	suite.Require().Equal(http.StatusOK, c.do(http.MethodPost, base+"/timer/stop", nil).Code)

	status := decode[services.TimerStatus](suite.T(), c.do(http.MethodGet, base+"/timer", nil))
	suite.False(status.Running)
	suite.Equal(int64(150), status.TotalElapsed)

	sessions := decode[map[string][]models.TaskSession](suite.T(), c.do(http.MethodGet, base+"/sessions", nil))
	suite.Len(sessions["sessions"], 2)
}

func (suite *APITestSuite) TestTimer_SecondStartConflicts() {
	task := testutil.CreateTask(suite.T(), suite.db, models.Task{Ownership: models.Ownership{OwnerUserID: suite.alice.ID}})
	c := suite.login("alice")
	base := "/api/tasks/" + itoa(task.ID)

	suite.Require().Equal(http.StatusCreated, c.do(http.MethodPost, base+"/timer/start", nil).Code)
	w := c.do(http.MethodPost, base+"/timer/start", nil)
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal(apierrors.ErrCodeAlreadyRunning, errorCode(suite.T(), w))

	status := decode[services.TimerStatus](suite.T(), c.do(http.MethodGet, base+"/timer", nil))
	suite.True(status.Running)
	suite.NotNil(status.OpenSession)
}

func (suite *APITestSuite) TestTimer_StopWhenIdleIsNoOp() {
	task := testutil.CreateTask(suite.T(), suite.db, models.Task{Ownership: models.Ownership{OwnerUserID: suite.alice.ID}})

	w := suite.login("alice").do(http.MethodPost, "/api/tasks/"+itoa(task.ID)+"/timer/stop", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.False(decode[services.StopResult](suite.T(), w).Stopped)
}

func (suite *APITestSuite) TestTimer_InvisibleTask() {
	task := testutil.CreateTask(suite.T(), suite.db, models.Task{Ownership: models.Ownership{OwnerUserID: suite.bob.ID}})

	w := suite.login("carol").do(http.MethodPost, "/api/tasks/"+itoa(task.ID)+"/timer/start", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}
