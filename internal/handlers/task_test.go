package handlers

import (
	"net/http"

	"github.com/hsmith-dev/Trasker-WebApp/internal/dto"
	apierrors "github.com/hsmith-dev/Trasker-WebApp/internal/errors"
	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/hsmith-dev/Trasker-WebApp/internal/testutil"
)

func (suite *APITestSuite) createTask(c *client, body map[string]interface{}) dto.TaskDTO {
	w := c.do(http.MethodPost, "/api/tasks", body)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.TaskDTO](suite.T(), w)
}

func (suite *APITestSuite) TestCreateTask_DefaultsToActiveTeam() {
	c := suite.login("alice")
	task := suite.createTask(c, map[string]interface{}{
		"title":    "Write report",
		"due_date": "2025-03-09",
		"priority": "High",
	})

	suite.Equal(suite.alice.ID, task.OwnerUserID)
	suite.Require().NotNil(task.OwnerTeamID)
	suite.Equal(suite.team.ID, *task.OwnerTeamID)
	suite.Equal(models.TaskStatusPending, task.Status)
	suite.Equal(models.DefaultTaskCategory, task.Category)
	suite.Require().NotNil(task.DueDate)
	suite.Equal("2025-03-09", *task.DueDate)
}

func (suite *APITestSuite) TestCreateTask_RoundTrip() {
	c := suite.login("alice")
	created := suite.createTask(c, map[string]interface{}{
		"title":       "Plan sprint",
		"description": "Pick the stories",
		"due_date":    "2025-04-01",
		"status":      "In Progress",
		"category":    "Planning",
		"priority":    "Critical",
		"recurrence":  "Weekly",
		"personal":    true,
	})

	w := c.do(http.MethodGet, "/api/tasks/"+itoa(created.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	fetched := decode[dto.TaskDTO](suite.T(), w)

	suite.Equal(created.Title, fetched.Title)
	suite.Equal(created.Description, fetched.Description)
	suite.Equal(*created.DueDate, *fetched.DueDate)
	suite.Equal(created.Status, fetched.Status)
	suite.Equal(created.Category, fetched.Category)
	suite.Equal(created.Priority, fetched.Priority)
	suite.Equal(created.Recurrence, fetched.Recurrence)
	suite.Nil(fetched.OwnerTeamID)
	suite.Require().NotNil(fetched.Owner)
	suite.Equal("alice", fetched.Owner.Username)
}

func (suite *APITestSuite) TestCreateTask_Validation() {
	c := suite.login("alice")

	tests := []struct {
		name string
		body map[string]interface{}
		code int
	}{
		{"missing title", map[string]interface{}{"description": "x"}, http.StatusBadRequest},
		{"unknown status", map[string]interface{}{"title": "x", "status": "Done"}, http.StatusBadRequest},
		{"bad date", map[string]interface{}{"title": "x", "due_date": "03/09/2025"}, http.StatusBadRequest},
		{"foreign team", map[string]interface{}{"title": "x", "team_id": 999}, http.StatusForbidden},
		{"invisible parent", map[string]interface{}{"title": "x", "parent_task_id": 999}, http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := c.do(http.MethodPost, "/api/tasks", tt.body)
			suite.Equal(tt.code, w.Code, w.Body.String())
		})
	}
}

func (suite *APITestSuite) TestGetTask_OutOfScopeIsNotFound() {
	// task 7 is personal to bob; carol cannot see it
	task := testutil.CreateTask(suite.T(), suite.db, models.Task{
		ID:        7,
		Title:     "private",
		Ownership: models.Ownership{OwnerUserID: suite.bob.ID},
	})

	w := suite.login("carol").do(http.MethodGet, "/api/tasks/"+itoa(task.ID), nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal(apierrors.ErrCodeNotFound, errorCode(suite.T(), w))

	w = suite.login("bob").do(http.MethodGet, "/api/tasks/"+itoa(task.ID), nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *APITestSuite) TestGetTask_TeammateSeesTeamTask() {
	task := testutil.CreateTask(suite.T(), suite.db, models.Task{
		Title:     "shared",
		Ownership: models.Ownership{OwnerUserID: suite.alice.ID, OwnerTeamID: &suite.team.ID},
	})

	w := suite.login("bob").do(http.MethodGet, "/api/tasks/"+itoa(task.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("platform", decode[dto.TaskDTO](suite.T(), w).Team.Name)
}

func (suite *APITestSuite) TestGetTask_InvalidID() {
	w := suite.login("alice").do(http.MethodGet, "/api/tasks/abc", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestListTasks_Filters() {
	owner := models.Ownership{OwnerUserID: suite.alice.ID}
	testutil.CreateTask(suite.T(), suite.db, models.Task{Title: "Fix login bug", Category: "Dev", Ownership: owner})
	testutil.CreateTask(suite.T(), suite.db, models.Task{Title: "Write docs", Description: "LOGIN page", Ownership: owner})
	testutil.CreateTask(suite.T(), suite.db, models.Task{Title: "Ship", Status: models.TaskStatusCompleted, Ownership: owner})
	testutil.CreateTask(suite.T(), suite.db, models.Task{Title: "bob's login", Ownership: models.Ownership{OwnerUserID: suite.bob.ID}})

	c := suite.login("alice")
	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Fix login bug", "Write docs", "Ship"}},
		{"?q=login", []string{"Fix login bug", "Write docs"}},
		{"?status=Completed", []string{"Ship"}},
		{"?exclude_completed=true", []string{"Fix login bug", "Write docs"}},
		{"?category=Dev&q=LOGIN", []string{"Fix login bug"}},
		{"?assignee_id=" + itoa(suite.bob.ID), []string{}},
	}

	for _, tt := range tests {
		suite.Run(tt.query, func() {
			w := c.do(http.MethodGet, "/api/tasks"+tt.query, nil)
			suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
			resp := decode[dto.TaskListResponse](suite.T(), w)

			titles := []string{}
			for _, task := range resp.Tasks {
				titles = append(titles, task.Title)
			}
			suite.Equal(tt.want, titles)
			suite.Equal(int64(len(tt.want)), resp.Pagination.Total)
		})
	}
}

func (suite *APITestSuite) TestListTasks_ActiveOrder() {
	owner := models.Ownership{OwnerUserID: suite.alice.ID}
	d1 := testutil.Date(2025, 3, 1)
	d2 := testutil.Date(2025, 3, 2)
	testutil.CreateTask(suite.T(), suite.db, models.Task{Title: "A", DueDate: &d2, Priority: models.PriorityLow, Ownership: owner})
	testutil.CreateTask(suite.T(), suite.db, models.Task{Title: "B", DueDate: &d1, Priority: models.PriorityLow, Ownership: owner})
	testutil.CreateTask(suite.T(), suite.db, models.Task{Title: "C", Priority: models.PriorityCritical, Ownership: owner})
	testutil.CreateTask(suite.T(), suite.db, models.Task{Title: "D", DueDate: &d1, Priority: models.PriorityHigh, Ownership: owner})

	w := suite.login("alice").do(http.MethodGet, "/api/tasks?sort=active", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var titles []string
	for _, task := range decode[dto.TaskListResponse](suite.T(), w).Tasks {
		titles = append(titles, task.Title)
	}
	suite.Equal([]string{"D", "B", "A", "C"}, titles)
}

func (suite *APITestSuite) TestListTasks_Pagination() {
	for i := 0; i < 5; i++ {
		testutil.CreateTask(suite.T(), suite.db, models.Task{Ownership: models.Ownership{OwnerUserID: suite.alice.ID}})
	}

	w := suite.login("alice").do(http.MethodGet, "/api/tasks?page=2&limit=2", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	resp := decode[dto.TaskListResponse](suite.T(), w)
	suite.Len(resp.Tasks, 2)
	suite.Equal(2, resp.Pagination.Page)
	suite.Equal(2, resp.Pagination.Limit)
	suite.Equal(int64(5), resp.Pagination.Total)
	suite.Equal(int64(3), resp.Pagination.Pages)
}

func (suite *APITestSuite) TestListTasks_InvalidFilter() {
	c := suite.login("alice")
	for _, query := range []string{"?due_from=yesterday", "?sprint_id=x", "?priority=Urgent", "?exclude_completed=maybe"} {
		w := c.do(http.MethodGet, "/api/tasks"+query, nil)
		suite.Equal(http.StatusBadRequest, w.Code, query)
	}
}

func (suite *APITestSuite) TestUpdateTask() {
	c := suite.login("alice")
	task := suite.createTask(c, map[string]interface{}{"title": "Draft", "due_date": "2025-03-20"})

	w := c.do(http.MethodPatch, "/api/tasks/"+itoa(task.ID), map[string]interface{}{
		"title":    "Final",
		"due_date": nil,
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	updated := decode[dto.TaskDTO](suite.T(), w)
	suite.Equal("Final", updated.Title)
	suite.Nil(updated.DueDate)
	suite.Equal(task.Priority, updated.Priority)
}

func (suite *APITestSuite) TestUpdateTask_RejectsSelfParent() {
	c := suite.login("alice")
	task := suite.createTask(c, map[string]interface{}{"title": "Loop"})

	w := c.do(http.MethodPatch, "/api/tasks/"+itoa(task.ID), map[string]interface{}{"parent_task_id": task.ID})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apierrors.ErrCodeInvalidInput, errorCode(suite.T(), w))
}

func (suite *APITestSuite) TestCompleteAndArchive() {
	c := suite.login("alice")
	task := suite.createTask(c, map[string]interface{}{"title": "Close out"})

	w := c.do(http.MethodPost, "/api/tasks/"+itoa(task.ID)+"/complete", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(models.TaskStatusCompleted, decode[dto.TaskDTO](suite.T(), w).Status)

	w = c.do(http.MethodPost, "/api/tasks/"+itoa(task.ID)+"/archive", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(models.TaskStatusArchived, decode[dto.TaskDTO](suite.T(), w).Status)
}

func (suite *APITestSuite) TestDeleteTask() {
	c := suite.login("alice")
	task := suite.createTask(c, map[string]interface{}{"title": "Temporary"})

	suite.Require().Equal(http.StatusOK, c.do(http.MethodDelete, "/api/tasks/"+itoa(task.ID), nil).Code)
	suite.Equal(http.StatusNotFound, c.do(http.MethodGet, "/api/tasks/"+itoa(task.ID), nil).Code)
}

func (suite *APITestSuite) TestDraftTasks_NotConfigured() {
	w := suite.login("alice").do(http.MethodPost, "/api/tasks/draft", map[string]string{"text": "call the vendor tomorrow"})
	suite.Equal(http.StatusServiceUnavailable, w.Code)
}
