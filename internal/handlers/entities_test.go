package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/hsmith-dev/Trasker-WebApp/internal/dto"
	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/hsmith-dev/Trasker-WebApp/internal/testutil"
)

func (suite *APITestSuite) TestEpicsAndSprints() {
	c := suite.login("alice")

	w := c.do(http.MethodPost, "/api/epics", map[string]interface{}{
		"name":       "Q2 launch",
		"start_date": "2025-04-01",
		"end_date":   "2025-06-30",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	epic := decode[dto.EpicDTO](suite.T(), w)
	suite.Equal("2025-04-01", *epic.StartDate)
	suite.Equal(suite.team.ID, *epic.OwnerTeamID)

	w = c.do(http.MethodPost, "/api/sprints", map[string]interface{}{
		"title":   "Sprint 1",
		"epic_id": epic.ID,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	sprint := decode[dto.SprintDTO](suite.T(), w)

	listed := decode[map[string][]dto.SprintDTO](suite.T(), c.do(http.MethodGet, "/api/epics/"+itoa(epic.ID)+"/sprints", nil))
	suite.Require().Len(listed["sprints"], 1)
	suite.Equal(sprint.ID, listed["sprints"][0].ID)

	// teammates see team-owned planning records
	w = suite.login("bob").do(http.MethodGet, "/api/sprints?epic_id="+itoa(epic.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Len(decode[map[string][]dto.SprintDTO](suite.T(), w)["sprints"], 1)

	suite.Require().Equal(http.StatusOK, c.do(http.MethodDelete, "/api/epics/"+itoa(epic.ID), nil).Code)
	w = c.do(http.MethodGet, "/api/sprints/"+itoa(sprint.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Nil(decode[dto.SprintDTO](suite.T(), w).EpicID)
}

func (suite *APITestSuite) TestEpic_InvalidDateRange() {
	c := suite.login("alice")

	w := c.do(http.MethodPost, "/api/epics", map[string]interface{}{
		"name":       "Backwards",
		"start_date": "2025-06-30",
		"end_date":   "2025-04-01",
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = c.do(http.MethodPost, "/api/epics", map[string]interface{}{"name": "Forwards", "start_date": "2025-04-01"})
	suite.Require().Equal(http.StatusCreated, w.Code)
	epic := decode[dto.EpicDTO](suite.T(), w)

	w = c.do(http.MethodPatch, "/api/epics/"+itoa(epic.ID), map[string]interface{}{"end_date": "2025-03-01"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestSprint_ClearEpic() {
	c := suite.login("alice")
	epic := decode[dto.EpicDTO](suite.T(), c.do(http.MethodPost, "/api/epics", map[string]interface{}{"name": "E"}))
	sprint := decode[dto.SprintDTO](suite.T(), c.do(http.MethodPost, "/api/sprints", map[string]interface{}{
		"title":   "S",
		"epic_id": epic.ID,
	}))
	suite.Require().NotNil(sprint.EpicID)

	w := c.do(http.MethodPatch, "/api/sprints/"+itoa(sprint.ID), map[string]interface{}{"epic_id": nil})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Nil(decode[dto.SprintDTO](suite.T(), w).EpicID)
}

func (suite *APITestSuite) TestBugs() {
	task := testutil.CreateTask(suite.T(), suite.db, models.Task{Ownership: models.Ownership{OwnerUserID: suite.alice.ID}})
	c := suite.login("alice")

	w := c.do(http.MethodPost, "/api/bugs", map[string]interface{}{
		"title":   "Crash on save",
		"task_id": task.ID,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	bug := decode[dto.BugDTO](suite.T(), w)
	suite.Equal(models.BugStatusOpen, bug.Status)
	suite.Equal("2025-03-10", *bug.CreatedDate)
	suite.Nil(bug.ResolvedDate)

	w = c.do(http.MethodPatch, "/api/bugs/"+itoa(bug.ID), map[string]interface{}{"status": "Resolved"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal("2025-03-10", *decode[dto.BugDTO](suite.T(), w).ResolvedDate)

	byTask := decode[map[string][]dto.BugDTO](suite.T(), c.do(http.MethodGet, "/api/tasks/"+itoa(task.ID)+"/bugs", nil))
	suite.Len(byTask["bugs"], 1)

	byStatus := decode[map[string][]dto.BugDTO](suite.T(), c.do(http.MethodGet, "/api/bugs?status=Open", nil))
	suite.Empty(byStatus["bugs"])

	suite.Equal(http.StatusBadRequest, c.do(http.MethodGet, "/api/bugs?status=Fixed", nil).Code)
}

func (suite *APITestSuite) TestBug_InvisibleTask() {
	task := testutil.CreateTask(suite.T(), suite.db, models.Task{Ownership: models.Ownership{OwnerUserID: suite.carol.ID}})

	w := suite.login("alice").do(http.MethodPost, "/api/bugs", map[string]interface{}{
		"title":   "Not mine",
		"task_id": task.ID,
	})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestNotesAndDocuments() {
	task := testutil.CreateTask(suite.T(), suite.db, models.Task{Ownership: models.Ownership{OwnerUserID: suite.alice.ID}})
	c := suite.login("alice")

	w := c.do(http.MethodPost, "/api/notes", map[string]interface{}{
		"note":         "Meeting minutes",
		"note_type":    "Task",
		"reference_id": task.ID,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	note := decode[dto.NoteDTO](suite.T(), w)

	notes := decode[map[string][]dto.NoteDTO](suite.T(), c.do(http.MethodGet, "/api/notes?note_type=Task&reference_id="+itoa(task.ID), nil))
	suite.Len(notes["notes"], 1)

	w = c.send(uploadRequest(suite, "minutes.txt", []byte("agenda: ship it"), map[string]string{"note_id": itoa(note.ID)}))
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	doc := decode[dto.DocumentDTO](suite.T(), w)
	suite.Equal("minutes.txt", doc.Filename)
	suite.Equal(int64(15), doc.Size)
	suite.Equal(note.ID, *doc.NoteID)

	w = c.do(http.MethodGet, "/api/documents/"+itoa(doc.ID)+"/content", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("agenda: ship it", w.Body.String())
	suite.Contains(w.Header().Get("Content-Disposition"), "minutes.txt")

	docs := decode[map[string][]dto.DocumentDTO](suite.T(), c.do(http.MethodGet, "/api/documents?note_id="+itoa(note.ID), nil))
	suite.Len(docs["documents"], 1)

	// deleting the note removes its documents
	suite.Require().Equal(http.StatusOK, c.do(http.MethodDelete, "/api/notes/"+itoa(note.ID), nil).Code)
	suite.Equal(http.StatusNotFound, c.do(http.MethodGet, "/api/documents/"+itoa(doc.ID), nil).Code)
}

func (suite *APITestSuite) TestUploadDocument_RequiresFile() {
	req := httptest.NewRequest(http.MethodPost, "/api/documents", bytes.NewReader(nil))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")

	w := suite.login("alice").send(req)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestDocument_InvisibleToStranger() {
	c := suite.login("alice")
	w := c.send(uploadRequest(suite, "plan.txt", []byte("secret plan"), map[string]string{"personal": "true"}))
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	doc := decode[dto.DocumentDTO](suite.T(), w)

	w = suite.login("bob").do(http.MethodGet, "/api/documents/"+itoa(doc.ID)+"/content", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestReplaceDocumentContent() {
	c := suite.login("alice")
	w := c.send(uploadRequest(suite, "minutes.txt", []byte("draft"), nil))
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	doc := decode[dto.DocumentDTO](suite.T(), w)

	suite.clock.Advance(24 * time.Hour)
	target := "/api/documents/" + itoa(doc.ID) + "/content"
	w = c.send(multipartRequest(suite, http.MethodPut, target, "ignored.txt", []byte("final minutes"), nil))
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	replaced := decode[dto.DocumentDTO](suite.T(), w)
	suite.Equal(doc.ID, replaced.ID)
	suite.Equal("minutes.txt", replaced.Filename)
	suite.Equal(int64(13), replaced.Size)
	suite.True(replaced.UploadDate.After(doc.UploadDate))

	w = c.do(http.MethodGet, target, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("final minutes", w.Body.String())

	w = suite.login("carol").send(multipartRequest(suite, http.MethodPut, target, "x.txt", []byte("hijack"), nil))
	suite.Equal(http.StatusNotFound, w.Code)

	w = c.do(http.MethodGet, target, nil)
	suite.Equal("final minutes", w.Body.String())
}

func uploadRequest(suite *APITestSuite, filename string, content []byte, fields map[string]string) *http.Request {
	return multipartRequest(suite, http.MethodPost, "/api/documents", filename, content, fields)
}

func multipartRequest(suite *APITestSuite, method, target, filename string, content []byte, fields map[string]string) *http.Request {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	suite.Require().NoError(err)
	_, err = part.Write(content)
	suite.Require().NoError(err)
	for key, value := range fields {
		suite.Require().NoError(writer.WriteField(key, value))
	}
	suite.Require().NoError(writer.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}
