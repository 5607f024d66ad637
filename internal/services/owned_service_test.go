package services

import (
	"context"
	"testing"
	"time"

	"github.com/hsmith-dev/Trasker-WebApp/internal/constants"
	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/hsmith-dev/Trasker-WebApp/internal/repository"
	"github.com/hsmith-dev/Trasker-WebApp/internal/testutil"
	"github.com/hsmith-dev/Trasker-WebApp/internal/visibility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type OwnedServiceTestSuite struct {
	suite.Suite
	env      *testEnv
	ctx      context.Context
	alice    *models.User
	bob      *models.User
	team     *models.Team
	aliceVis visibility.Context
	bobVis   visibility.Context
}

func (s *OwnedServiceTestSuite) SetupTest() {
	s.env = newTestEnv(s.T())
	s.ctx = context.Background()
	s.alice = testutil.CreateUser(s.T(), s.env.db, "alice")
	s.bob = testutil.CreateUser(s.T(), s.env.db, "bob")
	s.team = testutil.CreateTeam(s.T(), s.env.db, "platform")
	testutil.AddMember(s.T(), s.env.db, s.team.ID, s.alice.ID)
	s.aliceVis = visibility.New(s.alice.ID, &s.team.ID)
	s.bobVis = visibility.New(s.bob.ID, nil)
}

func (s *OwnedServiceTestSuite) TestEpicLifecycle() {
	start, end := testutil.Date(2025, 1, 1), testutil.Date(2025, 3, 31)
	epic, err := s.env.epics.Create(s.ctx, s.aliceVis, CreateEpicInput{
		Name:  "Launch",
		Dates: DateRange{Start: &start, End: &end},
	})
	s.Require().NoError(err)
	s.Equal(s.team.ID, *epic.OwnerTeamID)

	_, err = s.env.epics.Get(s.ctx, s.bobVis, epic.ID)
	s.ErrorIs(err, ErrNotFound)

	_, err = s.env.epics.Update(s.ctx, s.aliceVis, epic.ID, UpdateEpicInput{
		StartDate: DateUpdate{Value: testutil.Ptr(testutil.Date(2025, 6, 1))},
	})
	s.ErrorIs(err, ErrInvalidDateRange)

	updated, err := s.env.epics.Update(s.ctx, s.aliceVis, epic.ID, UpdateEpicInput{
		Name:    testutil.Ptr("Launch v2"),
		EndDate: DateUpdate{Clear: true},
	})
	s.Require().NoError(err)
	s.Equal("Launch v2", updated.Name)
	s.Nil(updated.EndDate)

	_, err = s.env.epics.Create(s.ctx, s.aliceVis, CreateEpicInput{Name: "bad", Dates: DateRange{Start: &end, End: &start}})
	s.ErrorIs(err, ErrInvalidDateRange)
}

func (s *OwnedServiceTestSuite) TestDeletingEpicDetachesSprints() {
	epic, err := s.env.epics.Create(s.ctx, s.aliceVis, CreateEpicInput{Name: "Launch"})
	s.Require().NoError(err)
	sprint, err := s.env.sprints.Create(s.ctx, s.aliceVis, CreateSprintInput{Title: "Sprint 1", EpicID: &epic.ID})
	s.Require().NoError(err)

	sprints, err := s.env.sprints.ListByEpic(s.ctx, s.aliceVis, epic.ID)
	s.Require().NoError(err)
	s.Len(sprints, 1)

	s.ErrorIs(s.env.epics.Delete(s.ctx, s.bobVis, epic.ID), ErrNotFound)
	s.Require().NoError(s.env.epics.Delete(s.ctx, s.aliceVis, epic.ID))

	reloaded, err := s.env.sprints.Get(s.ctx, s.aliceVis, sprint.ID)
	s.Require().NoError(err)
	s.Nil(reloaded.EpicID)
}

func (s *OwnedServiceTestSuite) TestDeletingSprintDetachesTasks() {
	sprint, err := s.env.sprints.Create(s.ctx, s.aliceVis, CreateSprintInput{Title: "Sprint 1"})
	s.Require().NoError(err)
	task, err := s.env.tasks.CreateTask(s.ctx, s.aliceVis, CreateTaskInput{Title: "work", SprintID: &sprint.ID})
	s.Require().NoError(err)

	s.Require().NoError(s.env.sprints.Delete(s.ctx, s.aliceVis, sprint.ID))

	reloaded, err := s.env.tasks.GetTask(s.ctx, s.aliceVis, task.ID)
	s.Require().NoError(err)
	s.Nil(reloaded.SprintID)
}

func (s *OwnedServiceTestSuite) TestSprintRequiresVisibleEpic() {
	hidden, err := s.env.epics.Create(s.ctx, s.bobVis, CreateEpicInput{Name: "bob's"})
	s.Require().NoError(err)

	_, err = s.env.sprints.Create(s.ctx, s.aliceVis, CreateSprintInput{Title: "x", EpicID: &hidden.ID})
	s.ErrorIs(err, ErrNotFound)

	_, err = s.env.sprints.ListByEpic(s.ctx, s.aliceVis, hidden.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *OwnedServiceTestSuite) TestBugLifecycle() {
	task, err := s.env.tasks.CreateTask(s.ctx, s.aliceVis, CreateTaskInput{Title: "feature"})
	s.Require().NoError(err)

	bug, err := s.env.bugs.Create(s.ctx, s.aliceVis, CreateBugInput{Title: "crash on save", TaskID: &task.ID})
	s.Require().NoError(err)
	s.Equal(models.BugStatusOpen, bug.Status)
	s.Require().NotNil(bug.CreatedDate)
	s.Nil(bug.ResolvedDate)

	_, err = s.env.bugs.Create(s.ctx, s.aliceVis, CreateBugInput{Title: "x", Status: "Wontfix"})
	s.ErrorIs(err, ErrInvalidBugStatus)

	resolved, err := s.env.bugs.Update(s.ctx, s.aliceVis, bug.ID, UpdateBugInput{Status: testutil.Ptr(models.BugStatusResolved)})
	s.Require().NoError(err)
	s.Require().NotNil(resolved.ResolvedDate)
	s.True(testutil.Date(2025, 3, 10).Equal(*resolved.ResolvedDate))

	bugs, err := s.env.bugs.ListByTask(s.ctx, s.aliceVis, task.ID)
	s.Require().NoError(err)
	s.Len(bugs, 1)

	detached, err := s.env.bugs.Update(s.ctx, s.aliceVis, bug.ID, UpdateBugInput{TaskID: IDUpdate{Clear: true}})
	s.Require().NoError(err)
	s.Nil(detached.TaskID)
}

func (s *OwnedServiceTestSuite) TestNotesAndDocuments() {
	task, err := s.env.tasks.CreateTask(s.ctx, s.aliceVis, CreateTaskInput{Title: "feature"})
	s.Require().NoError(err)

	noteType := models.NoteTypeTask
	note, err := s.env.notes.Create(s.ctx, s.aliceVis, CreateNoteInput{Note: "remember the edge case", NoteType: &noteType, ReferenceID: &task.ID})
	s.Require().NoError(err)

	_, err = s.env.notes.Create(s.ctx, s.bobVis, CreateNoteInput{Note: "snoop", NoteType: &noteType, ReferenceID: &task.ID})
	s.ErrorIs(err, ErrNotFound)

	bogus := models.NoteType("Meeting")
	_, err = s.env.notes.Create(s.ctx, s.aliceVis, CreateNoteInput{Note: "x", NoteType: &bogus})
	s.ErrorIs(err, ErrInvalidNoteType)

	notes, err := s.env.notes.ListNotes(s.ctx, s.aliceVis, &noteType, &task.ID)
	s.Require().NoError(err)
	s.Len(notes, 1)

	doc, err := s.env.documents.Upload(s.ctx, s.aliceVis, CreateDocumentInput{
		NoteID:   &note.ID,
		Filename: "../../etc/report.txt",
		Content:  []byte("hello world"),
	})
	s.Require().NoError(err)
	s.Equal("report.txt", doc.Filename)
	s.Equal(int64(11), doc.Size)
	s.Contains(doc.Mimetype, "text/plain")

	docs, err := s.env.documents.ListByNote(s.ctx, s.aliceVis, note.ID)
	s.Require().NoError(err)
	s.Require().Len(docs, 1)
	s.Nil(docs[0].Content)

	full, err := s.env.documents.Content(s.ctx, s.aliceVis, doc.ID)
	s.Require().NoError(err)
	s.Equal([]byte("hello world"), full.Content)

	_, err = s.env.documents.Content(s.ctx, s.bobVis, doc.ID)
	s.ErrorIs(err, ErrNotFound)

	s.Require().NoError(s.env.notes.Delete(s.ctx, s.aliceVis, note.ID))
	_, err = s.env.documents.Get(s.ctx, s.aliceVis, doc.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *OwnedServiceTestSuite) TestReplaceDocumentContent() {
	doc, err := s.env.documents.Upload(s.ctx, s.aliceVis, CreateDocumentInput{
		Filename: "notes.txt",
		Content:  []byte("first draft"),
	})
	s.Require().NoError(err)

	s.env.clock.Advance(2 * time.Hour)
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 16)...)
	updated, err := s.env.documents.ReplaceContent(s.ctx, s.aliceVis, doc.ID, "", png)
	s.Require().NoError(err)
	s.Equal(doc.ID, updated.ID)
	s.Equal("notes.txt", updated.Filename)
	s.Equal("image/png", updated.Mimetype)
	s.Equal(int64(len(png)), updated.Size)
	s.WithinDuration(s.env.clock.Now(), updated.UploadDate, time.Second)

	full, err := s.env.documents.Content(s.ctx, s.aliceVis, doc.ID)
	s.Require().NoError(err)
	s.Equal(png, full.Content)

	_, err = s.env.documents.ReplaceContent(s.ctx, s.bobVis, doc.ID, "text/plain", []byte("overwrite"))
	s.ErrorIs(err, ErrNotFound)

	_, err = s.env.documents.ReplaceContent(s.ctx, s.aliceVis, doc.ID, "", make([]byte, constants.MaxDocumentSize+1))
	s.ErrorIs(err, ErrDocumentTooLarge)

	full, err = s.env.documents.Content(s.ctx, s.aliceVis, doc.ID)
	s.Require().NoError(err)
	s.Equal(png, full.Content)
}

func (s *OwnedServiceTestSuite) TestExplicitTeamRequiresMembership() {
	other := testutil.CreateTeam(s.T(), s.env.db, "design")
	_, err := s.env.bugs.Create(s.ctx, s.aliceVis, CreateBugInput{Title: "x", Owner: OwnerInput{TeamID: &other.ID}})
	s.ErrorIs(err, ErrNotAMember)

	personal, err := s.env.notes.Create(s.ctx, s.aliceVis, CreateNoteInput{Note: "private", Owner: OwnerInput{Personal: true}})
	s.Require().NoError(err)
	s.Nil(personal.OwnerTeamID)
}

func TestOwnedServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OwnedServiceTestSuite))
}

func TestDocumentUpload_TooLarge(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.db, "alice")

	_, err := env.documents.Upload(context.Background(), visibility.New(alice.ID, nil), CreateDocumentInput{
		Filename: "big.bin",
		Content:  make([]byte, 10<<20+1),
	})
	assert.ErrorIs(t, err, ErrDocumentTooLarge)
}

func TestOwnedList_FilterMatchesNull(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, env.db, "alice")
	vis := visibility.New(alice.ID, nil)

	_, err := env.sprints.Create(ctx, vis, CreateSprintInput{Title: "loose"})
	require.NoError(t, err)

	sprints, err := env.sprints.List(ctx, vis, repository.Filter{"epic_id": nil})
	require.NoError(t, err)
	assert.Len(t, sprints, 1)
}
