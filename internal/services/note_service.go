package services

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/hsmith-dev/Trasker-WebApp/internal/constants"
	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/hsmith-dev/Trasker-WebApp/internal/repository"
	"github.com/hsmith-dev/Trasker-WebApp/internal/visibility"
)

// References bundles the lookups used to check that a note's reference
// points at a visible record of the declared type.
type References struct {
	Tasks   repository.TaskRepository
	Epics   repository.OwnedRepository[models.Epic]
	Sprints repository.OwnedRepository[models.Sprint]
	Bugs    repository.OwnedRepository[models.Bug]
}

func (r References) check(ctx context.Context, vis visibility.Context, noteType *models.NoteType, refID *uint64) error {
	if noteType != nil && !noteType.Valid() {
		return ErrInvalidNoteType
	}
	if noteType == nil || refID == nil {
		return nil
	}

	var err error
	switch *noteType {
	case models.NoteTypeTask:
		_, err = r.Tasks.FindVisible(ctx, vis, *refID)
	case models.NoteTypeEpic:
		_, err = r.Epics.FindVisible(ctx, vis, *refID)
	case models.NoteTypeSprint:
		_, err = r.Sprints.FindVisible(ctx, vis, *refID)
	case models.NoteTypeBug:
		_, err = r.Bugs.FindVisible(ctx, vis, *refID)
	}
	if err != nil {
		return storeError("find referenced "+strings.ToLower(string(*noteType)), err)
	}
	return nil
}

// NoteService manages free-text notes attached to other records.
type NoteService struct {
	OwnedService[models.Note]
	teamRepo repository.TeamRepository
	refs     References
}

func NewNoteService(repo repository.OwnedRepository[models.Note], refs References, teamRepo repository.TeamRepository) *NoteService {
	return &NoteService{
		OwnedService: newOwnedService(repo, "note"),
		teamRepo:     teamRepo,
		refs:         refs,
	}
}

type CreateNoteInput struct {
	Note        string
	NoteType    *models.NoteType
	ReferenceID *uint64
	Owner       OwnerInput
}

type UpdateNoteInput struct {
	Note        *string
	NoteType    *models.NoteType
	ReferenceID IDUpdate
}

func (s *NoteService) Create(ctx context.Context, vis visibility.Context, input CreateNoteInput) (*models.Note, error) {
	text := strings.TrimSpace(input.Note)
	if text == "" {
		return nil, ErrNoteRequired
	}
	if err := s.refs.check(ctx, vis, input.NoteType, input.ReferenceID); err != nil {
		return nil, err
	}
	owner, err := resolveOwnership(ctx, s.teamRepo, vis, input.Owner.TeamID, input.Owner.Personal)
	if err != nil {
		return nil, err
	}

	note := &models.Note{
		Note:        text,
		NoteType:    input.NoteType,
		ReferenceID: input.ReferenceID,
		Ownership:   owner,
	}
	if err := s.create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) Update(ctx context.Context, vis visibility.Context, id uint64, input UpdateNoteInput) (*models.Note, error) {
	fields := map[string]interface{}{}
	if input.Note != nil {
		text := strings.TrimSpace(*input.Note)
		if text == "" {
			return nil, ErrNoteRequired
		}
		fields["note"] = text
	}

	if input.NoteType != nil || input.ReferenceID.Value != nil {
		current, err := s.Get(ctx, vis, id)
		if err != nil {
			return nil, err
		}
		noteType, refID := current.NoteType, current.ReferenceID
		if input.NoteType != nil {
			noteType = input.NoteType
			fields["note_type"] = *input.NoteType
		}
		if input.ReferenceID.Clear {
			refID = nil
		} else if input.ReferenceID.Value != nil {
			refID = input.ReferenceID.Value
		}
		if err := s.refs.check(ctx, vis, noteType, refID); err != nil {
			return nil, err
		}
	}
	input.ReferenceID.apply(fields, "reference_id")

	return s.update(ctx, vis, id, fields)
}

// ListNotes lists visible notes, optionally narrowed by type and reference.
func (s *NoteService) ListNotes(ctx context.Context, vis visibility.Context, noteType *models.NoteType, refID *uint64) ([]models.Note, error) {
	filter := repository.Filter{}
	if noteType != nil {
		if !noteType.Valid() {
			return nil, ErrInvalidNoteType
		}
		filter["note_type"] = *noteType
	}
	if refID != nil {
		filter["reference_id"] = *refID
	}
	return s.List(ctx, vis, filter)
}

// DocumentService stores file attachments. Listings never carry content.
type DocumentService struct {
	OwnedService[models.Document]
	docs     repository.DocumentRepository
	notes    repository.OwnedRepository[models.Note]
	teamRepo repository.TeamRepository
	now      Clock
}

func NewDocumentService(repo repository.DocumentRepository, notes repository.OwnedRepository[models.Note], teamRepo repository.TeamRepository, clock Clock) *DocumentService {
	if clock == nil {
		clock = SystemClock
	}
	return &DocumentService{
		OwnedService: newOwnedService[models.Document](repo, "document"),
		docs:         repo,
		notes:        notes,
		teamRepo:     teamRepo,
		now:          clock,
	}
}

type CreateDocumentInput struct {
	NoteID   *uint64
	Filename string
	Mimetype string
	Content  []byte
	Owner    OwnerInput
}

type UpdateDocumentInput struct {
	Filename *string
	NoteID   IDUpdate
}

// Upload stores a document. The mimetype is sniffed from the content when
// not supplied.
func (s *DocumentService) Upload(ctx context.Context, vis visibility.Context, input CreateDocumentInput) (*models.Document, error) {
	filename := cleanFilename(input.Filename)
	if filename == "" {
		return nil, ErrFilenameRequired
	}
	if len(input.Content) > constants.MaxDocumentSize {
		return nil, ErrDocumentTooLarge
	}
	if err := s.checkNote(ctx, vis, input.NoteID); err != nil {
		return nil, err
	}
	owner, err := resolveOwnership(ctx, s.teamRepo, vis, input.Owner.TeamID, input.Owner.Personal)
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		NoteID:     input.NoteID,
		Filename:   filename,
		Mimetype:   detectMimetype(input.Mimetype, input.Content),
		Size:       int64(len(input.Content)),
		Content:    input.Content,
		Ownership:  owner,
		UploadDate: s.now(),
	}
	if err := s.create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) Update(ctx context.Context, vis visibility.Context, id uint64, input UpdateDocumentInput) (*models.Document, error) {
	fields := map[string]interface{}{}
	if input.Filename != nil {
		filename := cleanFilename(*input.Filename)
		if filename == "" {
			return nil, ErrFilenameRequired
		}
		fields["filename"] = filename
	}
	if err := s.checkNote(ctx, vis, input.NoteID.target()); err != nil {
		return nil, err
	}
	input.NoteID.apply(fields, "note_id")

	return s.update(ctx, vis, id, fields)
}

// ReplaceContent overwrites the bytes of a visible document and stamps a new
// upload date. The mimetype is sniffed from content when not supplied.
func (s *DocumentService) ReplaceContent(ctx context.Context, vis visibility.Context, id uint64, mimetype string, content []byte) (*models.Document, error) {
	if len(content) > constants.MaxDocumentSize {
		return nil, ErrDocumentTooLarge
	}
	return s.update(ctx, vis, id, map[string]interface{}{
		"content":     content,
		"size":        int64(len(content)),
		"mimetype":    detectMimetype(mimetype, content),
		"upload_date": s.now(),
	})
}

// Content returns a visible document with its bytes loaded.
func (s *DocumentService) Content(ctx context.Context, vis visibility.Context, id uint64) (*models.Document, error) {
	doc, err := s.docs.FindContent(ctx, vis, id)
	if err != nil {
		return nil, storeError("find document", err)
	}
	return doc, nil
}

// ListByNote lists the visible documents attached to a visible note.
func (s *DocumentService) ListByNote(ctx context.Context, vis visibility.Context, noteID uint64) ([]models.Document, error) {
	if err := s.checkNote(ctx, vis, &noteID); err != nil {
		return nil, err
	}
	return s.List(ctx, vis, repository.Filter{"note_id": noteID})
}

func (s *DocumentService) checkNote(ctx context.Context, vis visibility.Context, noteID *uint64) error {
	if noteID == nil {
		return nil
	}
	if _, err := s.notes.FindVisible(ctx, vis, *noteID); err != nil {
		return storeError("find note", err)
	}
	return nil
}

func detectMimetype(declared string, content []byte) string {
	if mimetype := strings.TrimSpace(declared); mimetype != "" {
		return mimetype
	}
	return http.DetectContentType(content)
}

// cleanFilename keeps only the base name of an uploaded file.
func cleanFilename(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" {
		return ""
	}
	base := filepath.Base(name)
	if base == "." || base == "/" {
		return ""
	}
	return base
}
