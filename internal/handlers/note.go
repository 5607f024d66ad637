package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hsmith-dev/Trasker-WebApp/internal/constants"
	"github.com/hsmith-dev/Trasker-WebApp/internal/dto"
	apierrors "github.com/hsmith-dev/Trasker-WebApp/internal/errors"
	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/hsmith-dev/Trasker-WebApp/internal/services"
)

type NoteHandler struct {
	noteService *services.NoteService
	docService  *services.DocumentService
}

func NewNoteHandler(noteService *services.NoteService, docService *services.DocumentService) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
		docService:  docService,
	}
}

// List returns visible notes, narrowed by ?note_type and ?reference_id.
func (h *NoteHandler) List(c *gin.Context) {
	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	refID, ok := queryID(c, "reference_id")
	if !ok {
		return
	}
	var noteType *models.NoteType
	if v := c.Query("note_type"); v != "" {
		t := models.NoteType(v)
		noteType = &t
	}

	notes, err := h.noteService.ListNotes(c.Request.Context(), vis, noteType, refID)
	respondList(c, "notes", notes, err, dto.ToNoteDTO)
}

func (h *NoteHandler) Get(c *gin.Context) {
	getOwned[models.Note](c, h.noteService, dto.ToNoteDTO)
}

func (h *NoteHandler) Create(c *gin.Context) {
	type CreateNoteRequest struct {
		Note        string           `json:"note" binding:"required"`
		NoteType    *models.NoteType `json:"note_type"`
		ReferenceID *uint64          `json:"reference_id"`
		ownerRequest
	}

	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	note, err := h.noteService.Create(c.Request.Context(), vis, services.CreateNoteInput{
		Note:        req.Note,
		NoteType:    req.NoteType,
		ReferenceID: req.ReferenceID,
		Owner:       req.input(),
	})
	respondRecord(c, http.StatusCreated, note, err, dto.ToNoteDTO)
}

func (h *NoteHandler) Update(c *gin.Context) {
	type UpdateNoteRequest struct {
		Note        *string          `json:"note"`
		NoteType    *models.NoteType `json:"note_type"`
		ReferenceID optional[uint64] `json:"reference_id"`
	}

	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	note, err := h.noteService.Update(c.Request.Context(), vis, id, services.UpdateNoteInput{
		Note:        req.Note,
		NoteType:    req.NoteType,
		ReferenceID: idUpdate(req.ReferenceID),
	})
	respondRecord(c, http.StatusOK, note, err, dto.ToNoteDTO)
}

// Delete removes a note and its documents.
func (h *NoteHandler) Delete(c *gin.Context) {
	deleteOwned[models.Note](c, h.noteService)
}

// ListDocuments returns visible documents, narrowed to one note by ?note_id.
func (h *NoteHandler) ListDocuments(c *gin.Context) {
	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	noteID, ok := queryID(c, "note_id")
	if !ok {
		return
	}

	if noteID != nil {
		docs, err := h.docService.ListByNote(c.Request.Context(), vis, *noteID)
		respondList(c, "documents", docs, err, dto.ToDocumentDTO)
		return
	}
	docs, err := h.docService.List(c.Request.Context(), vis, nil)
	respondList(c, "documents", docs, err, dto.ToDocumentDTO)
}

func (h *NoteHandler) GetDocument(c *gin.Context) {
	getOwned[models.Document](c, h.docService, dto.ToDocumentDTO)
}

// UploadDocument stores a multipart "file" upload, optionally attached to
// the note named by the note_id form field.
func (h *NoteHandler) UploadDocument(c *gin.Context) {
	vis, ok := requireVisibility(c)
	if !ok {
		return
	}

	upload, ok := readUpload(c)
	if !ok {
		return
	}

	input := services.CreateDocumentInput{
		Filename: upload.filename,
		Mimetype: upload.mimetype,
		Content:  upload.content,
	}
	if v := c.PostForm("note_id"); v != "" {
		noteID, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid note_id")
			return
		}
		input.NoteID = &noteID
	}
	if v := c.PostForm("team_id"); v != "" {
		teamID, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid team_id")
			return
		}
		input.Owner.TeamID = &teamID
	}
	input.Owner.Personal = c.PostForm("personal") == "true"

	doc, err := h.docService.Upload(c.Request.Context(), vis, input)
	respondRecord(c, http.StatusCreated, doc, err, dto.ToDocumentDTO)
}

func (h *NoteHandler) UpdateDocument(c *gin.Context) {
	type UpdateDocumentRequest struct {
		Filename *string          `json:"filename"`
		NoteID   optional[uint64] `json:"note_id"`
	}

	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	doc, err := h.docService.Update(c.Request.Context(), vis, id, services.UpdateDocumentInput{
		Filename: req.Filename,
		NoteID:   idUpdate(req.NoteID),
	})
	respondRecord(c, http.StatusOK, doc, err, dto.ToDocumentDTO)
}

// ReplaceDocumentContent swaps the stored bytes of a document for a new
// multipart "file" part, keeping its id and filename.
func (h *NoteHandler) ReplaceDocumentContent(c *gin.Context) {
	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	upload, ok := readUpload(c)
	if !ok {
		return
	}

	doc, err := h.docService.ReplaceContent(c.Request.Context(), vis, id, upload.mimetype, upload.content)
	respondRecord(c, http.StatusOK, doc, err, dto.ToDocumentDTO)
}

func (h *NoteHandler) DeleteDocument(c *gin.Context) {
	deleteOwned[models.Document](c, h.docService)
}

// DocumentContent streams the stored bytes as an attachment.
func (h *NoteHandler) DocumentContent(c *gin.Context) {
	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.docService.Content(c.Request.Context(), vis, id)
	if err != nil {
		respondError(c, err)
		return
	}

	mimetype := doc.Mimetype
	if mimetype == "" {
		mimetype = "application/octet-stream"
	}
	c.Header("Content-Disposition", "attachment; filename=\""+doc.Filename+"\"")
	c.Data(http.StatusOK, mimetype, doc.Content)
}

type uploadedFile struct {
	filename string
	mimetype string
	content  []byte
}

// readUpload reads the multipart "file" part, enforcing the document size cap.
func readUpload(c *gin.Context) (uploadedFile, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, constants.MaxDocumentSize+1<<20)
	header, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "A file field is required")
		return uploadedFile{}, false
	}
	if header.Size > constants.MaxDocumentSize {
		respondError(c, services.ErrDocumentTooLarge)
		return uploadedFile{}, false
	}

	file, err := header.Open()
	if err != nil {
		apierrors.BadRequest(c, "Failed to read upload")
		return uploadedFile{}, false
	}
	defer file.Close()
	content, err := io.ReadAll(io.LimitReader(file, constants.MaxDocumentSize+1))
	if err != nil {
		apierrors.BadRequest(c, "Failed to read upload")
		return uploadedFile{}, false
	}

	u := uploadedFile{filename: header.Filename, content: content}
	// multipart writers default to octet-stream; let the service sniff those
	if mimetype := header.Header.Get("Content-Type"); mimetype != "application/octet-stream" {
		u.mimetype = mimetype
	}
	return u, true
}
