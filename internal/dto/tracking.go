package dto

import (
	"time"

	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
)

// EpicDTO represents an epic in API responses
type EpicDTO struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	OwnerUserID uint64  `json:"owner_user_id"`
	OwnerTeamID *uint64 `json:"owner_team_id"`
}

// SprintDTO represents a sprint in API responses
type SprintDTO struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	EpicID      *uint64 `json:"epic_id"`
	OwnerUserID uint64  `json:"owner_user_id"`
	OwnerTeamID *uint64 `json:"owner_team_id"`
}

// BugDTO represents a bug in API responses
type BugDTO struct {
	ID           uint64           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Status       models.BugStatus `json:"status"`
	CreatedDate  *string          `json:"created_date"`
	ResolvedDate *string          `json:"resolved_date"`
	TaskID       *uint64          `json:"task_id"`
	OwnerUserID  uint64           `json:"owner_user_id"`
	OwnerTeamID  *uint64          `json:"owner_team_id"`
}

// NoteDTO represents a note in API responses
type NoteDTO struct {
	ID          uint64           `json:"id"`
	Note        string           `json:"note"`
	NoteType    *models.NoteType `json:"note_type"`
	ReferenceID *uint64          `json:"reference_id"`
	OwnerUserID uint64           `json:"owner_user_id"`
	OwnerTeamID *uint64          `json:"owner_team_id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// DocumentDTO describes a stored document without its content
type DocumentDTO struct {
	ID          uint64    `json:"id"`
	NoteID      *uint64   `json:"note_id"`
	Filename    string    `json:"filename"`
	Mimetype    string    `json:"mimetype"`
	Size        int64     `json:"size"`
	OwnerUserID uint64    `json:"owner_user_id"`
	OwnerTeamID *uint64   `json:"owner_team_id"`
	UploadDate  time.Time `json:"upload_date"`
}

func ToEpicDTO(e models.Epic) EpicDTO {
	return EpicDTO{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		StartDate:   dateString(e.StartDate),
		EndDate:     dateString(e.EndDate),
		OwnerUserID: e.OwnerUserID,
		OwnerTeamID: e.OwnerTeamID,
	}
}

func ToSprintDTO(s models.Sprint) SprintDTO {
	return SprintDTO{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		StartDate:   dateString(s.StartDate),
		EndDate:     dateString(s.EndDate),
		EpicID:      s.EpicID,
		OwnerUserID: s.OwnerUserID,
		OwnerTeamID: s.OwnerTeamID,
	}
}

func ToBugDTO(b models.Bug) BugDTO {
	return BugDTO{
		ID:           b.ID,
		Title:        b.Title,
		Description:  b.Description,
		Status:       b.Status,
		CreatedDate:  dateString(b.CreatedDate),
		ResolvedDate: dateString(b.ResolvedDate),
		TaskID:       b.TaskID,
		OwnerUserID:  b.OwnerUserID,
		OwnerTeamID:  b.OwnerTeamID,
	}
}

func ToNoteDTO(n models.Note) NoteDTO {
	return NoteDTO{
		ID:          n.ID,
		Note:        n.Note,
		NoteType:    n.NoteType,
		ReferenceID: n.ReferenceID,
		OwnerUserID: n.OwnerUserID,
		OwnerTeamID: n.OwnerTeamID,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

func ToDocumentDTO(d models.Document) DocumentDTO {
	return DocumentDTO{
		ID:          d.ID,
		NoteID:      d.NoteID,
		Filename:    d.Filename,
		Mimetype:    d.Mimetype,
		Size:        d.Size,
		OwnerUserID: d.OwnerUserID,
		OwnerTeamID: d.OwnerTeamID,
		UploadDate:  d.UploadDate,
	}
}

// MapSlice converts every element with fn.
func MapSlice[T, D any](items []T, fn func(T) D) []D {
	out := make([]D, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}
	return out
}
