package models

import "time"

type NoteType string

const (
	NoteTypeEpic    NoteType = "Epic"
	NoteTypeSprint  NoteType = "Sprint"
	NoteTypeTask    NoteType = "Task"
	NoteTypeBug     NoteType = "Bug"
	NoteTypeGeneral NoteType = "General"
)

func (t NoteType) Valid() bool {
	switch t {
	case NoteTypeEpic, NoteTypeSprint, NoteTypeTask, NoteTypeBug, NoteTypeGeneral:
		return true
	}
	return false
}

type Note struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Note        string    `gorm:"type:text;not null" json:"note"`
	NoteType    *NoteType `gorm:"type:varchar(20)" json:"note_type"`
	ReferenceID *uint64   `gorm:"index" json:"reference_id"`
	Ownership
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Document is a file attached (optionally) to a note. Content is only loaded
// when explicitly requested.
type Document struct {
	ID       uint64  `gorm:"primarykey" json:"id"`
	NoteID   *uint64 `gorm:"index" json:"note_id"`
	Filename string  `gorm:"type:varchar(255);not null" json:"filename"`
	Mimetype string  `gorm:"type:varchar(100)" json:"mimetype"`
	Size     int64   `gorm:"not null;default:0" json:"size"`
	Content  []byte  `json:"-"`
	Ownership
	UploadDate time.Time `gorm:"autoCreateTime" json:"upload_date"`
	UpdatedAt  time.Time `json:"updated_at"`
}
