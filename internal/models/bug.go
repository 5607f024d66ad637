package models

import "time"

type BugStatus string

const (
	BugStatusOpen       BugStatus = "Open"
	BugStatusInProgress BugStatus = "In Progress"
	BugStatusResolved   BugStatus = "Resolved"
	BugStatusClosed     BugStatus = "Closed"
)

func (s BugStatus) Valid() bool {
	switch s {
	case BugStatusOpen, BugStatusInProgress, BugStatusResolved, BugStatusClosed:
		return true
	}
	return false
}

type Bug struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	Title        string     `gorm:"type:varchar(255);not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	Status       BugStatus  `gorm:"type:varchar(20);not null;default:'Open'" json:"status"`
	CreatedDate  *time.Time `json:"created_date"`
	ResolvedDate *time.Time `json:"resolved_date"`
	TaskID       *uint64    `gorm:"index" json:"task_id"`
	Ownership
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
