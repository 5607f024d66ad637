package models

import "time"

// TaskSession is one contiguous timed interval of work on a task. EndTime is
// nil while the timer is running; ElapsedSeconds is written once, at stop.
type TaskSession struct {
	ID             uint64     `gorm:"primarykey" json:"id"`
	TaskID         uint64     `gorm:"not null;index" json:"task_id"`
	StartTime      time.Time  `gorm:"not null" json:"start_time"`
	EndTime        *time.Time `json:"end_time"`
	ElapsedSeconds int64      `gorm:"not null;default:0" json:"elapsed_seconds"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Open reports whether the session has not been stopped yet.
func (s TaskSession) Open() bool {
	return s.EndTime == nil
}

// ElapsedUntil returns the whole seconds between the session start and end,
// floored and never negative.
func (s TaskSession) ElapsedUntil(end time.Time) int64 {
	elapsed := int64(end.Sub(s.StartTime) / time.Second)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}
