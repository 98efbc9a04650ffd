package models

import (
	"time"

	"github.com/dustin/go-humanize"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
	PriorityNone   = "none"
)

// PriorityRank maps a priority to its sort rank.
// Lower ranks sort first; unknown values rank with PriorityNone.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

func ValidPriority(priority string) bool {
	switch priority {
	case PriorityHigh, PriorityMedium, PriorityLow, PriorityNone:
		return true
	}
	return false
}

type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
	CompletedAt *time.Time
	SortOrder   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Task) IsCompleted() bool {
	return t.CompletedAt != nil
}

// CompletedAgo returns the completion time in a human-readable
// relative format, e.g. "3 hours ago", or an empty string while
// the task is incomplete. It is computed, never stored.
func (t *Task) CompletedAgo() string {
	if t.CompletedAt == nil {
		return ""
	}
	return humanize.Time(*t.CompletedAt)
}
