package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskIsCompleted(t *testing.T) {
	task := Task{}
	assert.False(t, task.IsCompleted())

	completedAt := time.Now()
	task.CompletedAt = &completedAt
	assert.True(t, task.IsCompleted())
}

func TestTaskCompletedAgo(t *testing.T) {
	task := Task{}
	assert.Empty(t, task.CompletedAgo())

	completedAt := time.Now().Add(-3 * time.Hour)
	task.CompletedAt = &completedAt
	assert.Contains(t, task.CompletedAgo(), "ago")
}

func TestPriorityRank(t *testing.T) {
	assert.Less(t, PriorityRank(PriorityHigh), PriorityRank(PriorityMedium))
	assert.Less(t, PriorityRank(PriorityMedium), PriorityRank(PriorityLow))
	assert.Less(t, PriorityRank(PriorityLow), PriorityRank(PriorityNone))

	// Unknown values rank with "none".
	assert.Equal(t, PriorityRank(PriorityNone), PriorityRank("urgent"))
}

func TestValidPriority(t *testing.T) {
	for _, priority := range []string{PriorityHigh, PriorityMedium, PriorityLow, PriorityNone} {
		assert.True(t, ValidPriority(priority), priority)
	}

	assert.False(t, ValidPriority(""))
	assert.False(t, ValidPriority("urgent"))
	assert.False(t, ValidPriority("High"))
}
