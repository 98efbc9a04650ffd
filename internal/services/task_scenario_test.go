package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Walks one user through the whole flow: filter by priority,
// complete a task, then move it below another one.
func TestTaskLifecycleScenario(t *testing.T) {
	mock, svc := newTaskServiceTest(t)
	ctx := context.Background()

	now := time.Now()
	due := date(2025, time.June, 10)
	toggleColumns := []string{
		"title", "description", "priority", "due_date",
		"completed_at", "sort_order", "created_at",
	}

	// Only the high-priority task matches the filter.
	mock.ExpectQuery(regexp.QuoteMeta(`AND priority = $2`)).
		WithArgs(testUserID, "high").
		WillReturnRows(pgxmock.NewRows(taskColumns).
			AddRow(int64(1), "file taxes", "", "high", &due, (*time.Time)(nil), 0, now, now))

	tasks, err := svc.ListTasks(ctx, testUserID, TaskFilter{Priority: "high"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "1", tasks[0].ID)
	assert.False(t, tasks[0].IsCompleted())

	// Toggling completes it.
	expectTaskOwner(mock, 1, testUserID)
	mock.ExpectQuery(regexp.QuoteMeta(`SET completed_at = CASE`)).
		WithArgs(pgxmock.AnyArg(), int64(1), testUserID).
		WillReturnRows(pgxmock.NewRows(toggleColumns).
			AddRow("file taxes", "", "high", &due, &now, 0, now))

	toggled, err := svc.ToggleCompleted(ctx, testUserID, "1")
	require.NoError(t, err)
	assert.True(t, toggled.IsCompleted())

	// Moving task 2 ahead of task 1 renumbers both and the next
	// listing comes back in the new order.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*)`)).
		WithArgs(testUserID, []int64{2, 1}).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec(regexp.QuoteMeta(`WITH ORDINALITY`)).
		WithArgs([]int64{2, 1}, testUserID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY sort_order ASC, created_at DESC`)).
		WithArgs(testUserID).
		WillReturnRows(pgxmock.NewRows(taskColumns).
			AddRow(int64(2), "water plants", "", "low", (*time.Time)(nil), (*time.Time)(nil), 0, now, now).
			AddRow(int64(1), "file taxes", "", "high", &due, &now, 1, now, now))

	reordered, err := svc.ReorderTasks(ctx, testUserID, []string{"2", "1"})
	require.NoError(t, err)

	require.Len(t, reordered, 2)
	assert.Equal(t, "2", reordered[0].ID)
	assert.Equal(t, 0, reordered[0].SortOrder)
	assert.Equal(t, "1", reordered[1].ID)
	assert.Equal(t, 1, reordered[1].SortOrder)
	assert.NoError(t, mock.ExpectationsWereMet())
}
