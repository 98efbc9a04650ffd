package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/nkoryukov/taskboard/internal/models"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	db     Database
}

func NewTaskService(
	logger zerolog.Logger,
	db Database,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		db:     db,
	}
}

const taskOrderClause = ` ORDER BY sort_order ASC, created_at DESC`

// Portable equivalent of the priority rank in models.PriorityRank.
const priorityOrderClause = ` ORDER BY CASE priority
    WHEN 'high' THEN 1
    WHEN 'medium' THEN 2
    WHEN 'low' THEN 3
    ELSE 4
END ASC, sort_order ASC, created_at DESC`

func (s *taskServiceImpl) ListTasks(ctx context.Context, userID string, filter TaskFilter) ([]*models.Task, error) {
	const selectTasksQuery = `
SELECT id,
       title,
       description,
       priority,
       due_date,
       completed_at,
       sort_order,
       created_at,
       updated_at
FROM tasks
WHERE user_id = $1`

	query := selectTasksQuery
	args := []any{userID}

	if filter.Priority != "" {
		if !models.ValidPriority(filter.Priority) {
			return nil, newValidationError("priority",
				"must be one of high, medium, low, none")
		}
		args = append(args, filter.Priority)
		query += fmt.Sprintf(" AND priority = $%d", len(args))
	}

	now := time.Now()
	switch filter.Due {
	case "":
	case DueToday:
		args = append(args, dateOf(now))
		query += fmt.Sprintf(" AND due_date = $%d", len(args))
	case DueThisWeek:
		from, to := weekWindow(now)
		args = append(args, from, to)
		query += fmt.Sprintf(" AND due_date >= $%d AND due_date <= $%d",
			len(args)-1, len(args))
	case DueThisMonth:
		from, to := monthWindow(now)
		args = append(args, from, to)
		query += fmt.Sprintf(" AND due_date >= $%d AND due_date <= $%d",
			len(args)-1, len(args))
	case DueOverdue:
		// Completed tasks are never overdue, no matter the due date.
		args = append(args, dateOf(now))
		query += fmt.Sprintf(" AND due_date < $%d AND completed_at IS NULL", len(args))
	default:
		return nil, newValidationError("due",
			"must be one of today, thisweek, thismonth, overdue")
	}

	switch filter.Sort {
	case "":
		query += taskOrderClause
	case SortByPriority:
		query += priorityOrderClause
	default:
		return nil, newValidationError("sort", "must be priority or omitted")
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select tasks")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task := &models.Task{UserID: userID}
		var taskID int64
		err = rows.Scan(
			&taskID,
			&task.Title,
			&task.Description,
			&task.Priority,
			&task.DueDate,
			&task.CompletedAt,
			&task.SortOrder,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		task.ID = strconv.FormatInt(taskID, 10)
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("selected tasks")

	return tasks, nil
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, userID string, params CreateTaskParams) (*models.Task, error) {
	err := validateTitle(params.Title)
	if err != nil {
		return nil, err
	}

	priority := params.Priority
	if priority == "" {
		priority = models.PriorityNone
	}
	if !models.ValidPriority(priority) {
		return nil, newValidationError("priority",
			"must be one of high, medium, low, none")
	}

	now := time.Now()
	task := &models.Task{
		UserID:      userID,
		Title:       params.Title,
		Description: params.Description,
		Priority:    priority,
		DueDate:     params.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// New tasks append to the end of the user's manual order, so a
	// concurrent reorder never has its positions stomped on.
	const insertTaskQuery = `
INSERT INTO tasks (user_id,
                   title,
                   description,
                   priority,
                   due_date,
                   sort_order,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5,
        (SELECT COALESCE(MAX(sort_order) + 1, 0) FROM tasks WHERE user_id = $1),
        $6, $6)
RETURNING id, sort_order
`
	var taskID int64
	err = s.db.QueryRow(
		ctx,
		insertTaskQuery,
		task.UserID,
		task.Title,
		task.Description,
		task.Priority,
		task.DueDate,
		task.CreatedAt,
	).Scan(
		&taskID,
		&task.SortOrder,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}
	task.ID = strconv.FormatInt(taskID, 10)
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted task")

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", userID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, userID, taskID string, params UpdateTaskParams) (*models.Task, error) {
	err := validateTitle(params.Title)
	if err != nil {
		return nil, err
	}

	priority := params.Priority
	if priority == "" {
		priority = models.PriorityNone
	}
	if !models.ValidPriority(priority) {
		return nil, newValidationError("priority",
			"must be one of high, medium, low, none")
	}

	id, err := s.resolveOwnedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:          taskID,
		UserID:      userID,
		Title:       params.Title,
		Description: params.Description,
		Priority:    priority,
		DueDate:     params.DueDate,
		UpdatedAt:   time.Now(),
	}

	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    priority = $3,
    due_date = $4,
    updated_at = $5
WHERE id = $6 AND user_id = $7
RETURNING completed_at, sort_order, created_at
`
	err = s.db.QueryRow(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.Priority,
		task.DueDate,
		task.UpdatedAt,
		id,
		task.UserID,
	).Scan(
		&task.CompletedAt,
		&task.SortOrder,
		&task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Deleted between the ownership check and the update.
			s.logger.Warn().
				Str("task_id", taskID).
				Msg("task vanished during update")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to update task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", taskID).
		Str("user_id", userID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) ToggleCompleted(ctx context.Context, userID, taskID string) (*models.Task, error) {
	id, err := s.resolveOwnedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:        taskID,
		UserID:    userID,
		UpdatedAt: time.Now(),
	}

	const toggleTaskQuery = `
UPDATE tasks
SET completed_at = CASE WHEN completed_at IS NULL THEN $1 ELSE NULL END,
    updated_at = $1
WHERE id = $2 AND user_id = $3
RETURNING title, description, priority, due_date, completed_at, sort_order, created_at
`
	err = s.db.QueryRow(
		ctx,
		toggleTaskQuery,
		task.UpdatedAt,
		id,
		task.UserID,
	).Scan(
		&task.Title,
		&task.Description,
		&task.Priority,
		&task.DueDate,
		&task.CompletedAt,
		&task.SortOrder,
		&task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("task_id", taskID).
				Msg("task vanished during toggle")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to toggle task completion")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", taskID).
		Str("user_id", userID).
		Bool("is_completed", task.IsCompleted()).
		Msg("toggled task completion")
	return task, nil
}

func (s *taskServiceImpl) ReorderTasks(ctx context.Context, userID string, orderedIDs []string) ([]*models.Task, error) {
	if len(orderedIDs) == 0 {
		return nil, newValidationError("order", "must not be empty")
	}

	ids := make([]int64, len(orderedIDs))
	seen := make(map[int64]struct{}, len(orderedIDs))
	for i, raw := range orderedIDs {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, newValidationError("order",
				fmt.Sprintf("invalid task id %q", raw))
		}
		if _, ok := seen[id]; ok {
			return nil, newValidationError("order",
				fmt.Sprintf("duplicate task id %q", raw))
		}
		seen[id] = struct{}{}
		ids[i] = id
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Every id must exist and belong to the caller before a single
	// row moves, otherwise the whole batch is rejected.
	const countOwnedTasksQuery = `
SELECT COUNT(*)
FROM tasks
WHERE user_id = $1 AND id = ANY($2)
`
	var owned int
	err = tx.QueryRow(
		ctx,
		countOwnedTasksQuery,
		userID,
		ids,
	).Scan(&owned)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to count owned tasks")
		return nil, err
	}
	if owned != len(ids) {
		s.logger.Warn().
			Int("owned", owned).
			Int("requested", len(ids)).
			Str("user_id", userID).
			Msg("reorder rejected")
		return nil, newValidationError("order", "unknown task id in order")
	}

	const reorderTasksQuery = `
UPDATE tasks AS t
SET sort_order = o.position - 1,
    updated_at = $3
FROM unnest($1::bigint[]) WITH ORDINALITY AS o(id, position)
WHERE t.id = o.id AND t.user_id = $2
`
	_, err = tx.Exec(
		ctx,
		reorderTasksQuery,
		ids,
		userID,
		time.Now(),
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to reorder tasks")
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}
	s.logger.Info().
		Int("count", len(ids)).
		Str("user_id", userID).
		Msg("reordered tasks")

	return s.ListTasks(ctx, userID, TaskFilter{})
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID string) error {
	id, err := s.resolveOwnedTask(ctx, userID, taskID)
	if err != nil {
		return err
	}

	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1 AND user_id = $2
`
	tag, err := s.db.Exec(
		ctx,
		deleteTaskQuery,
		id,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn().
			Str("task_id", taskID).
			Msg("task vanished during delete")
		return ErrTaskNotFound
	}

	s.logger.Info().
		Str("task_id", taskID).
		Str("user_id", userID).
		Msg("deleted task")
	return nil
}

// resolveOwnedTask parses the task id and checks it exists and
// belongs to the caller. A missing row is reported as
// ErrTaskNotFound, another user's row as ErrTaskForbidden.
func (s *taskServiceImpl) resolveOwnedTask(ctx context.Context, userID, taskID string) (int64, error) {
	id, err := strconv.ParseInt(taskID, 10, 64)
	if err != nil {
		return 0, ErrTaskNotFound
	}

	const selectTaskOwnerQuery = `
SELECT user_id
FROM tasks
WHERE id = $1
`
	var ownerID string
	err = s.db.QueryRow(
		ctx,
		selectTaskOwnerQuery,
		id,
	).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("task_id", taskID).
				Msg("task not found")
			return 0, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to select task owner")
		return 0, err
	}

	if ownerID != userID {
		s.logger.Warn().
			Str("task_id", taskID).
			Str("user_id", userID).
			Msg("task owned by another user")
		return 0, ErrTaskForbidden
	}
	return id, nil
}

func validateTitle(title string) error {
	if title == "" {
		return newValidationError("title", "must not be empty")
	}
	if utf8.RuneCountInString(title) > 255 {
		return newValidationError("title", "can be up to 255 characters")
	}
	return nil
}
