package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkoryukov/taskboard/internal/models"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrTaskForbidden = errors.New("task belongs to another user")

	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")

	ErrTokenNotFound  = errors.New("api token not found")
	ErrTokenForbidden = errors.New("api token belongs to another user")
	ErrTokenInvalid   = errors.New("invalid api token")
)

// ValidationError reports a rejected input field. It maps to a
// 422 response with a field-level message at the HTTP boundary.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Database is the subset of *pgxpool.Pool the services depend on.
type Database interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Due filter values accepted by TaskFilter.
const (
	DueToday     = "today"
	DueThisWeek  = "thisweek"
	DueThisMonth = "thismonth"
	DueOverdue   = "overdue"
)

// Sort values accepted by TaskFilter. The default (empty) sort is
// sort_order ascending with created_at descending as tie-break.
const SortByPriority = "priority"

type TaskFilter struct {
	Priority string
	Due      string
	Sort     string
}

type CreateTaskParams struct {
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
}

type UpdateTaskParams struct {
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
}

type TaskService interface {
	// ListTasks returns the user's tasks matching the filter,
	// ordered by sort_order ascending and created_at descending.
	// An empty result is a nil error and an empty slice.
	ListTasks(ctx context.Context, userID string, filter TaskFilter) ([]*models.Task, error)

	// CreateTask validates the params and inserts an incomplete
	// task appended to the end of the user's manual order.
	CreateTask(ctx context.Context, userID string, params CreateTaskParams) (*models.Task, error)

	// UpdateTask replaces the editable fields (title, description,
	// priority, due date) of the user's task. It never touches
	// completed_at or sort_order. It returns ErrTaskNotFound if no
	// such task exists, or ErrTaskForbidden if it belongs to
	// another user.
	UpdateTask(ctx context.Context, userID, taskID string, params UpdateTaskParams) (*models.Task, error)

	// ToggleCompleted flips the completion state: an incomplete
	// task gets completed_at = now, a completed one gets nil.
	// Calling it twice restores the original state.
	ToggleCompleted(ctx context.Context, userID, taskID string) (*models.Task, error)

	// ReorderTasks assigns sort_order = position for each task id
	// in orderedIDs, atomically. If any id is unknown or owned by
	// another user it fails with a ValidationError before any row
	// changes. It returns the refreshed list.
	ReorderTasks(ctx context.Context, userID string, orderedIDs []string) ([]*models.Task, error)

	// DeleteTask removes the user's task. NotFound and Forbidden
	// semantics match UpdateTask.
	DeleteTask(ctx context.Context, userID, taskID string) error
}

type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

type LoginParams struct {
	Email    string
	Password string
}

type AuthResult struct {
	UserID      string
	AccessToken string
	ExpiresAt   time.Time
}

type AuthService interface {
	// Register creates a user with an argon2id password hash and
	// returns a fresh access token. It returns ErrUserAlreadyExists
	// if the email is taken.
	Register(ctx context.Context, params RegisterParams) (*AuthResult, error)

	// Login authenticates the user by email and password and
	// returns a fresh access token. It returns ErrUserNotFound or
	// ErrUserPasswordMismatch on bad credentials.
	Login(ctx context.Context, params LoginParams) (*AuthResult, error)

	// ParseAccessToken parses and verifies a JWT access token and
	// returns its registered claims, or jwt.ErrTokenExpired when
	// the token is expired.
	ParseAccessToken(token string) (*jwt.RegisteredClaims, error)
}

type TokenService interface {
	// CreateToken issues a named personal access token. The
	// returned plaintext is the only chance to read the secret.
	CreateToken(ctx context.Context, userID, name string) (token *models.APIToken, plaintext string, err error)

	ListTokens(ctx context.Context, userID string) ([]*models.APIToken, error)

	// DeleteToken revokes the user's token. It returns
	// ErrTokenNotFound or ErrTokenForbidden like the task service.
	DeleteToken(ctx context.Context, userID, tokenID string) error

	// AuthenticateToken resolves a presented plaintext token to the
	// owning user id and bumps last_used_at. It returns
	// ErrTokenInvalid on any mismatch.
	AuthenticateToken(ctx context.Context, plaintext string) (userID string, err error)
}
