package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nkoryukov/taskboard/internal/models"
	"github.com/nkoryukov/taskboard/internal/services"
)

const dueDateLayout = "2006-01-02"

type taskResponse struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	IsCompleted  bool       `json:"is_completed"`
	Priority     string     `json:"priority"`
	DueDate      *string    `json:"due_date"`
	CompletedAt  *time.Time `json:"completed_at"`
	CompletedAgo *string    `json:"completed_ago"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func newTaskResponse(task *models.Task) taskResponse {
	resp := taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		IsCompleted: task.IsCompleted(),
		Priority:    task.Priority,
		CompletedAt: task.CompletedAt,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if task.DueDate != nil {
		due := task.DueDate.Format(dueDateLayout)
		resp.DueDate = &due
	}
	if ago := task.CompletedAgo(); ago != "" {
		resp.CompletedAgo = &ago
	}
	return resp
}

func newTaskListResponse(tasks []*models.Task) []taskResponse {
	response := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskResponse(task)
	}
	return response
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	filter := services.TaskFilter{
		Priority: c.Query("priority"),
		Due:      c.Query("due"),
		Sort:     c.Query("sort"),
	}

	tasks, err := h.tasks.ListTasks(c, userID, filter)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to list tasks")
		abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskListResponse(tasks))
}

type taskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"due_date"`
}

// parseDueDate accepts a date-only string, an empty string or nil
// for no due date.
func parseDueDate(raw *string) (*time.Time, *services.ValidationError) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	due, err := time.Parse(dueDateLayout, *raw)
	if err != nil {
		return nil, &services.ValidationError{
			Field:   "due_date",
			Message: "must be a date formatted as " + dueDateLayout,
		}
	}
	return &due, nil
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req taskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	dueDate, verr := parseDueDate(req.DueDate)
	if verr != nil {
		abortValidation(c, verr)
		return
	}

	task, err := h.tasks.CreateTask(c, userID, services.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     dueDate,
	})
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to create task")
		abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		h.logger.Warn().Msg("no task id provided")
		abort(c, newBadRequestError("no task id provided"))
		return
	}

	var req taskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	dueDate, verr := parseDueDate(req.DueDate)
	if verr != nil {
		abortValidation(c, verr)
		return
	}

	task, err := h.tasks.UpdateTask(c, userID, taskID, services.UpdateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     dueDate,
	})
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to update task")
		abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleToggleTaskCompleted(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		h.logger.Warn().Msg("no task id provided")
		abort(c, newBadRequestError("no task id provided"))
		return
	}

	task, err := h.tasks.ToggleCompleted(c, userID, taskID)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to toggle task completion")
		abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

type reorderTasksRequest struct {
	Order []string `json:"order"`
}

func (h *handlerImpl) HandleReorderTasks(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req reorderTasksRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	tasks, err := h.tasks.ReorderTasks(c, userID, req.Order)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to reorder tasks")
		abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskListResponse(tasks))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		h.logger.Warn().Msg("no task id provided")
		abort(c, newBadRequestError("no task id provided"))
		return
	}

	err := h.tasks.DeleteTask(c, userID, taskID)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		abortTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
