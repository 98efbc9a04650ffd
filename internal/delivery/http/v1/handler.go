package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nkoryukov/taskboard/internal/services"
)

type Handler interface {
	HandleRegister(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleGetTasks(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleToggleTaskCompleted(c *gin.Context)
	HandleReorderTasks(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleGetAPITokens(c *gin.Context)
	HandleCreateAPIToken(c *gin.Context)
	HandleDeleteAPIToken(c *gin.Context)
}

type handlerImpl struct {
	logger zerolog.Logger
	auth   services.AuthService
	tasks  services.TaskService
	tokens services.TokenService
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	taskService services.TaskService,
	tokenService services.TokenService,
) Handler {
	return &handlerImpl{
		logger: logger,
		auth:   authService,
		tasks:  taskService,
		tokens: tokenService,
	}
}
