package v1

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nkoryukov/taskboard/internal/models"
	"github.com/nkoryukov/taskboard/internal/services"
)

type fakeTaskService struct {
	listFn    func(userID string, filter services.TaskFilter) ([]*models.Task, error)
	createFn  func(userID string, params services.CreateTaskParams) (*models.Task, error)
	updateFn  func(userID, taskID string, params services.UpdateTaskParams) (*models.Task, error)
	toggleFn  func(userID, taskID string) (*models.Task, error)
	reorderFn func(userID string, orderedIDs []string) ([]*models.Task, error)
	deleteFn  func(userID, taskID string) error
}

func (f *fakeTaskService) ListTasks(_ context.Context, userID string, filter services.TaskFilter) ([]*models.Task, error) {
	return f.listFn(userID, filter)
}

func (f *fakeTaskService) CreateTask(_ context.Context, userID string, params services.CreateTaskParams) (*models.Task, error) {
	return f.createFn(userID, params)
}

func (f *fakeTaskService) UpdateTask(_ context.Context, userID, taskID string, params services.UpdateTaskParams) (*models.Task, error) {
	return f.updateFn(userID, taskID, params)
}

func (f *fakeTaskService) ToggleCompleted(_ context.Context, userID, taskID string) (*models.Task, error) {
	return f.toggleFn(userID, taskID)
}

func (f *fakeTaskService) ReorderTasks(_ context.Context, userID string, orderedIDs []string) ([]*models.Task, error) {
	return f.reorderFn(userID, orderedIDs)
}

func (f *fakeTaskService) DeleteTask(_ context.Context, userID, taskID string) error {
	return f.deleteFn(userID, taskID)
}

type fakeAuthService struct {
	registerFn func(params services.RegisterParams) (*services.AuthResult, error)
	loginFn    func(params services.LoginParams) (*services.AuthResult, error)
	parseFn    func(token string) (*jwt.RegisteredClaims, error)
}

func (f *fakeAuthService) Register(_ context.Context, params services.RegisterParams) (*services.AuthResult, error) {
	return f.registerFn(params)
}

func (f *fakeAuthService) Login(_ context.Context, params services.LoginParams) (*services.AuthResult, error) {
	return f.loginFn(params)
}

func (f *fakeAuthService) ParseAccessToken(token string) (*jwt.RegisteredClaims, error) {
	return f.parseFn(token)
}

type fakeTokenService struct {
	createFn func(userID, name string) (*models.APIToken, string, error)
	listFn   func(userID string) ([]*models.APIToken, error)
	deleteFn func(userID, tokenID string) error
	authFn   func(plaintext string) (string, error)
}

func (f *fakeTokenService) CreateToken(_ context.Context, userID, name string) (*models.APIToken, string, error) {
	return f.createFn(userID, name)
}

func (f *fakeTokenService) ListTokens(_ context.Context, userID string) ([]*models.APIToken, error) {
	return f.listFn(userID)
}

func (f *fakeTokenService) DeleteToken(_ context.Context, userID, tokenID string) error {
	return f.deleteFn(userID, tokenID)
}

func (f *fakeTokenService) AuthenticateToken(_ context.Context, plaintext string) (string, error) {
	return f.authFn(plaintext)
}
