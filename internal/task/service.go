package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/taskboard/internal/model"
	"github.com/hitoshi/taskboard/internal/repository"
	"github.com/hitoshi/taskboard/internal/security"
)

// CreateInput はタスク作成の入力。
// StatusとPriorityが空の場合はデフォルト値（pending / medium）を適用する。
type CreateInput struct {
	Title       string
	Description string
	Status      model.TaskStatus
	Priority    model.TaskPriority
	DueDate     *time.Time
}

// MutationRecorder はタスクの変更操作をメトリクスとして記録するインターフェース。
type MutationRecorder interface {
	RecordTaskMutation(operation string)
}

// Service はタスク管理のサービス層。
// すべての操作は認証済み所有者のIDでスコープされる。
type Service struct {
	taskRepo  repository.TaskRepository
	sanitizer security.InputSanitizerService
	recorder  MutationRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// recorderはnilを許容する（メトリクス収集を行わない場合）。
func NewService(taskRepo repository.TaskRepository, sanitizer security.InputSanitizerService, recorder MutationRecorder) *Service {
	return &Service{
		taskRepo:  taskRepo,
		sanitizer: sanitizer,
		recorder:  recorder,
	}
}

func (s *Service) recordMutation(operation string) {
	if s.recorder != nil {
		s.recorder.RecordTaskMutation(operation)
	}
}

// Create は新規タスクを作成する。
func (s *Service) Create(ctx context.Context, ownerID string, input CreateInput) (*model.Task, error) {
	if input.Status == "" {
		input.Status = model.TaskStatusPending
	}
	if input.Priority == "" {
		input.Priority = model.TaskPriorityMedium
	}

	now := time.Now()
	task := &model.Task{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       s.sanitizer.Sanitize(input.Title),
		Description: s.sanitizer.Sanitize(input.Description),
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.recordMutation("create")
	slog.Info("task created",
		slog.String("task_id", task.ID),
		slog.String("user_id", ownerID),
	)

	return task, nil
}

// Get は所有者スコープ付きでタスクを取得する。
// 他ユーザーのタスクIDを指定した場合も存在しない場合と同じエラーになる。
func (s *Service) Get(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task == nil {
		return nil, model.NewTaskNotFoundError(taskID)
	}
	return task, nil
}

// Update はタスクを部分更新する。patchのnilフィールドは変更しない。
func (s *Service) Update(ctx context.Context, ownerID, taskID string, patch model.TaskPatch) (*model.Task, error) {
	if patch.Title != nil {
		sanitized := s.sanitizer.Sanitize(*patch.Title)
		patch.Title = &sanitized
	}
	if patch.Description != nil {
		sanitized := s.sanitizer.Sanitize(*patch.Description)
		patch.Description = &sanitized
	}

	task, err := s.taskRepo.Update(ctx, taskID, ownerID, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if task == nil {
		return nil, model.NewTaskNotFoundError(taskID)
	}

	s.recordMutation("update")
	return task, nil
}

// Delete はタスクを削除する。
func (s *Service) Delete(ctx context.Context, ownerID, taskID string) error {
	deleted, err := s.taskRepo.Delete(ctx, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !deleted {
		return model.NewTaskNotFoundError(taskID)
	}

	s.recordMutation("delete")
	slog.Info("task deleted",
		slog.String("task_id", taskID),
		slog.String("user_id", ownerID),
	)

	return nil
}

// List はクエリパラメータに基づく所有者のタスク一覧を返す。
func (s *Service) List(ctx context.Context, ownerID string, params QueryParams) ([]*model.Task, error) {
	query := ComposeQuery(ownerID, params)

	tasks, err := s.taskRepo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}
