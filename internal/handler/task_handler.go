package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/taskboard/internal/middleware"
	"github.com/hitoshi/taskboard/internal/model"
	"github.com/hitoshi/taskboard/internal/task"
)

// TaskServiceInterface はタスクハンドラーが必要とするサービスインターフェース。
type TaskServiceInterface interface {
	// Create は新規タスクを作成する。
	Create(ctx context.Context, ownerID string, input task.CreateInput) (*model.Task, error)
	// Get は所有者スコープ付きでタスクを取得する。
	Get(ctx context.Context, ownerID, taskID string) (*model.Task, error)
	// Update はタスクを部分更新する。
	Update(ctx context.Context, ownerID, taskID string, patch model.TaskPatch) (*model.Task, error)
	// Delete はタスクを削除する。
	Delete(ctx context.Context, ownerID, taskID string) error
	// List はクエリパラメータに基づく所有者のタスク一覧を返す。
	List(ctx context.Context, ownerID string, params task.QueryParams) ([]*model.Task, error)
}

// TaskHandler はタスク管理のHTTPハンドラー。
type TaskHandler struct {
	service TaskServiceInterface
}

// NewTaskHandler はTaskHandlerを生成する。
func NewTaskHandler(service TaskServiceInterface) *TaskHandler {
	return &TaskHandler{service: service}
}

// taskRequest はタスク作成・更新リクエストのボディ。
// 更新時はnilフィールドを変更なしとして扱う。
type taskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
}

// taskListResponse はタスク一覧のレスポンス。
type taskListResponse struct {
	Tasks []taskResponse `json:"tasks"`
	Count int            `json:"count"`
}

// ListTasks は現在のユーザーのタスク一覧を絞り込み・ソート付きで返す。
// GET /tasks?search=&status=&priority=&sortBy=&order=
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationRequiredError())
		return
	}

	q := r.URL.Query()
	params := task.QueryParams{
		Search:   q.Get("search"),
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		SortBy:   q.Get("sortBy"),
		Order:    q.Get("order"),
	}

	tasks, err := h.service.List(r.Context(), userID, params)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]taskResponse, len(tasks))
	for i, t := range tasks {
		responses[i] = toTaskResponse(t)
	}

	writeJSON(w, http.StatusOK, taskListResponse{
		Tasks: responses,
		Count: len(responses),
	})
}

// GetTask はタスク詳細を取得する。
// GET /tasks/:id
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationRequiredError())
		return
	}

	taskID := chi.URLParam(r, "id")

	result, err := h.service.Get(r.Context(), userID, taskID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]taskResponse{"task": toTaskResponse(result)})
}

// CreateTask は新規タスクを作成する。
// POST /tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationRequiredError())
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequestBody(w)
		return
	}

	input := task.CreateInput{}
	var fields []model.FieldError

	if req.Title == nil {
		fields = append(fields, model.FieldError{
			Field:   "title",
			Message: "タイトルは必須です。",
		})
	} else {
		if fe := validateTitle(*req.Title); fe != nil {
			fields = append(fields, *fe)
		}
		input.Title = *req.Title
	}
	if req.Description != nil {
		if fe := validateDescription(*req.Description); fe != nil {
			fields = append(fields, *fe)
		}
		input.Description = *req.Description
	}
	if req.Status != nil {
		status, ok := model.ParseTaskStatus(*req.Status)
		if !ok {
			fields = append(fields, invalidStatusFieldError())
		}
		input.Status = status
	}
	if req.Priority != nil {
		priority, ok := model.ParseTaskPriority(*req.Priority)
		if !ok {
			fields = append(fields, invalidPriorityFieldError())
		}
		input.Priority = priority
	}
	if req.DueDate != nil {
		due, fe := parseDueDate(*req.DueDate)
		if fe != nil {
			fields = append(fields, *fe)
		} else {
			input.DueDate = &due
		}
	}

	if len(fields) > 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError(fields))
		return
	}

	created, err := h.service.Create(r.Context(), userID, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "タスクを作成しました。",
		"task":    toTaskResponse(created),
	})
}

// UpdateTask はタスクを部分更新する。指定されなかったフィールドは変更しない。
// PUT /tasks/:id
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationRequiredError())
		return
	}

	taskID := chi.URLParam(r, "id")

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequestBody(w)
		return
	}

	patch := model.TaskPatch{}
	var fields []model.FieldError

	if req.Title != nil {
		if fe := validateTitle(*req.Title); fe != nil {
			fields = append(fields, *fe)
		}
		patch.Title = req.Title
	}
	if req.Description != nil {
		if fe := validateDescription(*req.Description); fe != nil {
			fields = append(fields, *fe)
		}
		patch.Description = req.Description
	}
	if req.Status != nil {
		status, ok := model.ParseTaskStatus(*req.Status)
		if !ok {
			fields = append(fields, invalidStatusFieldError())
		} else {
			patch.Status = &status
		}
	}
	if req.Priority != nil {
		priority, ok := model.ParseTaskPriority(*req.Priority)
		if !ok {
			fields = append(fields, invalidPriorityFieldError())
		} else {
			patch.Priority = &priority
		}
	}
	if req.DueDate != nil {
		due, fe := parseDueDate(*req.DueDate)
		if fe != nil {
			fields = append(fields, *fe)
		} else {
			patch.DueDate = &due
		}
	}

	if len(fields) > 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError(fields))
		return
	}

	updated, err := h.service.Update(r.Context(), userID, taskID, patch)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "タスクを更新しました。",
		"task":    toTaskResponse(updated),
	})
}

// DeleteTask はタスクを削除する。
// DELETE /tasks/:id
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationRequiredError())
		return
	}

	taskID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, taskID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "タスクを削除しました。",
	})
}

// invalidStatusFieldError はステータス不正のバリデーションエラーを返す。
func invalidStatusFieldError() model.FieldError {
	return model.FieldError{
		Field:   "status",
		Message: "ステータスにはpending、in-progress、completedのいずれかを指定してください。",
	}
}

// invalidPriorityFieldError は優先度不正のバリデーションエラーを返す。
func invalidPriorityFieldError() model.FieldError {
	return model.FieldError{
		Field:   "priority",
		Message: "優先度にはlow、medium、highのいずれかを指定してください。",
	}
}
