// Package model はドメインモデルを定義する。
package model

import "time"

// Task はユーザーが所有するタスクを表す。
// すべての読み書きは所有者（OwnerID）でスコープされる。
type Task struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskStatus はタスクの進行状態を表す。
type TaskStatus string

const (
	// TaskStatusPending は未着手状態。新規タスクのデフォルト。
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusInProgress は作業中状態。
	TaskStatusInProgress TaskStatus = "in-progress"
	// TaskStatusCompleted は完了状態。
	TaskStatusCompleted TaskStatus = "completed"
)

// ParseTaskStatus は文字列をTaskStatusに変換する。
// 定義外の値の場合はfalseを返す。
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(s) {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return TaskStatus(s), true
	}
	return "", false
}

// TaskPriority はタスクの優先度を表す。
type TaskPriority string

const (
	// TaskPriorityLow は低優先度。
	TaskPriorityLow TaskPriority = "low"
	// TaskPriorityMedium は中優先度。新規タスクのデフォルト。
	TaskPriorityMedium TaskPriority = "medium"
	// TaskPriorityHigh は高優先度。
	TaskPriorityHigh TaskPriority = "high"
)

// ParseTaskPriority は文字列をTaskPriorityに変換する。
// 定義外の値の場合はfalseを返す。
func ParseTaskPriority(s string) (TaskPriority, bool) {
	switch TaskPriority(s) {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return TaskPriority(s), true
	}
	return "", false
}

// タイトル・説明のバリデーション制約。
const (
	TitleMaxLength       = 100
	DescriptionMaxLength = 500
)

// TaskPatch はタスクの部分更新を表す。
// nilフィールドは変更せず、既存の値を維持する。
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	DueDate     *time.Time
}
