// Package model はドメインモデルを定義する。
package model

// TaskQuery は所有者スコープ付きのタスク検索条件を表す。
// OwnerIDは必須であり、クライアント入力によって上書きされることはない。
// 他のフィールドはすべて任意の絞り込み条件。
type TaskQuery struct {
	OwnerID  string
	Status   *TaskStatus
	Priority *TaskPriority
	Search   string // タイトルまたは説明に対する大文字小文字を区別しない部分一致
	SortBy   TaskSortField
	Order    SortOrder
}

// TaskSortField はタスク一覧のソート対象フィールドを表す。
// ホワイトリスト化された閉じた集合であり、クライアント入力を
// そのままSQLに渡すことはない。
type TaskSortField string

const (
	// TaskSortCreatedAt は作成日時によるソート。デフォルト。
	TaskSortCreatedAt TaskSortField = "createdAt"
	// TaskSortUpdatedAt は更新日時によるソート。
	TaskSortUpdatedAt TaskSortField = "updatedAt"
	// TaskSortDueDate は期限日によるソート。期限なしタスクは末尾に並ぶ。
	TaskSortDueDate TaskSortField = "dueDate"
	// TaskSortTitle はタイトルによるソート。
	TaskSortTitle TaskSortField = "title"
	// TaskSortStatus はステータスによるソート。
	TaskSortStatus TaskSortField = "status"
	// TaskSortPriority は優先度によるソート（low < medium < high）。
	TaskSortPriority TaskSortField = "priority"
)

// ParseTaskSortField は文字列をTaskSortFieldに変換する。
// ホワイトリスト外の値の場合はfalseを返す。
func ParseTaskSortField(s string) (TaskSortField, bool) {
	switch TaskSortField(s) {
	case TaskSortCreatedAt, TaskSortUpdatedAt, TaskSortDueDate,
		TaskSortTitle, TaskSortStatus, TaskSortPriority:
		return TaskSortField(s), true
	}
	return "", false
}

// SortOrder はソート方向を表す。
type SortOrder string

const (
	// SortOrderAsc は昇順ソート。
	SortOrderAsc SortOrder = "asc"
	// SortOrderDesc は降順ソート。デフォルト。
	SortOrderDesc SortOrder = "desc"
)
