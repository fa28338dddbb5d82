package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hitoshi/taskboard/internal/model"
)

// PostgresTaskRepo はPostgreSQLを使用したタスクリポジトリ。
type PostgresTaskRepo struct {
	db *sql.DB
}

// NewPostgresTaskRepo はPostgresTaskRepoを生成する。
func NewPostgresTaskRepo(db *sql.DB) *PostgresTaskRepo {
	return &PostgresTaskRepo{db: db}
}

const taskColumns = `id, owner_id, title, description, status, priority, due_date, created_at, updated_at`

// scanTask は1行分のタスクをスキャンする。
func scanTask(row interface{ Scan(...any) error }) (*model.Task, error) {
	task := &model.Task{}
	err := row.Scan(
		&task.ID, &task.OwnerID, &task.Title, &task.Description,
		&task.Status, &task.Priority, &task.DueDate,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Create はタスクを作成する。
func (r *PostgresTaskRepo) Create(ctx context.Context, task *model.Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, owner_id, title, description, status, priority, due_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		task.ID, task.OwnerID, task.Title, task.Description,
		task.Status, task.Priority, task.DueDate,
		task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// FindByID は指定IDのタスクを所有者スコープ付きで取得する。
// 所有者不一致は存在しない場合と同じくnilを返す。
// IDがUUIDとして不正な場合も見つからない扱いとする。
func (r *PostgresTaskRepo) FindByID(ctx context.Context, id, ownerID string) (*model.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	task, err := scanTask(r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// Update はタスクを部分更新する。patchのnilフィールドは既存の値を維持する。
// 見つからない場合・所有者不一致の場合はnilを返す。
func (r *PostgresTaskRepo) Update(ctx context.Context, id, ownerID string, patch model.TaskPatch) (*model.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	var status, priority *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}
	if patch.Priority != nil {
		p := string(*patch.Priority)
		priority = &p
	}

	task, err := scanTask(r.db.QueryRowContext(ctx,
		`UPDATE tasks
		 SET title = COALESCE($3, title),
		     description = COALESCE($4, description),
		     status = COALESCE($5, status),
		     priority = COALESCE($6, priority),
		     due_date = COALESCE($7, due_date),
		     updated_at = now()
		 WHERE id = $1 AND owner_id = $2
		 RETURNING `+taskColumns,
		id, ownerID, patch.Title, patch.Description, status, priority, patch.DueDate,
	))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// Delete はタスクを削除する。削除された場合はtrueを返す。
// 所有者不一致・ID不正の場合はfalseを返す。
func (r *PostgresTaskRepo) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// List はクエリ条件に一致する所有者のタスク一覧をソート順で返す。
func (r *PostgresTaskRepo) List(ctx context.Context, query model.TaskQuery) ([]*model.Task, error) {
	if query.OwnerID == "" {
		return nil, fmt.Errorf("task query requires an owner ID")
	}

	sqlQuery, args := buildListQuery(query)

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*model.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

// buildListQuery はTaskQueryからSQL文とバインド引数を構築する。
// 所有者条件は常にWHERE句の先頭に置かれる。ソート列はTaskSortFieldの
// 閉じた集合からのみ選択されるため、文字列連結してもインジェクションの
// 余地はない。
func buildListQuery(query model.TaskQuery) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1`)
	args := []any{query.OwnerID}

	if query.Status != nil {
		args = append(args, string(*query.Status))
		fmt.Fprintf(&sb, " AND status = $%d", len(args))
	}
	if query.Priority != nil {
		args = append(args, string(*query.Priority))
		fmt.Fprintf(&sb, " AND priority = $%d", len(args))
	}
	if query.Search != "" {
		args = append(args, "%"+escapeLike(query.Search)+"%")
		fmt.Fprintf(&sb, " AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}

	sb.WriteString(" ORDER BY " + sortExpression(query.SortBy))
	if query.Order == model.SortOrderAsc {
		sb.WriteString(" ASC")
	} else {
		sb.WriteString(" DESC")
	}
	// 期限なしタスクは昇順・降順いずれでも末尾に並べる
	if query.SortBy == model.TaskSortDueDate {
		sb.WriteString(" NULLS LAST")
	}
	sb.WriteString(", created_at DESC")

	return sb.String(), args
}

// sortExpression はソートフィールドをSQLの式に変換する。
// 優先度は文字列の辞書順ではなくlow < medium < highの意味順で並べる。
func sortExpression(field model.TaskSortField) string {
	switch field {
	case model.TaskSortUpdatedAt:
		return "updated_at"
	case model.TaskSortDueDate:
		return "due_date"
	case model.TaskSortTitle:
		return "title"
	case model.TaskSortStatus:
		return "status"
	case model.TaskSortPriority:
		return "CASE priority WHEN 'low' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END"
	default:
		return "created_at"
	}
}

// escapeLike はLIKEパターンのメタ文字をエスケープする。
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// compile-time interface check
var _ TaskRepository = (*PostgresTaskRepo)(nil)
