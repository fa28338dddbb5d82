// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/taskboard/internal/model"
)

// ErrDuplicateEmail はメールアドレスの一意制約違反を表す。
// ドライバ固有のエラー形状はリポジトリ層で吸収し、上位層はこの
// センチネルのみを検査する。
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	// メールアドレスが既に登録済みの場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error

	// UpdateProfile はユーザーの表示名とメールアドレスを更新する。
	// nilフィールドは変更しない。メールアドレス重複時はErrDuplicateEmailを返す。
	// 見つからない場合はnilを返す。
	UpdateProfile(ctx context.Context, id string, name, email *string) (*model.User, error)
}

// TaskRepository はタスクデータの永続化インターフェース。
// すべての読み書きは所有者IDでスコープされ、所有者不一致は
// 存在しない場合と区別されない（存在の漏洩を防ぐ）。
type TaskRepository interface {
	// Create はタスクを作成する。
	Create(ctx context.Context, task *model.Task) error

	// FindByID は指定IDのタスクを所有者スコープ付きで取得する。
	// 見つからない場合・所有者が一致しない場合・IDがUUIDとして
	// 不正な場合はいずれもnilを返す。
	FindByID(ctx context.Context, id, ownerID string) (*model.Task, error)

	// Update はタスクを部分更新する。patchのnilフィールドは変更しない。
	// 見つからない場合・所有者不一致の場合はnilを返す。
	Update(ctx context.Context, id, ownerID string, patch model.TaskPatch) (*model.Task, error)

	// Delete はタスクを削除する。削除された場合はtrueを返す。
	Delete(ctx context.Context, id, ownerID string) (bool, error)

	// List はクエリ条件に一致する所有者のタスク一覧をソート順で返す。
	List(ctx context.Context, query model.TaskQuery) ([]*model.Task, error)
}
