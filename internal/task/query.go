// Package task はタスク管理のドメインロジックを提供する。
package task

import "github.com/hitoshi/taskboard/internal/model"

// QueryParams はクライアントから受け取った生の絞り込み・ソートパラメータ。
// すべて任意で、未検証の文字列として保持する。
type QueryParams struct {
	Search   string
	Status   string
	Priority string
	SortBy   string
	Order    string
}

// ComposeQuery は生のクエリパラメータを検証済みのTaskQueryに変換する。
//
// 所有者条件は引数として必ず受け取り、クライアント入力からは一切
// 構成されない。不正なstatus・priority値は拒否せず黙って無視する
// （絞り込みなしと同じ扱い。寛容なUXを優先する意図的な仕様）。
// ソートフィールドはホワイトリスト外の値をデフォルト（作成日時）に
// 落とし、ソート方向はasc以外をすべてdescとして扱う。
func ComposeQuery(ownerID string, params QueryParams) model.TaskQuery {
	query := model.TaskQuery{
		OwnerID: ownerID,
		Search:  params.Search,
		SortBy:  model.TaskSortCreatedAt,
		Order:   model.SortOrderDesc,
	}

	if status, ok := model.ParseTaskStatus(params.Status); ok {
		query.Status = &status
	}
	if priority, ok := model.ParseTaskPriority(params.Priority); ok {
		query.Priority = &priority
	}
	if sortBy, ok := model.ParseTaskSortField(params.SortBy); ok {
		query.SortBy = sortBy
	}
	if params.Order == string(model.SortOrderAsc) {
		query.Order = model.SortOrderAsc
	}

	return query
}
