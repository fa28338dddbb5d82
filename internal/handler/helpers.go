// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/hitoshi/taskboard/internal/model"
)

// apiErrorResponse はAPIエラーレスポンスの統一フォーマット。
type apiErrorResponse struct {
	Code     string             `json:"code"`
	Message  string             `json:"message"`
	Category string             `json:"category"`
	Action   string             `json:"action"`
	Errors   []model.FieldError `json:"errors,omitempty"`
}

// userResponse はユーザー情報のレスポンス。
// パスワードハッシュは決して含めない。
type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// taskResponse はタスク情報のレスポンス。
type taskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
func toUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// toTaskResponse はmodel.TaskからAPIレスポンスに変換する。
func toTaskResponse(task *model.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeJSON(w, statusCode, apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
		Errors:   apiErr.Fields,
	})
}

// writeBadRequestBody はリクエストボディ解析失敗の統一レスポンスを書き込む。
func writeBadRequestBody(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     "INVALID_REQUEST",
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, model.NewInternalError())
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeValidation, model.ErrCodeDuplicateEmail:
		return http.StatusBadRequest
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeTaskNotFound:
		return http.StatusNotFound
	case model.ErrCodeUserNotFound:
		// 認証済みトークンが指すユーザーの不在はセッション相当の失効として扱う
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// --- バリデーションヘルパー ---

// validateName は表示名の長さを検証する。
func validateName(name string) *model.FieldError {
	trimmed := strings.TrimSpace(name)
	if len([]rune(trimmed)) < model.NameMinLength || len([]rune(trimmed)) > model.NameMaxLength {
		return &model.FieldError{
			Field:   "name",
			Message: "表示名は2文字以上50文字以内で入力してください。",
		}
	}
	return nil
}

// validateEmail はメールアドレスの形式を検証する。
func validateEmail(email string) *model.FieldError {
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return &model.FieldError{
			Field:   "email",
			Message: "有効なメールアドレスを入力してください。",
		}
	}
	return nil
}

// validatePassword はパスワードの長さを検証する。
func validatePassword(password string) *model.FieldError {
	if len(password) < model.PasswordMinLength {
		return &model.FieldError{
			Field:   "password",
			Message: "パスワードは6文字以上で入力してください。",
		}
	}
	return nil
}

// validateTitle はタスクタイトルを検証する。
func validateTitle(title string) *model.FieldError {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" || len([]rune(trimmed)) > model.TitleMaxLength {
		return &model.FieldError{
			Field:   "title",
			Message: "タイトルは1文字以上100文字以内で入力してください。",
		}
	}
	return nil
}

// validateDescription はタスク説明を検証する。
func validateDescription(description string) *model.FieldError {
	if len([]rune(description)) > model.DescriptionMaxLength {
		return &model.FieldError{
			Field:   "description",
			Message: "説明は500文字以内で入力してください。",
		}
	}
	return nil
}

// parseDueDate はISO8601形式の期限日文字列を解析する。
// RFC3339のタイムスタンプと日付のみ（YYYY-MM-DD）の両方を受け付ける。
func parseDueDate(s string) (time.Time, *model.FieldError) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, &model.FieldError{
		Field:   "dueDate",
		Message: "期限日はISO8601形式で指定してください。",
	}
}
