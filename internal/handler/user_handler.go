package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/taskboard/internal/middleware"
	"github.com/hitoshi/taskboard/internal/model"
)

// UserServiceInterface はプロフィールハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// GetProfile は指定ユーザーのプロフィールを返す。
	GetProfile(ctx context.Context, userID string) (*model.User, error)
	// UpdateProfile は表示名とメールアドレスを部分更新する。nilフィールドは変更しない。
	UpdateProfile(ctx context.Context, userID string, name, email *string) (*model.User, error)
}

// UserHandler はプロフィール管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// profileUpdateRequest はプロフィール更新リクエストのボディ。
type profileUpdateRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// profileResponse はプロフィールのレスポンス。
type profileResponse struct {
	User userResponse `json:"user"`
}

// GetProfile は現在のログインユーザーのプロフィールを返す。
// GET /profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationRequiredError())
		return
	}

	user, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{User: toUserResponse(user)})
}

// UpdateProfile は表示名とメールアドレスを部分更新する。
// PUT /profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationRequiredError())
		return
	}

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequestBody(w)
		return
	}

	// nameとemailの両方がnilの場合はバリデーションエラー
	if req.Name == nil && req.Email == nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError([]model.FieldError{
			{Field: "name", Message: "nameまたはemailのいずれかを指定してください。"},
		}))
		return
	}

	var fields []model.FieldError
	if req.Name != nil {
		if fe := validateName(*req.Name); fe != nil {
			fields = append(fields, *fe)
		}
	}
	if req.Email != nil {
		if fe := validateEmail(*req.Email); fe != nil {
			fields = append(fields, *fe)
		}
	}
	if len(fields) > 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError(fields))
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, req.Name, req.Email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{User: toUserResponse(user)})
}
