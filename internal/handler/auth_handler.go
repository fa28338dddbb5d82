package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/taskboard/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Signup は新規ユーザーを登録し、ベアラートークンを発行する。
	Signup(ctx context.Context, name, email, password string) (*model.User, string, error)
	// Login は認証情報を検証し、ベアラートークンを発行する。
	Login(ctx context.Context, email, password string) (*model.User, string, error)
}

// AuthHandler は認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// signupRequest はサインアップリクエストのボディ。
type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse は認証成功時のレスポンス。
type authResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
}

// Signup は新規ユーザーを登録する。
// POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequestBody(w)
		return
	}

	var fields []model.FieldError
	if fe := validateName(req.Name); fe != nil {
		fields = append(fields, *fe)
	}
	if fe := validateEmail(req.Email); fe != nil {
		fields = append(fields, *fe)
	}
	if fe := validatePassword(req.Password); fe != nil {
		fields = append(fields, *fe)
	}
	if len(fields) > 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError(fields))
		return
	}

	user, token, err := h.service.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Message: "ユーザー登録が完了しました。",
		Token:   token,
		User:    toUserResponse(user),
	})
}

// Login は認証情報を検証してトークンを発行する。
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequestBody(w)
		return
	}

	var fields []model.FieldError
	if fe := validateEmail(req.Email); fe != nil {
		fields = append(fields, *fe)
	}
	if req.Password == "" {
		fields = append(fields, model.FieldError{
			Field:   "password",
			Message: "パスワードを入力してください。",
		})
	}
	if len(fields) > 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError(fields))
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Message: "ログインしました。",
		Token:   token,
		User:    toUserResponse(user),
	})
}
