package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/taskboard/internal/middleware"
	"github.com/hitoshi/taskboard/internal/model"
)

// --- モック定義 ---

type mockUserService struct {
	getProfileFn    func(ctx context.Context, userID string) (*model.User, error)
	updateProfileFn func(ctx context.Context, userID string, name, email *string) (*model.User, error)
}

func (m *mockUserService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	if m.getProfileFn != nil {
		return m.getProfileFn(ctx, userID)
	}
	return nil, errors.New("not configured")
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID string, name, email *string) (*model.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, userID, name, email)
	}
	return nil, errors.New("not configured")
}

var _ UserServiceInterface = (*mockUserService)(nil)

// withUser は認証済みユーザーをリクエストコンテキストに注入する。
func withUser(req *http.Request, userID string) *http.Request {
	user := &model.User{ID: userID, Name: "Taro", Email: "taro@example.com"}
	return req.WithContext(middleware.ContextWithUser(req.Context(), user))
}

// --- GET /profile テスト ---

func TestGetProfile_Success(t *testing.T) {
	svc := &mockUserService{
		getProfileFn: func(ctx context.Context, userID string) (*model.User, error) {
			if userID != "user-1" {
				t.Errorf("userID = %q, want %q", userID, "user-1")
			}
			return &model.User{ID: userID, Name: "Taro", Email: "taro@example.com"}, nil
		},
	}
	h := NewUserHandler(svc)

	req := withUser(httptest.NewRequest(http.MethodGet, "/profile", nil), "user-1")
	w := httptest.NewRecorder()

	h.GetProfile(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		User struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.User.Name != "Taro" {
		t.Errorf("name = %q, want %q", resp.User.Name, "Taro")
	}
}

func TestGetProfile_NoUserInContext(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	w := httptest.NewRecorder()

	h.GetProfile(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

// --- PUT /profile テスト ---

func TestUpdateProfile_Success(t *testing.T) {
	svc := &mockUserService{
		updateProfileFn: func(ctx context.Context, userID string, name, email *string) (*model.User, error) {
			if name == nil || *name != "New Name" {
				t.Errorf("name = %v, want New Name", name)
			}
			if email != nil {
				t.Errorf("email = %v, want nil", *email)
			}
			return &model.User{ID: userID, Name: *name}, nil
		},
	}
	h := NewUserHandler(svc)

	body := `{"name":"New Name"}`
	req := withUser(httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader(body)), "user-1")
	w := httptest.NewRecorder()

	h.UpdateProfile(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestUpdateProfile_EmptyBodyRejected(t *testing.T) {
	serviceCalled := false
	svc := &mockUserService{
		updateProfileFn: func(ctx context.Context, userID string, name, email *string) (*model.User, error) {
			serviceCalled = true
			return nil, nil
		},
	}
	h := NewUserHandler(svc)

	req := withUser(httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader(`{}`)), "user-1")
	w := httptest.NewRecorder()

	h.UpdateProfile(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if serviceCalled {
		t.Error("service should not be called for empty update")
	}
}

func TestUpdateProfile_InvalidFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"short name", `{"name":"x"}`},
		{"invalid email", `{"email":"not-an-email"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewUserHandler(&mockUserService{})

			req := withUser(httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader(tt.body)), "user-1")
			w := httptest.NewRecorder()

			h.UpdateProfile(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestUpdateProfile_DuplicateEmail(t *testing.T) {
	svc := &mockUserService{
		updateProfileFn: func(ctx context.Context, userID string, name, email *string) (*model.User, error) {
			return nil, model.NewDuplicateEmailError()
		},
	}
	h := NewUserHandler(svc)

	body := `{"email":"taken@example.com"}`
	req := withUser(httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader(body)), "user-1")
	w := httptest.NewRecorder()

	h.UpdateProfile(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	resp := decodeErrorResponse(t, w)
	if resp.Code != model.ErrCodeDuplicateEmail {
		t.Errorf("code = %q, want %q", resp.Code, model.ErrCodeDuplicateEmail)
	}
}
