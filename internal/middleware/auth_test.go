package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/taskboard/internal/model"
)

// --- モック定義 ---

type mockVerifier struct {
	verifyFn func(tokenString string) (string, error)
}

func (m *mockVerifier) Verify(tokenString string) (string, error) {
	if m.verifyFn != nil {
		return m.verifyFn(tokenString)
	}
	return "", errors.New("not configured")
}

type mockUserFinder struct {
	findByIDFn func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserFinder) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

var _ TokenVerifier = (*mockVerifier)(nil)
var _ UserFinder = (*mockUserFinder)(nil)

// 認証成功時に次のハンドラーへ到達するかを記録するテストハンドラー
func recordingHandler(called *bool, gotUser **model.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if user, err := UserFromContext(r.Context()); err == nil {
			*gotUser = user
		}
		w.WriteHeader(http.StatusOK)
	})
}

// --- テスト ---

func TestAuthMiddleware_Success(t *testing.T) {
	verifier := &mockVerifier{
		verifyFn: func(tokenString string) (string, error) {
			if tokenString != "valid-token" {
				t.Errorf("token = %q, want %q", tokenString, "valid-token")
			}
			return "user-1", nil
		},
	}
	finder := &mockUserFinder{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Name: "Taro"}, nil
		},
	}

	called := false
	var gotUser *model.User
	mw := NewAuthMiddleware(verifier, finder)
	handler := mw(recordingHandler(&called, &gotUser))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !called {
		t.Fatal("expected next handler to be called")
	}
	if gotUser == nil || gotUser.ID != "user-1" {
		t.Errorf("context user = %v, want user-1", gotUser)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	called := false
	var gotUser *model.User
	mw := NewAuthMiddleware(&mockVerifier{}, &mockUserFinder{})
	handler := mw(recordingHandler(&called, &gotUser))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if called {
		t.Error("next handler should not be called")
	}
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	tests := []string{
		"valid-token",        // Bearerなし
		"Basic dXNlcjpwYXNz", // 別スキーム
		"Bearer ",            // トークンなし
	}

	for _, header := range tests {
		called := false
		var gotUser *model.User
		mw := NewAuthMiddleware(&mockVerifier{}, &mockUserFinder{})
		handler := mw(recordingHandler(&called, &gotUser))

		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want %d", header, w.Code, http.StatusUnauthorized)
		}
		if called {
			t.Errorf("header %q: next handler should not be called", header)
		}
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	verifier := &mockVerifier{
		verifyFn: func(tokenString string) (string, error) {
			return "", errors.New("signature mismatch")
		},
	}

	called := false
	var gotUser *model.User
	mw := NewAuthMiddleware(verifier, &mockUserFinder{})
	handler := mw(recordingHandler(&called, &gotUser))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer tampered-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if called {
		t.Error("next handler should not be called")
	}
}

// 有効なトークンでもユーザーが存在しない場合は401になること
// （削除済みユーザーのトークン）
func TestAuthMiddleware_UserNotFound(t *testing.T) {
	verifier := &mockVerifier{
		verifyFn: func(tokenString string) (string, error) {
			return "deleted-user", nil
		},
	}
	finder := &mockUserFinder{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return nil, nil
		},
	}

	called := false
	var gotUser *model.User
	mw := NewAuthMiddleware(verifier, finder)
	handler := mw(recordingHandler(&called, &gotUser))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if called {
		t.Error("next handler should not be called")
	}
}

// --- extractBearerToken テスト ---

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		wantOK bool
	}{
		{"Bearer abc123", "abc123", true},
		{"bearer abc123", "abc123", true}, // スキームは大文字小文字を区別しない
		{"", "", false},
		{"abc123", "", false},
		{"Bearer", "", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}

		got, ok := extractBearerToken(req)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("extractBearerToken(%q) = (%q, %v), want (%q, %v)", tt.header, got, ok, tt.want, tt.wantOK)
		}
	}
}

// --- コンテキストヘルパーテスト ---

func TestUserFromContext_NotSet(t *testing.T) {
	if _, err := UserFromContext(context.Background()); err == nil {
		t.Error("UserFromContext() error = nil, want error for missing user")
	}
}

func TestContextWithUser_RoundTrip(t *testing.T) {
	user := &model.User{ID: "user-1"}
	ctx := ContextWithUser(context.Background(), user)

	got, err := UserFromContext(ctx)
	if err != nil {
		t.Fatalf("UserFromContext() error = %v", err)
	}
	if got.ID != "user-1" {
		t.Errorf("ID = %q, want %q", got.ID, "user-1")
	}

	id, err := UserIDFromContext(ctx)
	if err != nil {
		t.Fatalf("UserIDFromContext() error = %v", err)
	}
	if id != "user-1" {
		t.Errorf("UserIDFromContext() = %q, want %q", id, "user-1")
	}
}
