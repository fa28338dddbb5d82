package auth

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/taskboard/internal/model"
	"github.com/hitoshi/taskboard/internal/repository"
)

// --- モック定義 ---

type mockUserRepo struct {
	findByIDFn      func(ctx context.Context, id string) (*model.User, error)
	findByEmailFn   func(ctx context.Context, email string) (*model.User, error)
	createFn        func(ctx context.Context, user *model.User) error
	updateProfileFn func(ctx context.Context, id string, name, email *string) (*model.User, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id string, name, email *string) (*model.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, id, name, email)
	}
	return nil, nil
}

type mockIssuer struct {
	issueFn func(userID string) (string, error)
}

func (m *mockIssuer) Issue(userID string) (string, error) {
	if m.issueFn != nil {
		return m.issueFn(userID)
	}
	return "test-token", nil
}

// passthroughSanitizer は入力をそのまま返すサニタイザ。
type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(input string) string { return input }

// --- compile-time interface checks ---
var _ repository.UserRepository = (*mockUserRepo)(nil)
var _ TokenIssuer = (*mockIssuer)(nil)

func newTestService(repo *mockUserRepo) *Service {
	return NewService(repo, NewPasswordHasher(bcrypt.MinCost), &mockIssuer{}, passthroughSanitizer{})
}

// --- Signup テスト ---

func TestSignup_Success(t *testing.T) {
	var created *model.User
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}
	svc := newTestService(repo)

	user, token, err := svc.Signup(context.Background(), "Taro Yamada", "  Taro@Example.COM ", "secret123")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	if token != "test-token" {
		t.Errorf("token = %q, want %q", token, "test-token")
	}
	if user.ID == "" {
		t.Error("user.ID is empty, want generated UUID")
	}
	if user.Email != "taro@example.com" {
		t.Errorf("email = %q, want normalized %q", user.Email, "taro@example.com")
	}
	if user.PasswordHash == "secret123" {
		t.Error("password stored as plaintext")
	}
	if created == nil {
		t.Fatal("expected Create to be called")
	}
	if created.ID != user.ID {
		t.Errorf("created.ID = %q, want %q", created.ID, user.ID)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			return repository.ErrDuplicateEmail
		},
	}
	svc := newTestService(repo)

	_, _, err := svc.Signup(context.Background(), "Taro", "taro@example.com", "secret123")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Signup() error = %v, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeDuplicateEmail {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeDuplicateEmail)
	}
}

func TestSignup_RepositoryError(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			return errors.New("connection refused")
		},
	}
	svc := newTestService(repo)

	_, _, err := svc.Signup(context.Background(), "Taro", "taro@example.com", "secret123")
	if err == nil {
		t.Fatal("Signup() error = nil, want error")
	}

	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		t.Errorf("infrastructure error should not be an APIError, got code %q", apiErr.Code)
	}
}

// --- Login テスト ---

func TestLogin_Success(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("secret123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			if email != "taro@example.com" {
				t.Errorf("FindByEmail email = %q, want normalized %q", email, "taro@example.com")
			}
			return &model.User{ID: "user-1", Email: email, PasswordHash: hash}, nil
		},
	}
	svc := NewService(repo, hasher, &mockIssuer{}, passthroughSanitizer{})

	user, token, err := svc.Login(context.Background(), " Taro@Example.COM ", "secret123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("user.ID = %q, want %q", user.ID, "user-1")
	}
	if token == "" {
		t.Error("token is empty")
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return nil, nil
		},
	}
	svc := newTestService(repo)

	_, _, err := svc.Login(context.Background(), "unknown@example.com", "secret123")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Login() error = %v, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeUnauthorized {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeUnauthorized)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("secret123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user-1", Email: email, PasswordHash: hash}, nil
		},
	}
	svc := NewService(repo, hasher, &mockIssuer{}, passthroughSanitizer{})

	_, _, err = svc.Login(context.Background(), "taro@example.com", "wrong-password")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Login() error = %v, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeUnauthorized {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeUnauthorized)
	}
}

// メールアドレス誤りとパスワード誤りで同一のエラーを返すこと
// （アカウント列挙の防止）
func TestLogin_IdenticalErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("secret123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	unknownRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return nil, nil
		},
	}
	knownRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user-1", Email: email, PasswordHash: hash}, nil
		},
	}

	_, _, errUnknown := NewService(unknownRepo, hasher, &mockIssuer{}, passthroughSanitizer{}).
		Login(context.Background(), "unknown@example.com", "secret123")
	_, _, errWrong := NewService(knownRepo, hasher, &mockIssuer{}, passthroughSanitizer{}).
		Login(context.Background(), "taro@example.com", "wrong-password")

	if errUnknown == nil || errWrong == nil {
		t.Fatal("expected both logins to fail")
	}
	if errUnknown.Error() != errWrong.Error() {
		t.Errorf("error messages differ: %q vs %q", errUnknown.Error(), errWrong.Error())
	}
}

// --- NormalizeEmail テスト ---

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Taro@Example.COM", "taro@example.com"},
		{"  taro@example.com  ", "taro@example.com"},
		{"taro@example.com", "taro@example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.input); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
