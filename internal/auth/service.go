// Package auth はメールアドレスとパスワードによる認証とトークン発行を提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/taskboard/internal/model"
	"github.com/hitoshi/taskboard/internal/repository"
	"github.com/hitoshi/taskboard/internal/security"
)

// TokenIssuer はトークン発行のインターフェース。
// token.Issuerの部分集合として定義する。
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// dummyHash は存在しないユーザーへのログイン試行時に照合する固定ハッシュ。
// 応答時間の差からメールアドレスの登録有無を推測されないようにする。
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo  repository.UserRepository
	hasher    *PasswordHasher
	issuer    TokenIssuer
	sanitizer security.InputSanitizerService
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	hasher *PasswordHasher,
	issuer TokenIssuer,
	sanitizer security.InputSanitizerService,
) *Service {
	return &Service{
		userRepo:  userRepo,
		hasher:    hasher,
		issuer:    issuer,
		sanitizer: sanitizer,
	}
}

// Signup は新規ユーザーを登録し、ベアラートークンを発行する。
// メールアドレスが登録済みの場合はDUPLICATE_EMAILエラーを返す。
// 平文パスワードはハッシュ化のみに使用し、保存・ログ出力しない。
func (s *Service) Signup(ctx context.Context, name, email, password string) (*model.User, string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         s.sanitizer.Sanitize(name),
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", model.NewDuplicateEmailError()
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	tokenString, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("new user registered",
		slog.String("user_id", user.ID),
	)

	return user, tokenString, nil
}

// Login はメールアドレスとパスワードを検証し、ベアラートークンを発行する。
// メールアドレス誤りとパスワード誤りは同一のエラーとして返す
// （アカウント列挙の防止）。
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if user == nil {
		// 未登録メールでもハッシュ照合を実行し、応答時間を揃える
		s.hasher.Verify(password, dummyHash)
		return nil, "", model.NewUnauthorizedError()
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", model.NewUnauthorizedError()
	}

	tokenString, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
	)

	return user, tokenString, nil
}

// NormalizeEmail はメールアドレスを正規化する（トリムと小文字化）。
// 保存・検索の双方で同じ正規化を通すことで一意性判定を安定させる。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
