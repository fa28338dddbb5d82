// Package token はステートレスなベアラートークンの発行と検証を提供する。
// サーバー側セッションテーブルを持たない設計のため、期限前の失効はできない
// （明示的な非ゴール）。
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken は署名不一致・改ざん・期限切れのトークンに対して返される。
	ErrInvalidToken = errors.New("invalid token")
	// ErrMalformedToken はJWTとして解析できないトークンに対して返される。
	ErrMalformedToken = errors.New("malformed token")
)

// IssuerConfig はトークン発行の設定。
// シークレットはconfig.Configから注入し、グローバル変数としては参照しない。
type IssuerConfig struct {
	Secret string
	TTL    time.Duration // トークン有効期間（デフォルト7日）
}

// Issuer はHS256署名付きJWTの発行と検証を行う。
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer はIssuerを生成する。
func NewIssuer(config IssuerConfig) *Issuer {
	return &Issuer{
		secret: []byte(config.Secret),
		ttl:    config.TTL,
	}
}

// Issue はユーザーIDを埋め込んだ署名付きトークンを発行する。
// 有効期限は発行時刻からTTL後に設定される。
func (i *Issuer) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify はトークンの署名と有効期限を検証し、埋め込まれたユーザーIDを返す。
// 解析不能な場合はErrMalformedToken、署名不一致・期限切れの場合は
// ErrInvalidTokenを返す。
func (i *Issuer) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return "", ErrMalformedToken
		}
		return "", ErrInvalidToken
	}

	if !t.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
