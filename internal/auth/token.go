package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenManager はHS256署名のJWTの発行と検証を行う。
// クレームはmember_idと有効期限のみ。
type TokenManager struct {
	secret []byte
	expiry time.Duration
}

// NewTokenManager はTokenManagerを生成する。
func NewTokenManager(secret string, expiry time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// tokenClaims はセッショントークンのクレームを表す。
type tokenClaims struct {
	MemberID string `json:"member_id"`
	jwt.RegisteredClaims
}

// Issue は会員IDを含むトークンを発行する。
func (m *TokenManager) Issue(memberID string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		MemberID: memberID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("トークンの署名に失敗しました: %w", err)
	}

	return signed, nil
}

// Verify はトークンを検証し、含まれる会員IDを返す。
// 署名不正・期限切れ・アルゴリズム不一致はすべてエラーとなる。
func (m *TokenManager) Verify(tokenString string) (string, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("トークンの検証に失敗しました: %w", err)
	}
	if !token.Valid || claims.MemberID == "" {
		return "", fmt.Errorf("invalid token claims")
	}

	return claims.MemberID, nil
}
