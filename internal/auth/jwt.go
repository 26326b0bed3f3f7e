package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// 認証エラーをまとめる（Interceptor / middleware から判定しやすくするため）
	ErrInvalidToken = errors.New("invalid token")
)

type JWTAuthenticator struct {
	secret []byte
}

// コンストラクタ
func NewJWTAuthenticator(secret string) *JWTAuthenticator {
	return &JWTAuthenticator{
		secret: []byte(secret),
	}
}

// GenerateToken は cmd/jwt_gen 用のショートカット。
func GenerateToken(secret, sub string, ttl time.Duration) (string, error) {
	return NewJWTAuthenticator(secret).GenerateToken(sub, ttl)
}

// 開発用: トークン発行
func (a *JWTAuthenticator) GenerateToken(sub string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// トークン検証。成功したら subject を返す。
func (a *JWTAuthenticator) Validate(rawToken string) (string, error) {
	var claims jwt.RegisteredClaims

	parsed, err := jwt.ParseWithClaims(rawToken, &claims, func(token *jwt.Token) (interface{}, error) {
		// HS256 以外は拒否
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
