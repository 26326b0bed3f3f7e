// internal/auth/auth.go
package auth

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Authenticator は生トークンを検証し、subject を積んだ ctx を返す。
// HTTP middleware と gRPC interceptor の両方から使う。
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (context.Context, error)
}

// アプリ全体で使う JWT ベースの Authenticator
type jwtAuthenticator struct {
	jwt    *JWTAuthenticator
	logger *zap.Logger
}

func NewAuthenticator(logger *zap.Logger, secret string) Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &jwtAuthenticator{
		jwt:    NewJWTAuthenticator(secret),
		logger: logger,
	}
}

func (a *jwtAuthenticator) Authenticate(ctx context.Context, rawToken string) (context.Context, error) {
	sub, err := a.jwt.Validate(rawToken)
	if err != nil {
		a.logger.Info("invalid token", zap.Error(err))
		return ctx, ErrInvalidToken
	}
	return WithSubject(ctx, sub), nil
}

// BearerToken は "Bearer xxx" 形式ならプレフィックスを剥がす。
// 空ヘッダの場合は ok=false。
func BearerToken(header string) (string, bool) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return "", false
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		raw = strings.TrimSpace(raw[len("bearer "):])
	}
	return raw, raw != ""
}

// ----- subject (user id) -----

type subjectKey struct{}

func WithSubject(ctx context.Context, sub string) context.Context {
	if sub == "" {
		return ctx
	}
	return context.WithValue(ctx, subjectKey{}, sub)
}

func SubjectFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(subjectKey{}).(string)
	return s, ok
}
