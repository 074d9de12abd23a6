package auth

import (
	"context"
	"crypto/subtle"

	appauth "ddd-skeleton/application/auth"
	"ddd-skeleton/domain/shared"
)

// StaticTokenAuthenticator 从配置读取的静态 token 表，token -> 负责人邮箱
type StaticTokenAuthenticator struct {
	tokens map[string]string
}

func NewStaticTokenAuthenticator(tokens map[string]string) *StaticTokenAuthenticator {
	copied := make(map[string]string, len(tokens))
	for token, email := range tokens {
		copied[token] = email
	}
	return &StaticTokenAuthenticator{tokens: copied}
}

// Authenticate 逐个常量时间比较，避免通过响应时间猜测 token
func (a *StaticTokenAuthenticator) Authenticate(ctx context.Context, token string) (appauth.Principal, error) {
	if err := ctx.Err(); err != nil {
		return appauth.Principal{}, err
	}

	for known, email := range a.tokens {
		if subtle.ConstantTimeCompare([]byte(known), []byte(token)) == 1 {
			return appauth.Principal{Email: email}, nil
		}
	}
	return appauth.Principal{}, shared.NewUnauthorizedError("invalid token")
}

var _ appauth.Authenticator = (*StaticTokenAuthenticator)(nil)
