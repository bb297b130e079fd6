package remote

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenSource 为目标节点提供 Bearer Token
type tokenSource interface {
	Token(target string) (string, error)
}

type staticToken string

func (t staticToken) Token(string) (string, error) {
	return string(t), nil
}

// jwtSigner 为每个目标节点签发短期 HS256 令牌，subject 为目标节点
type jwtSigner struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func newJWTSigner(cfg JWTConfig) *jwtSigner {
	return &jwtSigner{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.TTL,
		now:    time.Now,
	}
}

func (s *jwtSigner) Token(target string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    s.issuer,
		Subject:   target,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func newTokenSource(cfg Config) tokenSource {
	switch {
	case cfg.JWT.Secret != "":
		return newJWTSigner(cfg.JWT)
	case cfg.Token != "":
		return staticToken(cfg.Token)
	default:
		return nil
	}
}
