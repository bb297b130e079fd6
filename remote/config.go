package remote

import (
	"errors"
	"fmt"
	"time"

	"github.com/BaSui01/dtfed/internal/tlsutil"
)

// Config 节点目录客户端配置
type Config struct {
	// 默认网关地址，未在 Endpoints 中配置的节点使用该地址
	Endpoint string `yaml:"endpoint" env:"ENDPOINT"`

	// 按物理节点配置的网关地址
	Endpoints map[string]string `yaml:"endpoints"`

	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`

	// 静态 Bearer Token，与 JWT 二选一
	Token string `yaml:"token" env:"TOKEN"`

	JWT JWTConfig `yaml:"jwt" env:"JWT"`

	// 每秒请求数，0 表示不限流
	RateLimit float64 `yaml:"rate_limit" env:"RATE_LIMIT"`
	RateBurst int     `yaml:"rate_burst" env:"RATE_BURST"`

	TLS tlsutil.ClientOptions `yaml:"tls" env:"TLS"`
}

// JWTConfig 节点间 HS256 令牌签发配置
type JWTConfig struct {
	Secret string        `yaml:"secret" env:"SECRET"`
	Issuer string        `yaml:"issuer" env:"ISSUER"`
	TTL    time.Duration `yaml:"ttl" env:"TTL"`
}

// DefaultConfig 返回默认客户端配置
func DefaultConfig() Config {
	return Config{
		Endpoint:  "http://localhost:8082",
		Endpoints: map[string]string{},
		Timeout:   10 * time.Second,
		JWT: JWTConfig{
			Issuer: "dtfed",
			TTL:    5 * time.Minute,
		},
		RateBurst: 10,
	}
}

// Validate 校验客户端配置
func (c Config) Validate() error {
	var errs []error
	if c.Endpoint == "" && len(c.Endpoints) == 0 {
		errs = append(errs, errors.New("endpoint or endpoints must be configured"))
	}
	for node, ep := range c.Endpoints {
		if ep == "" {
			errs = append(errs, fmt.Errorf("endpoint of node %s is empty", node))
		}
	}
	if c.Timeout < 0 {
		errs = append(errs, errors.New("timeout cannot be negative"))
	}
	if c.Token != "" && c.JWT.Secret != "" {
		errs = append(errs, errors.New("token and jwt.secret are mutually exclusive"))
	}
	if c.JWT.Secret != "" && c.JWT.TTL <= 0 {
		errs = append(errs, errors.New("jwt.ttl must be positive"))
	}
	if c.RateLimit < 0 {
		errs = append(errs, errors.New("rate_limit cannot be negative"))
	}
	return errors.Join(errs...)
}

// endpointFor 返回目标节点的网关地址
func (c Config) endpointFor(target string) (string, error) {
	if ep, ok := c.Endpoints[target]; ok {
		return ep, nil
	}
	if c.Endpoint == "" {
		return "", fmt.Errorf("no endpoint configured for node %s", target)
	}
	return c.Endpoint, nil
}
