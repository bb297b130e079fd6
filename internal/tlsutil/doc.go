// Package tlsutil 提供集中式 TLS 配置，
// 为节点网关 HTTP 客户端与 Redis 连接提供安全加固的 TLS 设置（TLS 1.2+，仅 AEAD 密码套件），
// 并支持基于 CA 与客户端证书的双向认证。
package tlsutil
