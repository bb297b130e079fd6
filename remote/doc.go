// Copyright (c) dtfed Authors.
// Licensed under the MIT License.

/*
包 remote 提供节点元数据目录的 HTTP/JSON 客户端，实现 datatable.RemoteClient。

# 概述

每个物理节点的网关暴露一组 domaindata 接口，本包按目标节点选择端点，
以 POST JSON 方式调用查询、批量查询、列表、删除与注册检查接口，
并统一解析 {"status": {...}, "data": ...} 响应信封。

# 核心类型

  - Config：端点、超时、鉴权（静态 Token 或 HS256 JWT）、限流与 TLS 配置。
  - HTTPClient：RemoteClient 的 HTTP 实现，每个请求携带 X-Request-ID。
  - Instrumented：RemoteClient 装饰器，记录 Prometheus 指标与 OpenTelemetry span。

# 错误语义

  - 网络错误、非 2xx 响应、响应体无法解析均作为传输错误返回 error。
  - 远端业务失败通过非零 RemoteStatus 返回，error 为 nil。
  - IsDomainRegistered 对任何失败均返回 false。
*/
package remote
