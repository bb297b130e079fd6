// Copyright (c) dtfed Authors.
// Licensed under the MIT License.

/*
包 cache 提供基于 Redis 的存储访问能力，为节点路由表提供哈希读写、
连接池与健康检查。

# 概述

本包封装 go-redis 客户端，Manager 负责连接生命周期管理，包括初始化、
健康检查与优雅关闭。支持可选 TLS 加密连接，TLS 配置复用 tlsutil。

# 核心类型

  - Manager：Redis 管理器，提供 HGet/HSet/HDel/HGetAll 哈希操作。
  - Config：连接配置，包含地址、密码、连接池大小、TLS 与健康检查间隔。

# 主要能力

  - 哈希读写：路由表以哈希存储，字段为逻辑节点，值为物理节点。
  - 健康检查：后台定时 Ping 检测，异常时通过 zap 日志告警。
  - 优雅关闭：Close 停止健康检查并释放底层连接。
  - 错误语义：提供 ErrCacheMiss、ErrClosed 哨兵错误与 IsCacheMiss 判断函数。
*/
package cache
