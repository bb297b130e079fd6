// Copyright (c) dtfed Authors.
// Licensed under the MIT License.

/*
包 config 提供 dtfed 的配置加载与校验。

# 概述

配置按 默认值 → YAML 文件 → DTFED_* 环境变量 的顺序叠加。环境变量键名由
结构体 env tag 逐级拼接，例如 DTFED_REMOTE_TLS_CA_FILE。map 类型字段
（remote.endpoints、routes.static）只能通过 YAML 配置。

# 核心类型

  - Config：完整配置，包含 Node、Remote、Routes、Database、Redis、
    Log、Telemetry、Metrics 各节。
  - Loader：Builder 模式的加载器，支持自定义前缀与附加校验器。
*/
package config
