// Copyright (c) dtfed Authors.
// Licensed under the MIT License.

/*
Package main 提供 dtfed 命令行入口。

# 概述

cmd/dtfed 按配置装配数据表解析引擎（datatable.Manager）并以子命令形式
暴露其全部操作，同时提供路由表、特征表与数据库迁移的维护命令。
结果以 JSON 输出到标准输出，日志输出到 log.output_paths。

# 主要能力

  - 解析：get、batch、group、list、delete
  - 路由表：route set / delete / list（redis 后端）
  - 特征表：feature add / delete / list
  - 迁移：migrate up / down / steps / force / version / status
  - 指标：metrics.push_url 非空时在命令结束后推送到 Pushgateway
  - 构建注入：Version、BuildTime、GitCommit 通过 ldflags 设置
*/
package main
