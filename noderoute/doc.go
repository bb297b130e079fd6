// Copyright (c) dtfed Authors.
// Licensed under the MIT License.

/*
包 noderoute 提供逻辑节点到物理节点的目标解析实现，供自治联邦模式下的
datatable.Manager 使用。

# 概述

自治联邦中，同一项目的多个实例彼此可见：节点 a1、a2、b1、b2 共享项目，
路由 a1<->b1、a2<->b2 存在时，从实例 a 访问 b1、b2 需分别经由 a1、a2。
本包将这类路由表抽象为 TargetResolver 的实现。

# 核心类型

  - StaticResolver：基于配置文件的静态路由表，未配置的节点解析为自身，
    Strict 模式下返回 ErrRouteNotFound。
  - RedisStore：基于 Redis 哈希的动态路由表，支持按 hint 划分命名空间，
    命名空间缺失时回退到默认路由表，再回退到 fallback 解析器。

# 主要能力

  - 路由解析：ResolveTargetNode 实现 datatable.TargetResolver。
  - 路由维护：RedisStore 提供 SetRoute、DeleteRoute、Routes。
  - 可观测性：解析结果按 hit/identity/error 记录到 Prometheus。
*/
package noderoute
