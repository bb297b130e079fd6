// Copyright (c) dtfed Authors.
// Licensed under the MIT License.

/*
包 metrics 提供基于 Prometheus 的指标采集能力，覆盖远端目录调用、
目标节点解析、缓存与数据库四个维度。

# 概述

本包通过 Collector 统一注册和记录 Prometheus 指标。指标通过
promauto.With 注册到调用方传入的 Registerer，测试中可使用独立的
Registry 互不干扰。所有指标按 namespace 隔离。

# 核心类型

  - Collector：指标收集器，持有 Counter、Histogram、Gauge 等
    Prometheus 向量指标，按业务域分组管理。

# 主要能力

  - 远端调用指标：请求总数、请求耗时与批量大小，
    按 operation/target/status 分组，status 取 ok、remote_error、transport_error。
  - 解析指标：逻辑节点到物理节点的解析次数，按 source/result 分组，result 取 hit、fallback、identity、error。
  - 缓存指标：命中与未命中计数，按 cache_type 分组。
  - 数据库指标：活跃/空闲连接数 Gauge、查询耗时 Histogram，
    按 database/operation 分组。
*/
package metrics
