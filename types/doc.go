// Copyright (c) dtfed Authors.
// Licensed under the MIT License.

/*
Package types 提供 dtfed 的全局共享类型定义。

# 概述

types 是最底层的公共包，不依赖任何内部包，为 datatable、remote、
featuretable、noderoute 等上层模块提供统一的类型契约，以避免循环依赖。

# 核心类型

  - NodeDatatableID：(节点, 数据表) 身份对，可作为 map 键
  - Datatable：归一化后的数据表描述（schema、数据源、状态、存储位置）
  - DomainData：远端节点目录返回的原始记录
  - RemoteStatus：远端调用状态，Code == 0 表示成功
  - FeatureTable：本地登记的 HTTP 特征表
  - TopologyMode：部署拓扑（CENTRALIZED / AUTONOMOUS）
  - Error / ErrorCode：结构化错误体系，保留远端 code、message 与原始请求

# 主要能力

  - 拓扑解析：ParseTopologyMode 兼容 CENTER / AUTONOMY 等别名
  - 错误工具链：GetErrorCode / IsNotFound / IsErrorCode
*/
package types
