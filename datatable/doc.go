// Copyright (c) dtfed Authors.
// Licensed under the MIT License.

/*
Package datatable 实现跨节点数据表元数据解析引擎。

# 概述

datatable 负责把 (节点, 数据表) 标识解析为完整的元数据描述。调用方给出
逻辑节点引用，引擎按部署拓扑决定实际访问的物理节点，选择单点查询、
批量查询或按物理节点分组的批量查询，再把远端目录与本地特征表的结果
合并为统一的 types.Datatable 集合，最后按状态、名称、数据源类型过滤。

# 核心类型

  - Manager：解析引擎，提供 FindByID / FindByIDs / FindByIDGroup /
    FindByIDsFromProjectConfig / FindByNodeID / FindAllByNodeID /
    FindByNodeVendor / Delete。
  - Topology：拓扑策略，封装 CENTRALIZED 与 AUTONOMOUS 两种寻址方式，
    Rewrite 返回改写后的副本，从不修改调用方的切片。
  - ListFilter：过滤管道，依次执行 FilterByStatus、FilterByName、
    FilterBySourceTypes，各阶段也可单独组合使用。
  - RemoteClient / TargetResolver / FeatureTableRepository：外部协作者接口。

# 错误语义

远端返回非零状态码即视为失败（QUERY_DATATABLE_FAILED /
DELETE_DATATABLE_FAILED），错误中保留远端 code、message 与原始请求。
批量查询中部分 id 缺失不算错误。列表查询遇到未注册节点时返回空结果，
不发起远端列表调用。本层不做重试、不做缓存。
*/
package datatable
