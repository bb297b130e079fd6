// Copyright (c) dtfed Authors.
// Licensed under the MIT License.

/*
包 featuretable 提供本地 HTTP 特征表的持久化存储，基于 GORM 实现
datatable.FeatureTableRepository。

# 概述

特征表只在本地登记，不经过远端目录。列表查询时由 datatable.Manager
追加到远端结果之后，并统一挂载到默认 HTTP 数据源。

# 核心类型

  - FeatureTableDO：数据库模型，列定义以 JSON 序列化存储。
  - GormRepository：仓库实现，支持 PostgreSQL、MySQL 与 SQLite。

# 主要能力

  - 按节点查询：FindByNodeID 按登记顺序返回。
  - 单表读取：FindByID，不存在时返回 ErrNotFound。
  - 登记与更新：Save 以 (node_id, feature_table_id) 为键执行 upsert。
  - 删除：Delete。
*/
package featuretable
