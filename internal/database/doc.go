// Copyright (c) dtfed Authors.
// Licensed under the MIT License.

/*
包 database 提供特征表存储所用的 GORM 连接打开与连接池管理。

# 概述

Open 按驱动名（postgres / mysql / sqlite）选择 GORM 方言并建立连接，
PoolManager 在其上统一配置 database/sql 连接池，并由后台健康检查
定时探活、把连接数上报到 Prometheus。

# 核心类型

  - PoolManager：连接池管理器，持有 GORM DB 与底层 sql.DB，
    提供 DB()、Ping()、Stats()、Close() 等生命周期方法。
  - PoolConfig：连接池配置，包含最大空闲连接数、最大打开连接数、
    连接最大生命周期、空闲超时与健康检查间隔。

# 主要能力

  - 方言选择：Dialector 将配置中的驱动名映射为 GORM 方言。
  - 连接池调优：通过 MaxIdleConns/MaxOpenConns/ConnMaxLifetime 控制。
  - 健康检查：后台定时 PingContext 探活，上报 db_connections_open/idle。
*/
package database
