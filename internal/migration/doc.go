// Copyright (c) dtfed Authors.
// Licensed under the MIT License.

/*
包 migration 管理特征表存储的 Schema 迁移，支持 PostgreSQL、MySQL
与 SQLite，基于 golang-migrate 实现。

# 概述

各方言的 SQL 迁移文件通过 embed.FS 内嵌在二进制中，迁移器按
DatabaseType 选择目录并交给 golang-migrate 执行。SQLite 使用纯 Go
驱动打开连接，无需 CGO。

# 核心类型

  - Migrator / DefaultMigrator：Up、Down、Steps、Force、Version、
    Status、Info、Close。
  - Config：数据库类型、连接串、版本表名与锁超时。
  - CLI：dtfed migrate 子命令的格式化输出。

# 辅助函数

  - ParseDatabaseType：解析 postgres/pg、mysql/mariadb、sqlite/sqlite3。
  - BuildDatabaseURL / URLFromConfig：按方言拼接连接串。
  - NewMigratorFromDatabaseConfig：从 config.DatabaseConfig 创建迁移器。
*/
package migration
