package migration

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/BaSui01/dtfed/config"
)

// NewMigratorFromDatabaseConfig 根据数据库配置创建迁移器
func NewMigratorFromDatabaseConfig(dbCfg config.DatabaseConfig, logger *zap.Logger) (*DefaultMigrator, error) {
	dbType, err := ParseDatabaseType(dbCfg.Driver)
	if err != nil {
		return nil, fmt.Errorf("invalid database type: %w", err)
	}

	return NewMigrator(&Config{
		DatabaseType: dbType,
		DatabaseURL:  URLFromConfig(dbType, dbCfg),
		TableName:    DefaultTableName,
	}, logger)
}

// URLFromConfig 显式配置的 DSN 优先，否则按字段拼接
func URLFromConfig(dbType DatabaseType, dbCfg config.DatabaseConfig) string {
	if dbCfg.DSN != "" {
		return dbCfg.DSN
	}
	switch dbType {
	case DatabaseTypeSQLite:
		// SQLite 的 Name 为文件路径
		return BuildDatabaseURL(dbType, "", 0, dbCfg.Name, "", "", "")
	default:
		return BuildDatabaseURL(dbType, dbCfg.Host, dbCfg.Port, dbCfg.Name, dbCfg.User, dbCfg.Password, dbCfg.SSLMode)
	}
}

// NewMigratorFromURL 根据类型与连接串创建迁移器
func NewMigratorFromURL(dbType, dbURL string, logger *zap.Logger) (*DefaultMigrator, error) {
	dt, err := ParseDatabaseType(dbType)
	if err != nil {
		return nil, err
	}
	return NewMigrator(&Config{
		DatabaseType: dt,
		DatabaseURL:  dbURL,
		TableName:    DefaultTableName,
	}, logger)
}
