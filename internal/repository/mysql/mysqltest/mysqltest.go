// Package mysqltest 给测试提供迁移好的内存 sqlite 库，表结构与 mysql 一致
package mysqltest

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"Athena_Nexus/internal/repository/mysql"
)

func New(t testing.TB) *gorm.DB {
	t.Helper()
	cfg := mysql.Config()
	cfg.Logger = logger.Discard
	db, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	// 每个连接都是一个独立的内存库，只保留一个连接
	sqlDB.SetMaxOpenConns(1)
	if err := mysql.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
