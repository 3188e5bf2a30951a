package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"Athena_Nexus/internal/config"
	"Athena_Nexus/internal/pkg"
	"Athena_Nexus/internal/repository/mysql"
	"Athena_Nexus/internal/service"
)

// 初始化管理员账号，已存在时什么都不做
func main() {
	username := flag.String("username", "admin", "admin username")
	password := flag.String("password", "Admin123!", "admin password")
	flag.Parse()

	if err := config.LoadEnvFile(); err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	cfg := config.FromEnv()
	log := pkg.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	if err := run(log, cfg, *username, *password); err != nil {
		log.WithError(err).Fatal("create admin")
	}
}

// run 返回前关闭连接池，main 里的 Fatal 不会跳过清理
func run(log logrus.FieldLogger, cfg *config.Config, username, password string) error {
	db, err := mysql.Open(cfg.MySQL.DSN, mysql.PoolOptions{MaxOpenConns: 2, MaxIdleConns: 1})
	if err != nil {
		return fmt.Errorf("connect mysql: %w", err)
	}
	defer func() {
		if err := mysql.Close(db); err != nil {
			log.WithError(err).Error("close mysql")
		}
	}()
	if err := mysql.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	users := service.NewUserService(
		mysql.NewUserRepository(db),
		mysql.NewSubmissionRepository(db),
		nil,
		service.NewActivityService(mysql.NewActivityRepository(db), log),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	user, created, err := users.EnsureAdmin(ctx, username, password, service.Profile{
		DisplayName: "Administrator",
		Email:       "admin@example.com",
	})
	if err != nil {
		return err
	}
	fields := logrus.Fields{"id": user.ID, "username": user.Username}
	if !created {
		log.WithFields(fields).Info("Admin user already exists")
		return nil
	}
	log.WithFields(fields).Info("Admin user created, change the password after first login")
	return nil
}
