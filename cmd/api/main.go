package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"Athena_Nexus/internal/config"
	"Athena_Nexus/internal/middleware"
	"Athena_Nexus/internal/pkg"
	"Athena_Nexus/internal/repository/mysql"
	"Athena_Nexus/internal/repository/redis"
	"Athena_Nexus/internal/router"
	"Athena_Nexus/internal/service"
)

// 登录每 IP 5 分钟 3 次，其余接口每 IP 15 分钟 100 次
const (
	loginLimit  = 3
	loginWindow = 5 * time.Minute
	apiLimit    = 100
	apiWindow   = 15 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := pkg.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.ExposeErrorDetail(cfg.IsDevelopment())

	tokens, err := pkg.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTExpire)
	if err != nil {
		log.WithError(err).Fatal("token service")
	}

	db, err := mysql.Open(cfg.MySQL.DSN, mysql.PoolOptions{
		MaxOpenConns: cfg.MySQL.MaxOpenConns,
		MaxIdleConns: cfg.MySQL.MaxIdleConns,
	})
	if err != nil {
		log.WithError(err).Fatal("connect mysql")
	}
	if err := mysql.Migrate(db); err != nil {
		log.WithError(err).Fatal("migrate")
	}
	log.Info("MySQL connected")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := pkg.NewMetrics()

	userRepo := mysql.NewUserRepository(db)
	weekRepo := mysql.NewWeekRepository(db)
	subRepo := mysql.NewSubmissionRepository(db)

	activity := service.NewActivityService(mysql.NewActivityRepository(db), log).
		WithFailureCounter(metrics.ActivityLogFailures)
	var producer *pkg.KafkaProducer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.ActivityTopic})
		activity.WithPublisher(producer)
		log.WithField("topic", producer.Topic()).Info("activity events enabled")
	}

	var rdb *goredis.Client
	var loginLimiter, apiLimiter pkg.Limiter
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.WithError(err).Fatal("connect redis")
		}
		loginLimiter = redis.NewRateLimitRepository(rdb, "login", loginLimit, loginWindow)
		apiLimiter = redis.NewRateLimitRepository(rdb, "api", apiLimit, apiWindow)
		log.Info("Redis connected, using shared rate limits")
	} else {
		login := pkg.NewSlidingWindow(loginLimit, loginWindow)
		login.StartCleanup(ctx)
		general := pkg.NewSlidingWindow(apiLimit, apiWindow)
		general.StartCleanup(ctx)
		loginLimiter, apiLimiter = login, general
	}

	r, err := router.New(router.Deps{
		DB:             db,
		Redis:          rdb,
		Users:          service.NewUserService(userRepo, subRepo, tokens, activity),
		Weeks:          service.NewWeekService(weekRepo, subRepo, log),
		Submission:     service.NewSubmissionService(subRepo, weekRepo, activity),
		Stats:          service.NewStatsService(userRepo, weekRepo, subRepo),
		Activity:       activity,
		LoginLimiter:   loginLimiter,
		APILimiter:     apiLimiter,
		Log:            log,
		Metrics:        metrics,
		FrontendURL:    cfg.Server.FrontendURL,
		TrustedProxies: cfg.Server.TrustedProxies,
	})
	if err != nil {
		log.WithError(err).Fatal("build router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithField("port", cfg.Server.Port).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown")
	}
	activity.Wait()
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.WithError(err).Error("close kafka writer")
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.WithError(err).Error("close redis")
		}
	}
	if err := mysql.Close(db); err != nil {
		log.WithError(err).Error("close mysql")
	}
}
