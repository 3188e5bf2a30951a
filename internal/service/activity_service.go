package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"Athena_Nexus/internal/model"
	"Athena_Nexus/internal/pkg"
	"Athena_Nexus/internal/repository/mysql"
)

const (
	DefaultActivityLimit = 100
	MaxActivityLimit     = 1000
	publishTimeout       = 5 * time.Second
)

// EventPublisher 操作日志的外部投递通道（kafka）
type EventPublisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// ActivityEvent 投递到消息队列的一条操作日志
type ActivityEvent struct {
	ID        string       `json:"id"`
	UserID    *uint64      `json:"user_id,omitempty"`
	Action    model.Action `json:"action"`
	Detail    string       `json:"detail"`
	Timestamp time.Time    `json:"timestamp"`
}

type ActivityService struct {
	repo     *mysql.ActivityRepository
	log      logrus.FieldLogger
	pub      EventPublisher
	failures prometheus.Counter
	now      func() time.Time
	wg       sync.WaitGroup
}

func NewActivityService(repo *mysql.ActivityRepository, log logrus.FieldLogger) *ActivityService {
	return &ActivityService{repo: repo, log: log, now: time.Now}
}

// WithPublisher 配置后每条日志额外异步投递一份
func (s *ActivityService) WithPublisher(p EventPublisher) *ActivityService {
	s.pub = p
	return s
}

func (s *ActivityService) WithFailureCounter(c prometheus.Counter) *ActivityService {
	s.failures = c
	return s
}

// Record 写日志失败只记录，不影响主流程
func (s *ActivityService) Record(ctx context.Context, userID *uint64, action model.Action, detail string) {
	entry := &model.ActivityLog{
		UserID:    userID,
		Action:    action,
		Detail:    detail,
		Timestamp: s.now(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.fail(err, "write activity log", action)
	}
	if s.pub != nil {
		s.publish(entry)
	}
}

func (s *ActivityService) publish(entry *model.ActivityLog) {
	ev := ActivityEvent{
		ID:        uuid.NewString(),
		UserID:    entry.UserID,
		Action:    entry.Action,
		Detail:    entry.Detail,
		Timestamp: entry.Timestamp.UTC(),
	}
	key := "anonymous"
	if entry.UserID != nil {
		key = pkg.MakeKeyFromID(*entry.UserID)
	}
	value, err := json.Marshal(ev)
	if err != nil {
		s.fail(err, "encode activity event", entry.Action)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.pub.Publish(ctx, key, value); err != nil {
			s.fail(err, "publish activity event", entry.Action)
		}
	}()
}

func (s *ActivityService) fail(err error, what string, action model.Action) {
	if s.failures != nil {
		s.failures.Inc()
	}
	s.log.WithError(err).WithField("action", action).Error(what)
}

// Wait 等待尚未完成的异步投递，退出前调用
func (s *ActivityService) Wait() {
	s.wg.Wait()
}

// List 时间倒序；limit<=0 取默认值，超过上限按上限截断
func (s *ActivityService) List(ctx context.Context, action string, limit int) ([]model.ActivityLog, error) {
	a := model.Action(action)
	if a != "" && !a.Valid() {
		return nil, pkg.ErrValidation.WithMsg("Invalid action")
	}
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		limit = MaxActivityLimit
	}
	list, err := s.repo.List(ctx, a, limit)
	if err != nil {
		return nil, err
	}
	return list, nil
}
