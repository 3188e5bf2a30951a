package pkg

import (
	"context"
	"sync"
	"time"
)

// Decision 一次限流判定的结果
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter 按客户端标识限流，进程内实现和 redis 实现都满足该接口，
// 两种实现都是滑动窗口，任意 window 长度内最多放行 limit 次
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// SlidingWindow 进程内滑动窗口日志：窗口内最多 limit 次，被拒绝的请求不计入窗口
type SlidingWindow struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	hits map[string][]time.Time
}

func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		limit:  limit,
		window: window,
		now:    time.Now,
		hits:   make(map[string][]time.Time),
	}
}

// WithClock 替换时钟，测试用
func (w *SlidingWindow) WithClock(now func() time.Time) *SlidingWindow {
	w.now = now
	return w
}

func (w *SlidingWindow) Allow(_ context.Context, key string) (Decision, error) {
	now := w.now()
	w.mu.Lock()
	defer w.mu.Unlock()

	kept := prune(w.hits[key], now.Add(-w.window))
	if len(kept) >= w.limit {
		w.hits[key] = kept
		return Decision{
			Allowed:    false,
			Limit:      w.limit,
			RetryAfter: kept[0].Add(w.window).Sub(now),
		}, nil
	}
	kept = append(kept, now)
	w.hits[key] = kept
	return Decision{Allowed: true, Limit: w.limit, Remaining: w.limit - len(kept)}, nil
}

// 去掉 cutoff 之前（含）的记录
func prune(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}

// Cleanup 删除整个窗口都没有请求的 key
func (w *SlidingWindow) Cleanup() {
	cutoff := w.now().Add(-w.window)
	w.mu.Lock()
	defer w.mu.Unlock()
	for k, hits := range w.hits {
		if len(prune(hits, cutoff)) == 0 {
			delete(w.hits, k)
		}
	}
}

func (w *SlidingWindow) StartCleanup(ctx context.Context) {
	go runCleanup(ctx, w.window, w.Cleanup)
}

func runCleanup(ctx context.Context, every time.Duration, fn func()) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			fn()
		}
	}
}
