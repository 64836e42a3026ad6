package recipe

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"recipe-cost/internal/infrastructure/config"
	"recipe-cost/internal/pkg/common"

	"go.uber.org/zap"
)

var (
	// ErrQueueFull 等待中的請求已達上限
	ErrQueueFull = errors.New("recipe queue is full")
	// ErrQueueClosed 隊列已關閉
	ErrQueueClosed = errors.New("recipe queue is closed")
)

// Producer 產生食譜文字的服務
type Producer interface {
	Write(ctx context.Context, input string) (string, error)
}

// job 隊列請求
type job struct {
	ctx    context.Context
	input  string
	result chan jobResult
}

type jobResult struct {
	text string
	err  error
}

// QueueStatus 隊列狀態
type QueueStatus struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
}

// Queue 以固定數量的 worker 處理食譜生成，限制同時呼叫模型的數量
type Queue struct {
	producer  Producer
	config    config.QueueConfig
	jobs      chan *job
	done      chan struct{}
	wg        sync.WaitGroup
	processed int64
	closeOnce sync.Once

	// mu 保護 closed，讓入隊與 Close 互斥
	mu     sync.RWMutex
	closed bool
}

// NewQueue 創建隊列並啟動 worker
func NewQueue(producer Producer, cfg config.QueueConfig) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 1
	}

	q := &Queue{
		producer: producer,
		config:   cfg,
		jobs:     make(chan *job, cfg.MaxSize),
		done:     make(chan struct{}),
	}

	for i := 0; i < cfg.Workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}

	common.LogInfo("食譜生成隊列已啟動",
		zap.Int("workers", cfg.Workers),
		zap.Int("max_queue_size", cfg.MaxSize),
	)
	return q
}

// Write 將請求加入隊列並等待結果；隊列已滿時立即回傳 ErrQueueFull
func (q *Queue) Write(ctx context.Context, input string) (string, error) {
	j := &job{
		ctx:    ctx,
		input:  input,
		result: make(chan jobResult, 1),
	}

	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return "", ErrQueueClosed
	}
	select {
	case q.jobs <- j:
		q.mu.RUnlock()
	default:
		q.mu.RUnlock()
		common.LogWarn("Recipe queue is full", zap.Int("queue_length", len(q.jobs)))
		return "", ErrQueueFull
	}

	select {
	case res := <-j.result:
		return res.text, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// worker 處理隊列中的請求，已取消的請求直接略過
func (q *Queue) worker() {
	defer q.wg.Done()

	for {
		select {
		case j := <-q.jobs:
			if err := j.ctx.Err(); err != nil {
				j.result <- jobResult{err: err}
				continue
			}
			text, err := q.producer.Write(j.ctx, j.input)
			atomic.AddInt64(&q.processed, 1)
			j.result <- jobResult{text: text, err: err}
		case <-q.done:
			return
		}
	}
}

// Status 獲取隊列狀態
func (q *Queue) Status() QueueStatus {
	return QueueStatus{
		QueueLength:    len(q.jobs),
		ProcessedCount: atomic.LoadInt64(&q.processed),
		MaxQueueSize:   q.config.MaxSize,
		Workers:        q.config.Workers,
	}
}

// Close 停止 worker；已入隊但未處理的請求回傳 ErrQueueClosed
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		q.mu.Unlock()

		close(q.done)
		q.wg.Wait()

		// 通知仍在隊列中的請求
		for {
			select {
			case j := <-q.jobs:
				j.result <- jobResult{err: ErrQueueClosed}
			default:
				common.LogInfo("食譜生成隊列已關閉", zap.Int64("processed", atomic.LoadInt64(&q.processed)))
				return
			}
		}
	})
}
