package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"payflow/internal/models/db_models"
	"payflow/internal/repositories"
)

const (
	backoffBase = time.Second
	backoffCap  = time.Minute
)

type TaskHandler func(ctx context.Context, task *db_models.Task) error

// TaskScheduler wakes the dispatcher after new tasks are committed.
type TaskScheduler interface {
	Kick()
}

type DispatcherConfig struct {
	Workers      int
	PollInterval time.Duration
	MaxAttempts  int
	Lease        time.Duration
}

// TaskDispatcher drains the task outbox with a bounded worker pool. Delivery is
// at-least-once: a task whose lease expires is picked up again, so handlers
// must tolerate replays.
type TaskDispatcher struct {
	repo     repositories.TaskRepository
	log      *zap.Logger
	cfg      DispatcherConfig
	handlers map[db_models.TaskKind]TaskHandler

	kick   chan struct{}
	cancel context.CancelFunc
	done   chan struct{}
	now    func() time.Time
}

func NewTaskDispatcher(repo repositories.TaskRepository, log *zap.Logger, cfg DispatcherConfig) *TaskDispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Lease <= 0 {
		cfg.Lease = 30 * time.Second
	}
	return &TaskDispatcher{
		repo:     repo,
		log:      log,
		cfg:      cfg,
		handlers: make(map[db_models.TaskKind]TaskHandler),
		kick:     make(chan struct{}, 1),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register must be called before Start.
func (d *TaskDispatcher) Register(kind db_models.TaskKind, h TaskHandler) {
	d.handlers[kind] = h
}

func (d *TaskDispatcher) Kick() {
	select {
	case d.kick <- struct{}{}:
	default:
	}
}

func (d *TaskDispatcher) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(context.WithoutCancel(ctx))
	d.done = make(chan struct{})

	go func() {
		defer close(d.done)
		ticker := time.NewTicker(d.cfg.PollInterval)
		defer ticker.Stop()

		for {
			if _, err := d.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				d.log.Error("task poll failed", zap.Error(err))
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			case <-d.kick:
			}
		}
	}()

	d.log.Info("task dispatcher started",
		zap.Int("workers", d.cfg.Workers),
		zap.Duration("poll_interval", d.cfg.PollInterval))
}

// Stop cancels in-flight handlers and waits for the loop to exit or ctx to end.
func (d *TaskDispatcher) Stop(ctx context.Context) error {
	if d.cancel == nil {
		return nil
	}
	d.cancel()
	select {
	case <-d.done:
		d.log.Info("task dispatcher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce executes one batch of due tasks on the worker pool and returns how
// many tasks this call claimed.
func (d *TaskDispatcher) RunOnce(ctx context.Context) (int, error) {
	tasks, err := d.repo.ListDue(ctx, d.now(), d.cfg.Workers*4)
	if err != nil {
		return 0, err
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		claimed int
		sem     = make(chan struct{}, d.cfg.Workers)
	)
	for i := range tasks {
		task := tasks[i]
		select {
		case <-ctx.Done():
			wg.Wait()
			return claimed, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			if d.execute(ctx, &task) {
				mu.Lock()
				claimed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return claimed, nil
}

func (d *TaskDispatcher) execute(ctx context.Context, task *db_models.Task) bool {
	log := d.log.With(
		zap.String("task_id", task.ID.String()),
		zap.String("kind", string(task.Kind)),
		zap.String("aggregate_id", task.AggregateID))

	ok, err := d.repo.Claim(ctx, task.ID, d.now(), d.cfg.Lease)
	if err != nil {
		log.Error("claim task", zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	attempt := task.Attempts + 1

	err = d.handle(ctx, task)
	if err == nil {
		if err := d.repo.MarkDone(ctx, task.ID); err != nil {
			log.Error("mark task done", zap.Error(err))
		}
		return true
	}

	maxAttempts := task.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = d.cfg.MaxAttempts
	}
	if attempt >= maxAttempts {
		log.Error("task dead-lettered", zap.Int("attempts", attempt), zap.Error(err))
		if err := d.repo.MarkDead(ctx, task.ID, err.Error()); err != nil {
			log.Error("mark task dead", zap.Error(err))
		}
		return true
	}

	delay := Backoff(attempt)
	log.Warn("task failed, retrying", zap.Int("attempts", attempt), zap.Duration("delay", delay), zap.Error(err))
	if err := d.repo.Reschedule(ctx, task.ID, d.now().Add(delay), err.Error()); err != nil {
		log.Error("reschedule task", zap.Error(err))
	}
	return true
}

func (d *TaskDispatcher) handle(ctx context.Context, task *db_models.Task) (err error) {
	h, ok := d.handlers[task.Kind]
	if !ok {
		return fmt.Errorf("no handler registered for task kind %q", task.Kind)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task handler panic: %v", r)
		}
	}()
	return h(ctx, task)
}

// Backoff is exponential from one second, capped at one minute.
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := backoffBase
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= backoffCap {
			return backoffCap
		}
	}
	return delay
}
