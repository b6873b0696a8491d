package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/techradar-io/radar-api/internal/platform/logger"
	"github.com/techradar-io/radar-api/internal/redact"
)

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int

	// StuckTaskAge defines how long a task can be in processing state
	// before it's considered abandoned and marked failed
	StuckTaskAge time.Duration

	// StuckTaskCheckInterval defines how often to check for stuck tasks.
	// Zero means five minutes.
	StuckTaskCheckInterval time.Duration
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount:            2,
		QueueSize:              100,
		StuckTaskAge:           30 * time.Minute,
		StuckTaskCheckInterval: 5 * time.Minute,
	}
}

// Observer is notified about task lifecycle transitions. The metrics package
// provides the production implementation.
type Observer interface {
	TaskSubmitted(taskType string)
	TaskFinished(taskType string, status TaskStatus, elapsed time.Duration)
}

type noopObserver struct{}

func (noopObserver) TaskSubmitted(string) {}

func (noopObserver) TaskFinished(string, TaskStatus, time.Duration) {}

// TaskRunner persists submitted tasks and executes them on a fixed pool of
// worker goroutines.
type TaskRunner struct {
	store       TaskStore
	queue       *TaskQueue
	rehydrators map[string]Rehydrator
	observer    Observer
	ctx         context.Context
	cancelFunc  context.CancelFunc
	wg          sync.WaitGroup
	stopOnce    sync.Once
	config      TaskRunnerConfig
	logger      *slog.Logger
}

// NewTaskRunner creates a runner. Call Start to begin processing.
func NewTaskRunner(store TaskStore, config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	if config.StuckTaskCheckInterval == 0 {
		config.StuckTaskCheckInterval = 5 * time.Minute
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "task_runner"))

	ctx, cancel := context.WithCancel(context.Background())

	return &TaskRunner{
		store:       store,
		queue:       NewTaskQueue(config.QueueSize, logger),
		rehydrators: make(map[string]Rehydrator),
		observer:    noopObserver{},
		ctx:         ctx,
		cancelFunc:  cancel,
		config:      config,
		logger:      logger,
	}
}

// SetObserver installs a lifecycle observer. Call before Start.
func (r *TaskRunner) SetObserver(observer Observer) {
	if observer == nil {
		observer = noopObserver{}
	}
	r.observer = observer
}

// RegisterRehydrator binds a task type to the function that rebuilds it from
// storage during recovery. Call before Start.
func (r *TaskRunner) RegisterRehydrator(taskType string, fn Rehydrator) {
	r.rehydrators[taskType] = fn
}

// Submit persists the task and queues it for execution. A persisted task that
// cannot be queued stays pending and is picked up by the next recovery.
func (r *TaskRunner) Submit(ctx context.Context, task Task) error {
	if err := r.store.SaveTask(ctx, task); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	r.observer.TaskSubmitted(task.Type())

	if err := r.queue.Enqueue(task); err != nil {
		return fmt.Errorf("failed to queue task %s: %w", task.ID(), err)
	}
	return nil
}

// Start recovers unfinished tasks and launches the workers and stuck-task monitor.
func (r *TaskRunner) Start() error {
	if err := r.Recover(r.ctx); err != nil {
		return fmt.Errorf("failed to recover tasks: %w", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.wg.Add(1)
	go r.stuckTaskMonitor()

	r.logger.Info("task runner started", slog.Int("worker_count", r.config.WorkerCount))
	return nil
}

// Stop signals the workers to exit and waits for in-flight tasks to finish.
// Tasks still queued remain pending in the store.
func (r *TaskRunner) Stop() {
	r.stopOnce.Do(func() {
		r.cancelFunc()
		r.wg.Wait()
		r.queue.Close()
		r.logger.Info("task runner stopped")
	})
}

// Recover requeues pending tasks and fails tasks left in processing by a
// previous run.
func (r *TaskRunner) Recover(ctx context.Context) error {
	pending, err := r.store.GetPendingTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending tasks: %w", err)
	}

	processing, err := r.store.GetProcessingTasks(ctx, r.config.StuckTaskAge)
	if err != nil {
		return fmt.Errorf("failed to get processing tasks: %w", err)
	}

	r.logger.Info("recovering unfinished tasks",
		slog.Int("pending_count", len(pending)),
		slog.Int("interrupted_count", len(processing)))

	for _, t := range pending {
		r.requeue(ctx, t)
	}
	for _, t := range processing {
		r.abandon(ctx, t)
	}

	return nil
}

// requeue rehydrates a stored pending task and puts it back on the queue.
func (r *TaskRunner) requeue(ctx context.Context, stored Task) {
	log := r.logger.With(
		slog.String("task_id", stored.ID().String()),
		slog.String("task_type", stored.Type()),
	)

	t, err := r.rehydrate(stored)
	if err != nil {
		log.Error("failed to rehydrate task", redact.Attr(err))
		if updateErr := r.store.UpdateTaskStatus(ctx, stored.ID(), TaskStatusFailed, redact.Error(err)); updateErr != nil {
			log.Error("failed to mark task failed", slog.String("error", updateErr.Error()))
		}
		return
	}

	if err := r.queue.Enqueue(t); err != nil {
		log.Error("failed to requeue task", slog.String("error", err.Error()))
		return
	}
	log.Debug("task requeued")
}

// abandon marks a task whose worker went away as failed.
func (r *TaskRunner) abandon(ctx context.Context, stored Task) {
	log := r.logger.With(
		slog.String("task_id", stored.ID().String()),
		slog.String("task_type", stored.Type()),
	)

	if err := r.store.UpdateTaskStatus(ctx, stored.ID(), TaskStatusFailed, ErrTaskInterrupted.Error()); err != nil {
		log.Error("failed to mark interrupted task failed", slog.String("error", err.Error()))
		return
	}
	log.Error("task interrupted while processing, marked failed")
	r.observer.TaskFinished(stored.Type(), TaskStatusFailed, 0)
}

func (r *TaskRunner) rehydrate(t Task) (Task, error) {
	record, ok := t.(*Record)
	if !ok {
		return t, nil
	}
	fn, ok := r.rehydrators[record.TaskType]
	if !ok {
		return nil, fmt.Errorf("no rehydrator registered for task type %q", record.TaskType)
	}
	return fn(record.TaskID, record.TaskPayload)
}

// worker processes tasks from the queue until the runner stops
func (r *TaskRunner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", slog.Int("worker_id", id))

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", slog.Int("worker_id", id))
			return

		case t, ok := <-r.queue.Channel():
			if !ok {
				return
			}
			r.processTask(t, id)
		}
	}
}

// processTask executes one task and records the outcome
func (r *TaskRunner) processTask(t Task, workerID int) {
	log := r.logger.With(
		slog.String("task_id", t.ID().String()),
		slog.String("task_type", t.Type()),
		slog.Int("worker_id", workerID),
	)
	// In-flight tasks finish even when the runner is stopping.
	ctx := logger.WithLogger(context.Background(), log)

	claimed, err := r.store.ClaimTask(ctx, t.ID())
	if err != nil {
		log.Error("failed to claim task", slog.String("error", err.Error()))
		return
	}
	if !claimed {
		log.Debug("task already claimed, skipping")
		return
	}

	log.Info("processing task")
	started := time.Now()

	err = safeExecute(ctx, t)
	elapsed := time.Since(started)

	if err != nil {
		log.Error("task execution failed",
			redact.Attr(err),
			slog.Duration("elapsed", elapsed))
		if updateErr := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusFailed, redact.Error(err)); updateErr != nil {
			log.Error("failed to update task status to failed", slog.String("error", updateErr.Error()))
		}
		r.observer.TaskFinished(t.Type(), TaskStatusFailed, elapsed)
		return
	}

	log.Info("task completed successfully", slog.Duration("elapsed", elapsed))
	if updateErr := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusCompleted, ""); updateErr != nil {
		log.Error("failed to update task status to completed", slog.String("error", updateErr.Error()))
	}
	r.observer.TaskFinished(t.Type(), TaskStatusCompleted, elapsed)
}

// safeExecute converts a panicking task into a failed one.
func safeExecute(ctx context.Context, t Task) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("task panicked: %v", p)
		}
	}()
	return t.Execute(ctx)
}

// stuckTaskMonitor periodically resets tasks that have been processing for
// longer than StuckTaskAge
func (r *TaskRunner) stuckTaskMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckTaskCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return

		case <-ticker.C:
			r.failStuckTasks(r.ctx)
		}
	}
}

func (r *TaskRunner) failStuckTasks(ctx context.Context) {
	stuck, err := r.store.GetProcessingTasks(ctx, r.config.StuckTaskAge)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			r.logger.Error("failed to check for stuck tasks", slog.String("error", err.Error()))
		}
		return
	}

	if len(stuck) == 0 {
		return
	}

	r.logger.Warn("found stuck tasks", slog.Int("count", len(stuck)))
	for _, t := range stuck {
		r.abandon(ctx, t)
	}
}
