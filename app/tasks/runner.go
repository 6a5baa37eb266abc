package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Runner executes a batch of tasks sequentially with per-task retries.
// The process is a single pass over all watch targets; scheduling across
// passes is left to cron.
type Runner struct {
	tasks       []TaskInterface
	taskTimeout time.Duration
}

func NewRunner(tasks []TaskInterface) *Runner {
	return &Runner{
		tasks:       tasks,
		taskTimeout: 5 * time.Minute,
	}
}

// Run executes every task and returns an error only when all of them failed,
// so one broken target never masks the healthy ones.
func (r *Runner) Run(ctx context.Context) error {
	if len(r.tasks) == 0 {
		slog.Warn("No tasks to run")
		return nil
	}

	failed := 0
	for _, task := range r.tasks {
		if err := r.runTask(ctx, task); err != nil {
			failed++
			slog.Error("Task failed after maximum retries",
				"type", string(task.GetType()),
				"watch", task.GetWatchName(),
				"retry_count", task.GetRetryCount(),
				"max_retries", task.GetMaxRetries(),
				"last_error", err)
		}
	}

	if failed == len(r.tasks) {
		return fmt.Errorf("all %d tasks failed", failed)
	}

	return nil
}

func (r *Runner) runTask(ctx context.Context, task TaskInterface) error {
	for {
		task.Start()

		taskCtx, cancel := context.WithTimeout(ctx, r.taskTimeout)
		err := task.Execute(taskCtx)
		cancel()

		if err == nil {
			return nil
		}

		if !task.CanRetry() {
			return err
		}

		task.IncrementRetryCount()
		retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
		if retryDelay > 30*time.Second {
			retryDelay = 30 * time.Second
		}

		slog.Warn("Task retry scheduled",
			"type", string(task.GetType()),
			"watch", task.GetWatchName(),
			"retry_count", task.GetRetryCount(),
			"max_retries", task.GetMaxRetries(),
			"delay", retryDelay.String(),
			"error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay):
		}
	}
}
