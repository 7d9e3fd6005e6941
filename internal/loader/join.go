package loader

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// joinAll запускает задачи с ограниченным параллелизмом и ждёт все до единой:
// отказ одной задачи не отменяет остальные. На каждую задачу действует свой
// дедлайн, на весь батч — общий. Возвращает ошибки по ключам задач.
func joinAll(ctx context.Context, perTask, batch time.Duration, limit int, tasks map[string]func(context.Context) error) map[string]error {
	batchCtx := ctx
	if batch > 0 {
		var cancel context.CancelFunc
		batchCtx, cancel = context.WithTimeout(ctx, batch)
		defer cancel()
	}

	var (
		mu     sync.Mutex
		failed = make(map[string]error)
	)

	g := new(errgroup.Group)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for key, fn := range tasks {
		key, fn := key, fn
		g.Go(func() error {
			taskCtx := batchCtx
			if perTask > 0 {
				var cancel context.CancelFunc
				taskCtx, cancel = context.WithTimeout(batchCtx, perTask)
				defer cancel()
			}

			if err := fn(taskCtx); err != nil {
				mu.Lock()
				failed[key] = err
				mu.Unlock()
			}
			// Ошибки собираются вручную: errgroup не должен сработать fail-fast.
			return nil
		})
	}

	_ = g.Wait()
	return failed
}
