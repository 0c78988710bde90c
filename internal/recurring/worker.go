package recurring

import (
	"context"
	"log/slog"
	"time"
)

// Worker runs the processor on startup and then on every tick until ctx is done.
type Worker struct {
	processor *Processor
	interval  time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

func NewWorker(processor *Processor, interval time.Duration, logger *slog.Logger) *Worker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Worker{
		processor: processor,
		interval:  interval,
		logger:    logger,
		now:       time.Now,
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("recurring worker started", "interval", w.interval)

	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("recurring worker stopped")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	if _, err := w.processor.Run(ctx, w.now()); err != nil {
		w.logger.Error("recurring run failed", "error", err)
	}
}
